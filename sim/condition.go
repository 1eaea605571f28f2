package sim

// A Condition is a point that processes can wait on. Notifying a condition
// resumes every process waiting on it at the current time.
type Condition struct {
	name    string
	waiters []*Process
}

// NewCondition creates a condition with no waiter.
func NewCondition(name string) *Condition {
	return &Condition{name: name}
}

// Name returns the name of the condition.
func (c *Condition) Name() string {
	return c.name
}

// NumWaiters returns the number of processes currently waiting.
func (c *Condition) NumWaiters() int {
	return len(c.waiters)
}

// Notify wakes up all the waiting processes. A process that waits on
// several conditions is woken up once and stops waiting on the others.
func (c *Condition) Notify() {
	if len(c.waiters) == 0 {
		return
	}

	waiters := c.waiters
	c.waiters = nil

	for _, p := range waiters {
		p.wake()
	}
}

func (c *Condition) add(p *Process) {
	for _, w := range c.waiters {
		if w == p {
			return
		}
	}

	c.waiters = append(c.waiters, p)
}

func (c *Condition) remove(p *Process) {
	for i, w := range c.waiters {
		if w == p {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}
