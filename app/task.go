package app

import "github.com/sarchlab/nocsim/sim"

// TaskID identifies a task in a Graph.
type TaskID int

// CallID identifies a runnable call in a Graph.
type CallID int

// LabelID identifies a label in a Graph.
type LabelID int

// ActivationKind tells what releases the head runnables of a task.
type ActivationKind int

// The activation kinds. Tasks without a stimulus only run runnables that are
// released as independents or through dependencies.
const (
	ActivationNone ActivationKind = iota
	ActivationPeriodic
	ActivationSporadic
)

func (k ActivationKind) String() string {
	switch k {
	case ActivationPeriodic:
		return "Periodic"
	case ActivationSporadic:
		return "Sporadic"
	default:
		return "None"
	}
}

// Activation describes the stimulus of a task.
type Activation struct {
	Kind   ActivationKind
	Period sim.VTimeInPs
	Offset sim.VTimeInPs

	// MinInterArrival and MaxInterArrival bound the time between two
	// releases of a sporadic task.
	MinInterArrival sim.VTimeInPs
	MaxInterArrival sim.VTimeInPs
}

// Recurring tells if the task is released on a schedule.
func (a Activation) Recurring() bool {
	return a.Kind == ActivationPeriodic || a.Kind == ActivationSporadic
}

// Interval returns the time between two releases. Sporadic tasks are
// released at their minimum inter-arrival time.
func (a Activation) Interval() sim.VTimeInPs {
	switch a.Kind {
	case ActivationPeriodic:
		return a.Period
	case ActivationSporadic:
		return a.MinInterArrival
	default:
		return 0
	}
}

// A Task is one task of the application.
type Task struct {
	ID         TaskID
	Name       string
	Activation Activation
	Calls      []CallID
}

// A RunnableCall is a call site of a runnable inside a task.
type RunnableCall struct {
	ID           CallID
	Task         TaskID
	IndexInTask  int
	ClassID      int
	ClassName    string
	Priority     int
	Deadline     sim.VTimeInPs
	Instructions []Instruction
	Predecessors []CallID
	Successors   []CallID

	satisfied int
	releases  int
}

// NumPredecessors returns the number of calls that gate this one.
func (c *RunnableCall) NumPredecessors() int {
	return len(c.Predecessors)
}

// Satisfied returns how many predecessors have completed in the current
// activation epoch.
func (c *RunnableCall) Satisfied() int {
	return c.satisfied
}

// SatisfyOne records the completion of one predecessor. It returns true
// when the last predecessor of the epoch completes; the counter then starts
// a new epoch at zero.
func (c *RunnableCall) SatisfyOne() bool {
	if len(c.Predecessors) == 0 {
		panic("runnable " + c.ClassName + " has no predecessor to satisfy")
	}

	c.satisfied++
	if c.satisfied < len(c.Predecessors) {
		return false
	}

	c.satisfied = 0

	return true
}

// HasDeadline tells if a deadline is declared.
func (c *RunnableCall) HasDeadline() bool {
	return c.Deadline > 0
}

// NextPeriodID returns the activation number of the next instance.
func (c *RunnableCall) NextPeriodID() int {
	id := c.releases
	c.releases++

	return id
}

// A Label is a named shared datum.
type Label struct {
	ID       LabelID
	Name     string
	SizeBits int
}

// SizeBytes returns the size of the label rounded up to whole bytes.
func (l *Label) SizeBytes() int {
	return (l.SizeBits + 7) / 8
}
