package arbitration

// RoundRobinArbiter delivers at most one packet per round. The search for an
// eligible input starts right after the input served last.
type RoundRobinArbiter struct {
	lastServed int
}

// NewRoundRobinArbiter creates a RoundRobinArbiter. The first search starts
// at input 0.
func NewRoundRobinArbiter() *RoundRobinArbiter {
	return &RoundRobinArbiter{lastServed: -1}
}

// LastServed returns the input served last, or -1.
func (a *RoundRobinArbiter) LastServed() int {
	return a.lastServed
}

// Arbitrate serves the first eligible input in rotating order.
func (a *RoundRobinArbiter) Arbitrate(sb Switchboard) int {
	n := sb.NumInputs()
	if n == 0 {
		return 0
	}

	start := (a.lastServed + 1) % n
	for k := 0; k < n; k++ {
		i := (start + k) % n
		if sb.CanDeliver(i) {
			sb.Deliver(i)
			a.lastServed = i

			return 1
		}
	}

	return 0
}
