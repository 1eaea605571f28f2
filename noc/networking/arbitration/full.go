package arbitration

// FullArbiter lets every input whose destination has space move one packet.
type FullArbiter struct{}

// NewFullArbiter creates a FullArbiter.
func NewFullArbiter() *FullArbiter {
	return &FullArbiter{}
}

// Arbitrate serves all the eligible inputs, in port order.
func (a *FullArbiter) Arbitrate(sb Switchboard) int {
	delivered := 0

	for i := 0; i < sb.NumInputs(); i++ {
		if sb.CanDeliver(i) {
			sb.Deliver(i)
			delivered++
		}
	}

	return delivered
}
