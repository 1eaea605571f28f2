package arbitration

// PriorityArbiter delivers the pending packet with the highest priority
// value. Only a strictly greater priority replaces the current winner, so
// ties go to the lowest input index. If the winner's destination is full,
// nothing moves in the round.
type PriorityArbiter struct{}

// NewPriorityArbiter creates a PriorityArbiter.
func NewPriorityArbiter() *PriorityArbiter {
	return &PriorityArbiter{}
}

// Arbitrate serves the winning input, if it can be served.
func (a *PriorityArbiter) Arbitrate(sb Switchboard) int {
	winner := -1
	best := 0

	for i := 0; i < sb.NumInputs(); i++ {
		pkt := sb.Head(i)
		if pkt == nil {
			continue
		}

		if winner < 0 || pkt.Priority > best {
			winner = i
			best = pkt.Priority
		}
	}

	if winner < 0 || !sb.CanDeliver(winner) {
		return 0
	}

	sb.Deliver(winner)

	return 1
}
