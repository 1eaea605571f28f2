package pe

import (
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/networking/crossbar"
	"github.com/sarchlab/nocsim/sim"
)

// A step waits, optionally sends a packet, then pays a cost.
type step struct {
	wait   sim.VTimeInPs
	packet *messaging.Packet
	cost   sim.VTimeInPs
	waited bool
}

// stepper runs a list of steps on behalf of an activity. Sending into a full
// port suspends the activity until the port has room.
type stepper struct {
	port  *crossbar.Port
	steps []step
	sent  func(pkt *messaging.Packet)
}

func (s *stepper) push(st step) {
	s.steps = append(s.steps, st)
}

// run executes steps until one needs to suspend. It returns false once all
// the steps are done.
func (s *stepper) run() (sim.Yield, bool) {
	for len(s.steps) > 0 {
		st := &s.steps[0]

		if !st.waited {
			st.waited = true
			if st.wait > 0 {
				return sim.WaitFor(st.wait), true
			}
		}

		if st.packet != nil {
			if !s.port.CanSend() {
				return sim.WaitOn(s.port.SpaceFreed()), true
			}

			s.port.Send(st.packet)
			if s.sent != nil {
				s.sent(st.packet)
			}

			st.packet = nil
		}

		cost := st.cost
		s.steps = s.steps[1:]

		if cost > 0 {
			return sim.WaitFor(cost), true
		}
	}

	return sim.Yield{}, false
}
