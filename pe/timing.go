package pe

import "github.com/sarchlab/nocsim/sim"

// Timing holds the cost model of a processing element.
type Timing struct {
	Freq sim.Freq
	CPI  float64

	// Local costs are per byte.
	LocalReadCost  sim.VTimeInPs
	LocalWriteCost sim.VTimeInPs

	// Remote costs are per fragment.
	RemoteReadCost  sim.VTimeInPs
	RemoteWriteCost sim.VTimeInPs

	// FragmentBytes is the payload of one packet. Issuing a read request
	// costs one nanosecond per fragment byte.
	FragmentBytes int

	// AdmissionCost is paid when an instance enters the ready queue.
	AdmissionCost sim.VTimeInPs

	Scheduling Scheduling
}

// DefaultTiming returns the cost model used when nothing is configured.
func DefaultTiming() Timing {
	return Timing{
		Freq:            1 * sim.GHz,
		CPI:             1,
		LocalReadCost:   2 * sim.Ns,
		LocalWriteCost:  2 * sim.Ns,
		RemoteReadCost:  2 * sim.Ns,
		RemoteWriteCost: 2 * sim.Ns,
		FragmentBytes:   32,
		AdmissionCost:   1 * sim.Ns,
		Scheduling:      FCFS,
	}
}

func (t Timing) cycles(n float64) sim.VTimeInPs {
	return t.Freq.CyclesToTime(n * t.CPI)
}

func (t Timing) readRequestCost() sim.VTimeInPs {
	return sim.VTimeInPs(t.FragmentBytes) * sim.Ns
}
