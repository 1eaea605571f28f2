package sim

import "fmt"

// VTimeInPs defines the time in the simulated space in the unit of
// picosecond.
type VTimeInPs uint64

// Defines the units of simulated time.
const (
	Ps  VTimeInPs = 1
	Ns  VTimeInPs = 1000 * Ps
	Us  VTimeInPs = 1000 * Ns
	Ms  VTimeInPs = 1000 * Us
	Sec VTimeInPs = 1000 * Ms
)

// InNs returns the time in nanoseconds.
func (t VTimeInPs) InNs() float64 {
	return float64(t) / float64(Ns)
}

// InSec returns the time in seconds.
func (t VTimeInPs) InSec() float64 {
	return float64(t) / float64(Sec)
}

func (t VTimeInPs) String() string {
	if t%Ns == 0 {
		return fmt.Sprintf("%dns", uint64(t/Ns))
	}

	return fmt.Sprintf("%dps", uint64(t))
}

// NsToTime converts a possibly fractional number of nanoseconds to a
// simulated duration, rounding to the nearest picosecond.
func NsToTime(ns float64) VTimeInPs {
	if ns <= 0 {
		return 0
	}

	return VTimeInPs(ns*float64(Ns) + 0.5)
}
