package system

import "github.com/sarchlab/nocsim/sim"

// ModeEnd is the name of the mode entry that only marks the end of the
// schedule.
const ModeEnd = "end"

// A Mode is one entry of a mode schedule. At Time the application switches
// to the mode Name, whose costs are described by File.
type Mode struct {
	Time sim.VTimeInPs
	Name string
	File string
}

// StopReason tells why a simulation stopped.
type StopReason int

// The reasons, in priority order.
const (
	StopNotRequested StopReason = iota
	StopDurationReached
	StopModeScheduleEnded
	StopIterationsReached
	StopHyperperiodElapsed
)

func (r StopReason) String() string {
	switch r {
	case StopDurationReached:
		return "duration reached"
	case StopModeScheduleEnded:
		return "mode schedule ended"
	case StopIterationsReached:
		return "iterations reached"
	case StopHyperperiodElapsed:
		return "hyperperiod elapsed"
	default:
		return "running"
	}
}
