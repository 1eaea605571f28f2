package app

import (
	"fmt"

	"github.com/sarchlab/nocsim/sim"
)

// InstanceState is the state of a runnable instance.
type InstanceState int

// The instance states.
const (
	StateReleased InstanceState = iota
	StateReady
	StateRunning
	StateBlocked
	StateCompleted
)

func (s InstanceState) String() string {
	switch s {
	case StateReleased:
		return "Released"
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateBlocked:
		return "BlockedOnRemoteRead"
	case StateCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("InstanceState(%d)", int(s))
	}
}

// An Instance is one activation of a runnable call.
type Instance struct {
	ID       string
	Call     *RunnableCall
	PeriodID int
	State    InstanceState

	ReleaseTime     sim.VTimeInPs
	MappingTime     sim.VTimeInPs
	CoreReceiveTime sim.VTimeInPs
	StartTime       sim.VTimeInPs
	CompletionTime  sim.VTimeInPs

	// NextInstr is the index of the next instruction to run.
	NextInstr int
	Started   bool
}

// NewInstance creates a released instance of the call.
func NewInstance(id string, call *RunnableCall, now sim.VTimeInPs) *Instance {
	return &Instance{
		ID:          id,
		Call:        call,
		PeriodID:    call.NextPeriodID(),
		State:       StateReleased,
		ReleaseTime: now,
	}
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s#%d(%s)", i.Call.ClassName, i.PeriodID, i.ID)
}

// ExecutionTime returns the time from reaching the core to completion.
func (i *Instance) ExecutionTime() sim.VTimeInPs {
	return i.CompletionTime - i.CoreReceiveTime
}

// MissedDeadline tells if a completed instance took longer than its
// declared deadline.
func (i *Instance) MissedDeadline() bool {
	return i.Call.HasDeadline() && i.ExecutionTime() > i.Call.Deadline
}

// Slack returns the deadline minus the execution time, in picoseconds. It
// is negative when the deadline is missed.
func (i *Instance) Slack() int64 {
	return int64(i.Call.Deadline) - int64(i.ExecutionTime())
}

// Done tells if every instruction has been started.
func (i *Instance) Done() bool {
	return i.NextInstr >= len(i.Call.Instructions)
}
