package system

import "github.com/sarchlab/nocsim/sim"

// Hook positions of the release manager.
var (
	// HookPosReleased triggers when an instance is released. The item is
	// the *app.Instance.
	HookPosReleased = &sim.HookPos{Name: "System Released"}

	// HookPosMapped triggers when an instance is handed to a processing
	// element. The item is the *app.Instance and the detail the
	// messaging.Coord of the processing element.
	HookPosMapped = &sim.HookPos{Name: "System Mapped"}

	// HookPosLabelMapped triggers when a label gets a home. The item is the
	// *app.Label and the detail the messaging.Coord.
	HookPosLabelMapped = &sim.HookPos{Name: "System Label Mapped"}

	// HookPosModeSwitched triggers after a mode switch. The item is the
	// Mode.
	HookPosModeSwitched = &sim.HookPos{Name: "System Mode Switched"}

	// HookPosIterationDone triggers when a full iteration of the
	// application completed. The item is the number of iterations.
	HookPosIterationDone = &sim.HookPos{Name: "System Iteration Done"}

	// HookPosStopped triggers when the simulation stops. The item is the
	// StopReason.
	HookPosStopped = &sim.HookPos{Name: "System Stopped"}
)
