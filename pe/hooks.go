package pe

import "github.com/sarchlab/nocsim/sim"

// Hook positions of a processing element. Unless noted, the item of the hook
// context is the *app.Instance concerned.
var (
	// HookPosAdmitted triggers when a mapped instance enters the ready queue.
	HookPosAdmitted = &sim.HookPos{Name: "PE Admitted"}

	// HookPosInstruction triggers when an instruction starts. The detail is
	// an InstructionDetail.
	HookPosInstruction = &sim.HookPos{Name: "PE Instruction"}

	// HookPosBlocked triggers when an instance waits for a remote read.
	HookPosBlocked = &sim.HookPos{Name: "PE Blocked"}

	// HookPosUnblocked triggers when all the responses of a read arrived.
	HookPosUnblocked = &sim.HookPos{Name: "PE Unblocked"}

	// HookPosCompleted triggers when an instance completes.
	HookPosCompleted = &sim.HookPos{Name: "PE Completed"}

	// HookPosDeadlineMissed triggers after HookPosCompleted for instances
	// that took longer than their deadline.
	HookPosDeadlineMissed = &sim.HookPos{Name: "PE Deadline Missed"}

	// HookPosPacketReceived triggers for every packet taken from the
	// network. The item is the *messaging.Packet.
	HookPosPacketReceived = &sim.HookPos{Name: "PE Packet Received"}

	// HookPosWriteCompleted triggers when all the fragments of a remote
	// write arrived. The item is the last *messaging.Packet.
	HookPosWriteCompleted = &sim.HookPos{Name: "PE Write Completed"}
)

// InstructionDetail describes an instruction that starts.
type InstructionDetail struct {
	Index    int
	Kind     string
	Cycles   int64
	Duration sim.VTimeInPs
	Remote   bool
}
