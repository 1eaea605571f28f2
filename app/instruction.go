package app

import "fmt"

// InstructionKind names the variants of Instruction.
type InstructionKind int

// The instruction variants.
const (
	KindConstant InstructionKind = iota
	KindDeviation
	KindLabelAccess
)

func (k InstructionKind) String() string {
	switch k {
	case KindConstant:
		return "Constant"
	case KindDeviation:
		return "Deviation"
	case KindLabelAccess:
		return "LabelAccess"
	default:
		return fmt.Sprintf("InstructionKind(%d)", int(k))
	}
}

// An Instruction is one step of a runnable. The set of implementations is
// closed: *Constant, *Deviation and *LabelAccess.
type Instruction interface {
	Kind() InstructionKind
	isInstruction()
}

// Constant costs a fixed number of cycles.
type Constant struct {
	Cycles float64
}

// Kind returns KindConstant.
func (*Constant) Kind() InstructionKind { return KindConstant }
func (*Constant) isInstruction()        {}

// Deviation costs a number of cycles drawn uniformly from [Lower, Upper].
// Bounds that are not declared are 0.
type Deviation struct {
	Lower int64
	Upper int64
}

// Kind returns KindDeviation.
func (*Deviation) Kind() InstructionKind { return KindDeviation }
func (*Deviation) isInstruction()        {}

// LabelAccess reads or writes a label.
type LabelAccess struct {
	Label LabelID
	Write bool
}

// Kind returns KindLabelAccess.
func (*LabelAccess) Kind() InstructionKind { return KindLabelAccess }
func (*LabelAccess) isInstruction()        {}

// DescribeInstruction returns a short human-readable form of an
// instruction.
func DescribeInstruction(inst Instruction) string {
	switch i := inst.(type) {
	case *Constant:
		return fmt.Sprintf("Constant(%g)", i.Cycles)
	case *Deviation:
		return fmt.Sprintf("Deviation[%d,%d]", i.Lower, i.Upper)
	case *LabelAccess:
		if i.Write {
			return fmt.Sprintf("Write(label %d)", i.Label)
		}

		return fmt.Sprintf("Read(label %d)", i.Label)
	default:
		panic(fmt.Sprintf("unknown instruction %T", inst))
	}
}
