package app

import "fmt"

// A MismatchError reports that two graphs do not have the same instruction
// sequence.
type MismatchError struct {
	Position int
	Old      string
	New      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("instruction %d mismatch: %s became %s",
		e.Position, e.Old, e.New)
}

// PatchBounds copies the cost bounds of the instructions of next into the
// instructions of g. Instructions are matched by position and must be of
// the same kind. Label accesses are left untouched. Nothing is modified if
// the sequences do not match.
func (g *Graph) PatchBounds(next *Graph) error {
	old := g.Instructions()
	fresh := next.Instructions()

	if len(old) != len(fresh) {
		return &MismatchError{
			Position: min(len(old), len(fresh)),
			Old:      fmt.Sprintf("%d instructions", len(old)),
			New:      fmt.Sprintf("%d instructions", len(fresh)),
		}
	}

	for i := range old {
		if old[i].Kind() != fresh[i].Kind() {
			return &MismatchError{
				Position: i,
				Old:      old[i].Kind().String(),
				New:      fresh[i].Kind().String(),
			}
		}
	}

	for i := range old {
		switch o := old[i].(type) {
		case *Constant:
			o.Cycles = fresh[i].(*Constant).Cycles
		case *Deviation:
			n := fresh[i].(*Deviation)
			o.Lower = n.Lower
			o.Upper = n.Upper
		case *LabelAccess:
		}
	}

	return nil
}
