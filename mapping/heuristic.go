// Package mapping decides where runnables run and where labels live.
package mapping

import (
	"errors"
	"fmt"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// A RunnableRequest describes the instance to be placed.
type RunnableRequest struct {
	ClassID   int
	ClassName string
	TaskName  string
	TaskID    app.TaskID
	CallIndex int
	PeriodID  int
}

// A Heuristic places runnable instances and labels on processing elements.
// Results outside of the grid are rejected by the caller.
type Heuristic interface {
	// MapRunnable returns the processing element that should run the
	// instance.
	MapRunnable(now sim.VTimeInPs, req RunnableRequest) messaging.Coord

	// MapLabel returns the processing element that holds the label.
	MapLabel(label app.LabelID, now sim.VTimeInPs, name string) messaging.Coord

	// SwitchMode is called when the application enters a new mode described
	// by file.
	SwitchMode(now sim.VTimeInPs, file, mode string) error
}

// Grid is the size of the processing element array.
type Grid struct {
	Rows int
	Cols int
}

// Size returns the number of processing elements.
func (g Grid) Size() int {
	return g.Rows * g.Cols
}

// Contains tells if the coordinate is inside the grid.
func (g Grid) Contains(c messaging.Coord) bool {
	return c.InGrid(g.Rows, g.Cols)
}

func (g Grid) mustBeValid() {
	if g.Rows <= 0 || g.Cols <= 0 {
		panic(fmt.Sprintf("invalid grid %dx%d", g.Rows, g.Cols))
	}
}

// Kind names a heuristic shipped with the simulator.
type Kind string

// The heuristics shipped with the simulator.
const (
	KindZigZag      Kind = "zigzag"
	KindRandomFixed Kind = "random"
	KindStatic      Kind = "static"
)

// ErrUnknownHeuristic is returned for unsupported heuristic names.
var ErrUnknownHeuristic = errors.New("unknown mapping heuristic")

// ParseKind validates a heuristic name.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(name); k {
	case KindZigZag, KindRandomFixed, KindStatic:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownHeuristic, name)
	}
}
