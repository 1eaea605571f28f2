package mapping

import (
	"math/rand/v2"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// RandomFixed draws a random processing element the first time a runnable
// class or a label is seen and keeps it afterwards. Switching mode draws a
// new placement.
type RandomFixed struct {
	grid      Grid
	rng       *rand.Rand
	runnables map[int]messaging.Coord
	labels    map[app.LabelID]messaging.Coord
}

// NewRandomFixed creates the heuristic. The same seed gives the same
// placement.
func NewRandomFixed(grid Grid, seed uint64) *RandomFixed {
	grid.mustBeValid()

	return &RandomFixed{
		grid:      grid,
		rng:       rand.New(rand.NewPCG(seed, 0)),
		runnables: make(map[int]messaging.Coord),
		labels:    make(map[app.LabelID]messaging.Coord),
	}
}

func (h *RandomFixed) draw() messaging.Coord {
	return messaging.CoordOf(h.rng.IntN(h.grid.Size()), h.grid.Cols)
}

// MapRunnable returns the processing element of the runnable class.
func (h *RandomFixed) MapRunnable(_ sim.VTimeInPs, req RunnableRequest) messaging.Coord {
	c, ok := h.runnables[req.ClassID]
	if !ok {
		c = h.draw()
		h.runnables[req.ClassID] = c
	}

	return c
}

// MapLabel returns the processing element of the label.
func (h *RandomFixed) MapLabel(label app.LabelID, _ sim.VTimeInPs, _ string) messaging.Coord {
	c, ok := h.labels[label]
	if !ok {
		c = h.draw()
		h.labels[label] = c
	}

	return c
}

// SwitchMode forgets the current placement.
func (h *RandomFixed) SwitchMode(_ sim.VTimeInPs, _, _ string) error {
	clear(h.runnables)
	clear(h.labels)

	return nil
}
