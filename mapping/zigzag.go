package mapping

import (
	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// ZigZag walks the grid in a snake order. Even rows go left to right and odd
// rows right to left. Runnables and labels advance separate cursors.
type ZigZag struct {
	grid         Grid
	runnableStep int
	labelStep    int
}

// NewZigZag creates a ZigZag heuristic for the grid.
func NewZigZag(grid Grid) *ZigZag {
	grid.mustBeValid()

	return &ZigZag{grid: grid}
}

// At returns the n-th processing element of the snake order.
func (h *ZigZag) At(n int) messaging.Coord {
	n %= h.grid.Size()
	row := n / h.grid.Cols
	col := n % h.grid.Cols

	if row%2 == 1 {
		col = h.grid.Cols - 1 - col
	}

	return messaging.Coord{Row: row, Col: col}
}

// MapRunnable places each new instance on the next processing element.
func (h *ZigZag) MapRunnable(_ sim.VTimeInPs, _ RunnableRequest) messaging.Coord {
	c := h.At(h.runnableStep)
	h.runnableStep++

	return c
}

// MapLabel places each new label on the next processing element.
func (h *ZigZag) MapLabel(_ app.LabelID, _ sim.VTimeInPs, _ string) messaging.Coord {
	c := h.At(h.labelStep)
	h.labelStep++

	return c
}

// SwitchMode restarts the label walk so that a new mode lays labels out
// the same way as the first one.
func (h *ZigZag) SwitchMode(_ sim.VTimeInPs, _, _ string) error {
	h.labelStep = 0
	return nil
}
