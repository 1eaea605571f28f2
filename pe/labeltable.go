package pe

import (
	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/noc/messaging"
)

// A LabelTable records which processing element holds each label. All the
// processing elements of a platform share one table.
type LabelTable struct {
	homes map[app.LabelID]messaging.Coord
}

// NewLabelTable creates an empty table.
func NewLabelTable() *LabelTable {
	return &LabelTable{homes: make(map[app.LabelID]messaging.Coord)}
}

// Place sets the home of a label.
func (t *LabelTable) Place(label app.LabelID, home messaging.Coord) {
	t.homes[label] = home
}

// Home returns the home of a label.
func (t *LabelTable) Home(label app.LabelID) (messaging.Coord, bool) {
	c, ok := t.homes[label]
	return c, ok
}

// Len returns the number of placed labels.
func (t *LabelTable) Len() int {
	return len(t.homes)
}
