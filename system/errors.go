package system

import (
	"errors"
	"fmt"
)

// ErrData is matched by every DataError.
var ErrData = errors.New("invalid application data")

// ErrOutOfGrid is returned when a heuristic places something outside of the
// processing element grid.
var ErrOutOfGrid = errors.New("placement outside of the grid")

// A DataError reports application data that the simulation cannot run with.
type DataError struct {
	File   string
	Name   string
	Reason string
}

func (e *DataError) Error() string {
	switch {
	case e.File == "" && e.Name == "":
		return e.Reason
	case e.Name == "":
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	default:
		return fmt.Sprintf("%s (%s): %s", e.File, e.Name, e.Reason)
	}
}

// Is makes errors.Is(err, ErrData) true.
func (e *DataError) Is(target error) bool {
	return target == ErrData
}
