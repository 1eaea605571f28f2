package mapping

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// ErrInvalidMappingFile is returned when a static mapping cannot be used.
var ErrInvalidMappingFile = errors.New("invalid mapping file")

// Placement lists the processing element of runnable classes and labels by
// name. A coordinate is written as [row, col].
type Placement struct {
	Runnables map[string][2]int `yaml:"runnables"`
	Labels    map[string][2]int `yaml:"labels"`
}

type staticFile struct {
	Placement `yaml:",inline"`
	Modes     map[string]Placement `yaml:"modes"`
}

// Static places runnables and labels as a mapping file says. Names that the
// file does not mention are placed by a ZigZag walk. The file may carry one
// placement per mode under "modes"; it replaces the base placement once the
// application switches to that mode.
//
//	runnables:
//	  Runnable_A: [0, 1]
//	labels:
//	  Label_X: [1, 1]
//	modes:
//	  degraded:
//	    runnables:
//	      Runnable_A: [0, 0]
type Static struct {
	grid     Grid
	file     staticFile
	current  Placement
	fallback *ZigZag
}

// LoadStatic reads a mapping file.
func LoadStatic(grid Grid, path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseStatic(grid, data)
}

// ParseStatic decodes a mapping file and checks every coordinate against the
// grid.
func ParseStatic(grid Grid, data []byte) (*Static, error) {
	grid.mustBeValid()

	h := &Static{
		grid:     grid,
		fallback: NewZigZag(grid),
	}

	if err := yaml.Unmarshal(data, &h.file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMappingFile, err)
	}

	if err := h.check("", h.file.Placement); err != nil {
		return nil, err
	}

	for name, p := range h.file.Modes {
		if err := h.check(name, p); err != nil {
			return nil, err
		}
	}

	h.current = h.file.Placement

	return h, nil
}

func (h *Static) check(mode string, p Placement) error {
	for _, entries := range []map[string][2]int{p.Runnables, p.Labels} {
		for name, rc := range entries {
			c := messaging.Coord{Row: rc[0], Col: rc[1]}
			if !h.grid.Contains(c) {
				return fmt.Errorf("%w: %s%s is placed at %s, outside of %dx%d",
					ErrInvalidMappingFile, modePrefix(mode), name, c,
					h.grid.Rows, h.grid.Cols)
			}
		}
	}

	return nil
}

func modePrefix(mode string) string {
	if mode == "" {
		return ""
	}

	return "mode " + mode + ": "
}

func lookup(entries map[string][2]int, name string) (messaging.Coord, bool) {
	rc, ok := entries[name]
	if !ok {
		return messaging.Coord{}, false
	}

	return messaging.Coord{Row: rc[0], Col: rc[1]}, true
}

// MapRunnable returns the processing element listed for the runnable class.
func (h *Static) MapRunnable(now sim.VTimeInPs, req RunnableRequest) messaging.Coord {
	if c, ok := lookup(h.current.Runnables, req.ClassName); ok {
		return c
	}

	return h.fallback.MapRunnable(now, req)
}

// MapLabel returns the processing element listed for the label.
func (h *Static) MapLabel(label app.LabelID, now sim.VTimeInPs, name string) messaging.Coord {
	if c, ok := lookup(h.current.Labels, name); ok {
		return c
	}

	return h.fallback.MapLabel(label, now, name)
}

// SwitchMode activates the placement of the mode. Modes without a placement
// go back to the base placement.
func (h *Static) SwitchMode(now sim.VTimeInPs, file, mode string) error {
	h.current = h.file.Placement
	if p, ok := h.file.Modes[mode]; ok {
		h.current = p
	}

	return h.fallback.SwitchMode(now, file, mode)
}
