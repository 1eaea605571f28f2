package config

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/system"
)

// ParseModeFile reads a mode schedule. Each line is time;name;file with the
// time in seconds. Relative mode files are resolved against the directory
// of the schedule.
func ParseModeFile(path string) ([]system.Mode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	modes, err := ParseModes(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range modes {
		if modes[i].File != "" && !filepath.IsAbs(modes[i].File) {
			modes[i].File = filepath.Join(dir, modes[i].File)
		}
	}

	return modes, nil
}

// ParseModes reads a mode schedule. Blank lines and lines starting with #
// are skipped. Times must not decrease.
func ParseModes(r io.Reader) ([]system.Mode, error) {
	var modes []system.Mode

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		mode, err := parseModeLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if n := len(modes); n > 0 && mode.Time < modes[n-1].Time {
			return nil, fmt.Errorf("line %d: mode %s goes back in time",
				lineNo, mode.Name)
		}

		modes = append(modes, mode)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return modes, nil
}

func parseModeLine(line string) (system.Mode, error) {
	fields := strings.Split(line, ";")
	if len(fields) < 2 {
		return system.Mode{}, fmt.Errorf("want time;name;file, got %q", line)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil || !(seconds >= 0) || math.IsInf(seconds, 0) {
		return system.Mode{}, fmt.Errorf("invalid time %q", fields[0])
	}

	mode := system.Mode{
		Time: sim.VTimeInPs(math.Round(seconds * float64(sim.Sec))),
		Name: strings.TrimSpace(fields[1]),
	}

	if len(fields) > 2 {
		mode.File = strings.TrimSpace(fields[2])
	}

	if mode.Name != system.ModeEnd && mode.File == "" {
		return system.Mode{}, fmt.Errorf("mode %s has no file", mode.Name)
	}

	return mode, nil
}
