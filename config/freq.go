package config

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/sarchlab/nocsim/sim"
)

var freqPattern = regexp.MustCompile(`^\s*([0-9]*\.?[0-9]+)\s*([KkMG]?Hz)?\s*$`)

var freqUnits = map[string]sim.Freq{
	"":    sim.Hz,
	"Hz":  sim.Hz,
	"KHz": sim.KHz,
	"kHz": sim.KHz,
	"MHz": sim.MHz,
	"GHz": sim.GHz,
}

// ParseFreq converts a frequency such as "400MHz" or "1GHz". A number
// without unit is in hertz.
func ParseFreq(s string) (sim.Freq, error) {
	m := freqPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q, want a number followed by Hz, KHz, MHz or GHz",
			ErrInvalidFrequency, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidFrequency, s, err)
	}

	f := sim.Freq(value) * freqUnits[m[2]]
	if f <= 0 {
		return 0, fmt.Errorf("%w: %q is not positive", ErrInvalidFrequency, s)
	}

	return f, nil
}
