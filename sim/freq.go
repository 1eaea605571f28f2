package sim

import (
	"log"
	"math"
)

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two consecutive ticks
func (f Freq) Period() VTimeInPs {
	if f <= 0 {
		log.Panic("frequency must be positive")
	}

	p := VTimeInPs(math.Round(float64(Sec) / float64(f)))
	if p == 0 {
		log.Panic("frequency too high for picosecond resolution")
	}

	return p
}

// Cycle converts a time to the number of cycles passed since time 0.
func (f Freq) Cycle(time VTimeInPs) uint64 {
	return uint64(time / f.Period())
}

// ThisTick returns the current tick time
//
//	           Input
//	           (          ]
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) ThisTick(now VTimeInPs) VTimeInPs {
	p := f.Period()
	return (now + p - 1) / p * p
}

// NextTick returns the next tick time.
//
//	           Input
//	           [          )
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) NextTick(now VTimeInPs) VTimeInPs {
	p := f.Period()
	return (now/p + 1) * p
}

// NCyclesLater returns the time after N cycles
//
// This function will always return a time of an integer number of cycles
func (f Freq) NCyclesLater(n int, now VTimeInPs) VTimeInPs {
	return f.ThisTick(now) + VTimeInPs(n)*f.Period()
}

// CyclesToTime returns how long it takes to run the given, possibly
// fractional, number of cycles.
func (f Freq) CyclesToTime(cycles float64) VTimeInPs {
	if f <= 0 {
		log.Panic("frequency must be positive")
	}

	if cycles <= 0 {
		return 0
	}

	return VTimeInPs(math.Round(cycles * float64(Sec) / float64(f)))
}
