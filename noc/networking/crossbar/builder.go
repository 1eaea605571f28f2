package crossbar

import (
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/networking/arbitration"
	"github.com/sarchlab/nocsim/sim"
)

// Builder can help building crossbars
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	rows       int
	cols       int
	bufferSize int
	arbiter    arbitration.Arbiter
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:       1 * sim.GHz,
		bufferSize: 16,
	}
}

// WithEngine sets the engine that the crossbar to build uses.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency that the crossbar to build works at.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithGrid sets the shape of the grid that the crossbar connects.
func (b Builder) WithGrid(rows, cols int) Builder {
	b.rows = rows
	b.cols = cols

	return b
}

// WithBufferSize sets the capacity of every input and output buffer.
func (b Builder) WithBufferSize(n int) Builder {
	b.bufferSize = n
	return b
}

// WithArbiter sets the arbiter to be used by the crossbar to build.
func (b Builder) WithArbiter(arbiter arbitration.Arbiter) Builder {
	b.arbiter = arbiter
	return b
}

// Build creates a new crossbar and starts its arbitration activity.
func (b Builder) Build(name string) *Comp {
	b.engineMustBeGiven()
	b.freqMustNotBeZero()
	b.gridMustNotBeEmpty()
	b.bufferSizeMustBePositive()
	b.arbiterMustBeGiven()

	c := &Comp{
		name:    name,
		engine:  b.engine,
		freq:    b.freq,
		rows:    b.rows,
		cols:    b.cols,
		arbiter: b.arbiter,
	}

	for i := 0; i < b.rows*b.cols; i++ {
		coord := messaging.CoordOf(i, b.cols)
		c.ports = append(c.ports,
			newPort(name, coord, i, b.engine, b.bufferSize))
	}

	c.process = sim.Spawn(b.engine, arbitrationActivity{c})

	return c
}

func (b Builder) engineMustBeGiven() {
	if b.engine == nil {
		panic("crossbar requires an engine")
	}
}

func (b Builder) freqMustNotBeZero() {
	if b.freq <= 0 {
		panic("crossbar frequency must be positive")
	}
}

func (b Builder) gridMustNotBeEmpty() {
	if b.rows <= 0 || b.cols <= 0 {
		panic("crossbar grid must have at least one row and one column")
	}
}

func (b Builder) bufferSizeMustBePositive() {
	if b.bufferSize <= 0 {
		panic("crossbar buffer size must be positive")
	}
}

func (b Builder) arbiterMustBeGiven() {
	if b.arbiter == nil {
		panic("crossbar requires an arbiter")
	}
}
