package pe

import (
	"fmt"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/networking/crossbar"
	"github.com/sarchlab/nocsim/sim"
)

// Builder can build processing elements.
type Builder struct {
	engine         sim.Engine
	timing         Timing
	graph          *app.Graph
	labels         *LabelTable
	xbar           *crossbar.Comp
	sampler        Sampler
	packetIDs      sim.IDGenerator
	correlationIDs *sim.Sequence
	sink           CompletionSink
}

// MakeBuilder creates a builder with the default timing.
func MakeBuilder() Builder {
	return Builder{
		timing: DefaultTiming(),
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithTiming sets the cost model.
func (b Builder) WithTiming(t Timing) Builder {
	b.timing = t
	return b
}

// WithGraph sets the application whose labels are accessed.
func (b Builder) WithGraph(g *app.Graph) Builder {
	b.graph = g
	return b
}

// WithLabelTable sets the shared label placement.
func (b Builder) WithLabelTable(t *LabelTable) Builder {
	b.labels = t
	return b
}

// WithCrossbar sets the crossbar that the processing element attaches to.
func (b Builder) WithCrossbar(xbar *crossbar.Comp) Builder {
	b.xbar = xbar
	return b
}

// WithSampler sets the sampler for deviation instructions. By default each
// processing element gets a sampler seeded with DefaultSeed.
func (b Builder) WithSampler(s Sampler) Builder {
	b.sampler = s
	return b
}

// WithPacketIDGenerator sets the generator of packet IDs.
func (b Builder) WithPacketIDGenerator(g sim.IDGenerator) Builder {
	b.packetIDs = g
	return b
}

// WithCorrelationIDs sets the sequence that numbers read and write
// transactions.
func (b Builder) WithCorrelationIDs(s *sim.Sequence) Builder {
	b.correlationIDs = s
	return b
}

// WithCompletionSink sets who is told about completed instances.
func (b Builder) WithCompletionSink(s CompletionSink) Builder {
	b.sink = s
	return b
}

// Build creates the processing element at the coordinate and starts its
// executor, receiver and responder.
func (b Builder) Build(name string, coord messaging.Coord) *Comp {
	b.mustBeComplete()

	sampler := b.sampler
	if sampler == nil {
		sampler = NewSeededSampler(DefaultSeed, uint64(b.xbar.Port(coord).Index()))
	}

	packetIDs := b.packetIDs
	if packetIDs == nil {
		packetIDs = sim.NewSequentialIDGenerator()
	}

	correlationIDs := b.correlationIDs
	if correlationIDs == nil {
		correlationIDs = new(sim.Sequence)
	}

	c := &Comp{
		name:           name,
		coord:          coord,
		engine:         b.engine,
		port:           b.xbar.Port(coord),
		graph:          b.graph,
		labels:         b.labels,
		timing:         b.timing,
		sampler:        sampler,
		packetIDs:      packetIDs,
		correlationIDs: correlationIDs,
		sink:           b.sink,
		newWork:        sim.NewCondition(name + ".NewWork"),
		blockedReads:   make(map[peerKey]*blockedRead),
		writeTxs:       make(map[peerKey]*writeTx),
	}

	sent := func(*messaging.Packet) { c.stats.PacketsSent++ }

	c.executor = sim.Spawn(b.engine, &executor{
		Comp:    c,
		stepper: stepper{port: c.port, sent: sent},
	})
	c.responses = &responder{
		Comp:    c,
		stepper: stepper{port: c.port, sent: sent},
		pending: sim.NewCondition(name + ".ResponsePending"),
	}
	c.receiver = sim.Spawn(b.engine, &receiver{Comp: c})
	c.responder = sim.Spawn(b.engine, c.responses)

	return c
}

func (b Builder) mustBeComplete() {
	switch {
	case b.engine == nil:
		panic("processing element requires an engine")
	case b.graph == nil:
		panic("processing element requires an application graph")
	case b.labels == nil:
		panic("processing element requires a label table")
	case b.xbar == nil:
		panic("processing element requires a crossbar")
	}

	b.timingMustBeValid()
}

func (b Builder) timingMustBeValid() {
	t := b.timing

	if t.Freq <= 0 {
		panic("processing element frequency must be positive")
	}

	if t.CPI <= 0 {
		panic("cycles per instruction must be positive")
	}

	if t.FragmentBytes <= 0 {
		panic(fmt.Sprintf("fragment size %d must be positive", t.FragmentBytes))
	}
}
