package system

import (
	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/mapping"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
)

// Builder can build release managers.
type Builder struct {
	engine          sim.Engine
	graph           *app.Graph
	loader          app.Loader
	heuristic       mapping.Heuristic
	grid            mapping.Grid
	cores           []Core
	labels          *pe.LabelTable
	ids             sim.IDGenerator
	ignorePeriodics bool
	iterations      int
	simulationEnd   sim.VTimeInPs
	modes           []Mode
	mapCost         sim.VTimeInPs
}

// MakeBuilder creates a builder with one iteration and a one nanosecond
// mapping step.
func MakeBuilder() Builder {
	return Builder{
		loader:     app.YAMLLoader{},
		iterations: 1,
		mapCost:    1 * sim.Ns,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithGraph sets the application.
func (b Builder) WithGraph(g *app.Graph) Builder {
	b.graph = g
	return b
}

// WithLoader sets how the files of the mode schedule are read.
func (b Builder) WithLoader(l app.Loader) Builder {
	b.loader = l
	return b
}

// WithHeuristic sets the placement heuristic.
func (b Builder) WithHeuristic(h mapping.Heuristic) Builder {
	b.heuristic = h
	return b
}

// WithCores sets the processing elements in row-major order.
func (b Builder) WithCores(grid mapping.Grid, cores []Core) Builder {
	b.grid = grid
	b.cores = cores
	return b
}

// WithLabelTable sets the table where label homes are written.
func (b Builder) WithLabelTable(t *pe.LabelTable) Builder {
	b.labels = t
	return b
}

// WithInstanceIDGenerator sets the generator of instance IDs.
func (b Builder) WithInstanceIDGenerator(g sim.IDGenerator) Builder {
	b.ids = g
	return b
}

// WithIgnorePeriodics runs periodic and sporadic runnables like any other
// independent runnable, once per iteration.
func (b Builder) WithIgnorePeriodics(ignore bool) Builder {
	b.ignorePeriodics = ignore
	return b
}

// WithIterations sets how many iterations to run when iterations bound the
// simulation.
func (b Builder) WithIterations(n int) Builder {
	b.iterations = n
	return b
}

// WithSimulationEnd bounds the simulated time. Zero means no bound.
func (b Builder) WithSimulationEnd(t sim.VTimeInPs) Builder {
	b.simulationEnd = t
	return b
}

// WithModes sets the mode schedule.
func (b Builder) WithModes(modes []Mode) Builder {
	b.modes = modes
	return b
}

// WithMapCost sets the duration of one mapping step.
func (b Builder) WithMapCost(d sim.VTimeInPs) Builder {
	b.mapCost = d
	return b
}

// Build creates the release manager and starts its activities.
func (b Builder) Build(name string) *Comp {
	b.mustBeValid()

	ids := b.ids
	if ids == nil {
		ids = sim.NewSequentialIDGenerator()
	}

	c := &Comp{
		name:            name,
		engine:          b.engine,
		graph:           b.graph,
		loader:          b.loader,
		heuristic:       b.heuristic,
		grid:            b.grid,
		cores:           b.cores,
		labels:          b.labels,
		ids:             ids,
		ignorePeriodics: b.ignorePeriodics,
		iterations:      b.iterations,
		simulationEnd:   b.simulationEnd,
		modes:           b.modes,
		mapCost:         b.mapCost,
		hyperperiod:     b.graph.Hyperperiod(),
		released:        sim.NewCondition(name + ".Released"),
		iteration:       sim.NewCondition(name + ".Iteration"),
		completed:       sim.NewCondition(name + ".Completed"),
		stopCond:        sim.NewCondition(name + ".Stop"),
	}

	sim.Spawn(b.engine, &iterationReleaser{Comp: c})
	sim.Spawn(b.engine, mapper{Comp: c})

	if !b.ignorePeriodics {
		sim.Spawn(b.engine, &periodicReleaser{Comp: c})
	}

	if len(b.modes) > 0 {
		sim.Spawn(b.engine, &modeSwitcher{Comp: c})
	}

	if b.simulationEnd > 0 {
		sim.Spawn(b.engine, durationLimiter{Comp: c})
	}

	sim.Spawn(b.engine, stopper{Comp: c})

	return c
}

func (b Builder) mustBeValid() {
	switch {
	case b.engine == nil:
		panic("release manager requires an engine")
	case b.graph == nil:
		panic("release manager requires an application graph")
	case len(b.graph.Calls) == 0:
		panic("application " + b.graph.Name + " has no runnable")
	case b.heuristic == nil:
		panic("release manager requires a mapping heuristic")
	case b.labels == nil:
		panic("release manager requires a label table")
	case b.grid.Size() <= 0 || len(b.cores) != b.grid.Size():
		panic("release manager requires one core per grid position")
	case b.iterations <= 0:
		panic("iterations must be positive")
	case len(b.modes) > 0 && b.loader == nil:
		panic("mode switching requires a loader")
	}

	for i := 1; i < len(b.modes); i++ {
		if b.modes[i].Time < b.modes[i-1].Time {
			panic("mode schedule must be sorted by time")
		}
	}
}
