// Package simulation wires a complete platform from a set of parameters,
// runs it and summarizes the outcome.
package simulation

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sarchlab/nocsim/analysis"
	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/datarecording"
	"github.com/sarchlab/nocsim/monitoring"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/networking/crossbar"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/system"
	"github.com/sarchlab/nocsim/tracing"
)

// A Simulation owns the engine and every component of one run.
type Simulation struct {
	id      string
	params  config.Params
	appFile string

	engine *sim.SerialEngine
	graph  *app.Graph
	labels *pe.LabelTable
	xbar   *crossbar.Comp
	pes    []*pe.Comp
	system *system.Comp

	dataRecorder datarecording.DataRecorder
	recordFile   string
	tracer       *tracing.DBTracer
	classes      *tracing.ClassTimeTracer
	busy         []*tracing.BusyTimeTracer
	traffic      *messaging.TrafficCounter
	monitor      *monitoring.Monitor
	progress     *monitoring.ProgressBar

	bufferAnalyzers []*analysis.BufferAnalyzer
	portAnalyzers   []*analysis.PortAnalyzer

	components    []sim.Named
	compNameIndex map[string]int
}

// ID returns the unique identifier of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() *sim.SerialEngine {
	return s.engine
}

// GetGraph returns the application being simulated.
func (s *Simulation) GetGraph() *app.Graph {
	return s.graph
}

// GetSystem returns the release manager.
func (s *Simulation) GetSystem() *system.Comp {
	return s.system
}

// GetCrossbar returns the interconnect.
func (s *Simulation) GetCrossbar() *crossbar.Comp {
	return s.xbar
}

// PEs returns the processing elements in row-major order.
func (s *Simulation) PEs() []*pe.Comp {
	return s.pes
}

// GetDataRecorder returns the data recorder, or nil if recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c sim.Named) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Named {
	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[i]
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Named {
	return s.components
}

// Run processes events until the release manager stops the engine or no
// event is left. The report is filled even if a handler failed.
func (s *Simulation) Run() (Report, error) {
	slog.Info("simulation started",
		"id", s.id,
		"app", s.appFile,
		"grid", fmt.Sprintf("%dx%d", s.params.Rows, s.params.Cols),
		"policy", s.params.Policy)

	start := time.Now()
	err := s.engine.Run()
	wall := time.Since(start)

	s.engine.Finished()
	s.finish()

	report := s.report(wall)

	if err != nil {
		slog.Error("simulation failed", "id", s.id, "error", err)
		return report, fmt.Errorf("simulation %s: %w", s.id, err)
	}

	slog.Info("simulation finished",
		"id", s.id,
		"time", report.ExecutionTime,
		"reason", report.StopReason,
		"wall", wall)

	return report, nil
}

func (s *Simulation) finish() {
	now := s.engine.CurrentTime()

	for _, b := range s.busy {
		b.TerminateAll(now)
	}

	for _, a := range s.bufferAnalyzers {
		a.Terminate(now)
	}

	for _, a := range s.portAnalyzers {
		a.Terminate(now)
	}

	if s.tracer != nil {
		for _, c := range s.pes {
			s.tracer.RecordPEStats(c.Name(), c.Coord(), c.Stats())
		}

		s.tracer.Terminate()
	}

	if s.progress != nil {
		s.monitor.CompleteProgressBar(s.progress)
	}
}

// Terminate releases the data recorder.
func (s *Simulation) Terminate() {
	if s.dataRecorder == nil {
		return
	}

	if err := s.dataRecorder.Close(); err != nil {
		slog.Error("closing data recorder", "error", err)
	}
}
