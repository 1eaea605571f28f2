package simulation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"

	"github.com/sarchlab/nocsim/analysis"
	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/datarecording"
	"github.com/sarchlab/nocsim/mapping"
	"github.com/sarchlab/nocsim/monitoring"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/networking/arbitration"
	"github.com/sarchlab/nocsim/noc/networking/crossbar"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/system"
	"github.com/sarchlab/nocsim/tracing"
)

// ErrEmptySchedule is returned when a mode file has no mode to start from.
var ErrEmptySchedule = errors.New("mode schedule has no starting mode")

const clickHouseScheme = "clickhouse://"

// Builder can be used to build a simulation.
type Builder struct {
	params    config.Params
	loader    app.Loader
	heuristic mapping.Heuristic
	recorder  datarecording.DataRecorder
}

// MakeBuilder creates a new builder with the default parameters.
func MakeBuilder() Builder {
	return Builder{
		params: config.Defaults(),
		loader: app.YAMLLoader{},
	}
}

// WithParams sets the parameters of the simulation.
func (b Builder) WithParams(p config.Params) Builder {
	b.params = p
	return b
}

// WithLoader sets how application and mode files are read.
func (b Builder) WithLoader(l app.Loader) Builder {
	b.loader = l
	return b
}

// WithHeuristic replaces the placement heuristic selected by the
// parameters.
func (b Builder) WithHeuristic(h mapping.Heuristic) Builder {
	b.heuristic = h
	return b
}

// WithDataRecorder sets the backend that receives the records, overriding
// the output folder and the recorder DSN.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// WithoutRecording disables the database records.
func (b Builder) WithoutRecording() Builder {
	b.params.NoRecord = true
	return b
}

// Build validates the parameters, loads the application and wires the
// platform.
func (b Builder) Build() (*Simulation, error) {
	if err := b.params.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		id:            xid.New().String(),
		params:        b.params,
		compNameIndex: make(map[string]int),
	}

	modes, appFile, err := b.schedule()
	if err != nil {
		return nil, err
	}

	s.appFile = appFile
	s.graph, err = b.loader.Load(appFile)
	if err != nil {
		return nil, err
	}

	if err := s.graph.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", appFile, err)
	}

	s.engine = sim.NewSerialEngine()
	if strings.EqualFold(b.params.LogLevel, "trace") {
		s.engine.AcceptHook(sim.NewEventLogger(slog.Default()))
	}

	if err := b.buildPlatform(s); err != nil {
		return nil, err
	}

	heuristic, err := b.buildHeuristic()
	if err != nil {
		return nil, err
	}

	b.buildSystem(s, heuristic, modes)
	b.attachTracers(s)

	if err := b.attachRecorder(s); err != nil {
		return nil, err
	}

	b.attachAnalyzers(s)

	if b.params.Monitor {
		b.attachMonitor(s)
	}

	return s, nil
}

func (b Builder) schedule() ([]system.Mode, string, error) {
	if b.params.ModeFile == "" {
		return nil, b.params.App, nil
	}

	modes, err := config.ParseModeFile(b.params.ModeFile)
	if err != nil {
		return nil, "", err
	}

	if len(modes) == 0 || modes[0].Name == system.ModeEnd {
		return nil, "", fmt.Errorf("%s: %w", b.params.ModeFile, ErrEmptySchedule)
	}

	return modes, modes[0].File, nil
}

func (b Builder) buildPlatform(s *Simulation) error {
	p := b.params

	freq, err := p.Freq()
	if err != nil {
		return err
	}

	policy, err := arbitration.ParsePolicy(p.Policy)
	if err != nil {
		return err
	}

	arbiter, err := arbitration.NewArbiter(policy)
	if err != nil {
		return err
	}

	s.xbar = crossbar.MakeBuilder().
		WithEngine(s.engine).
		WithFreq(freq).
		WithGrid(p.Rows, p.Cols).
		WithBufferSize(p.BufferSize).
		WithArbiter(arbiter).
		Build("Crossbar")
	s.RegisterComponent(s.xbar)

	s.labels = pe.NewLabelTable()

	peBuilder := pe.MakeBuilder().
		WithEngine(s.engine).
		WithTiming(p.Timing()).
		WithGraph(s.graph).
		WithLabelTable(s.labels).
		WithCrossbar(s.xbar).
		WithPacketIDGenerator(sim.NewSequentialIDGenerator()).
		WithCorrelationIDs(new(sim.Sequence))

	for i := 0; i < p.Rows*p.Cols; i++ {
		coord := messaging.CoordOf(i, p.Cols)

		c := peBuilder.
			WithSampler(b.sampler(uint64(i))).
			Build("PE"+coord.String(), coord)

		s.pes = append(s.pes, c)
		s.RegisterComponent(c)
	}

	return nil
}

func (b Builder) sampler(stream uint64) pe.Sampler {
	if b.params.Random {
		return pe.NewTimeSeededSampler(stream)
	}

	return pe.NewSeededSampler(b.params.Seed, stream)
}

func (b Builder) buildHeuristic() (mapping.Heuristic, error) {
	if b.heuristic != nil {
		return b.heuristic, nil
	}

	grid := b.params.Grid()

	kind, err := mapping.ParseKind(b.params.Mapping)
	if err != nil {
		return nil, err
	}

	switch kind {
	case mapping.KindRandomFixed:
		return mapping.NewRandomFixed(grid, b.params.MappingSeed), nil
	case mapping.KindStatic:
		return mapping.LoadStatic(grid, b.params.MappingFile)
	default:
		return mapping.NewZigZag(grid), nil
	}
}

func (b Builder) buildSystem(
	s *Simulation,
	heuristic mapping.Heuristic,
	modes []system.Mode,
) {
	p := b.params

	cores := make([]system.Core, len(s.pes))
	for i, c := range s.pes {
		cores[i] = c
	}

	s.system = system.MakeBuilder().
		WithEngine(s.engine).
		WithGraph(s.graph).
		WithLoader(b.loader).
		WithHeuristic(heuristic).
		WithCores(p.Grid(), cores).
		WithLabelTable(s.labels).
		WithInstanceIDGenerator(sim.NewSequentialIDGenerator()).
		WithIgnorePeriodics(p.IgnorePeriodics).
		WithIterations(p.Iterations).
		WithSimulationEnd(sim.VTimeInPs(p.SimulationEnd) * sim.Ns).
		WithModes(modes).
		WithMapCost(sim.VTimeInPs(p.MapCost) * sim.Ns).
		Build("System")
	s.RegisterComponent(s.system)

	for _, c := range s.pes {
		c.SetCompletionSink(s.system)
	}
}

func (b Builder) attachTracers(s *Simulation) {
	s.classes = tracing.NewClassTimeTracer()
	s.traffic = messaging.NewTrafficCounter()
	s.xbar.AcceptHook(s.traffic)

	for _, c := range s.pes {
		busy := tracing.NewBusyTimeTracer(s.engine)
		c.AcceptHook(busy)
		c.AcceptHook(s.classes)
		s.busy = append(s.busy, busy)
	}
}

func (b Builder) attachRecorder(s *Simulation) error {
	if b.params.NoRecord && b.recorder == nil {
		return nil
	}

	recorder, recordFile, err := b.openRecorder(s.id)
	if err != nil {
		return err
	}

	s.dataRecorder = recorder
	s.recordFile = recordFile

	s.tracer = tracing.NewDBTracer(s.engine, recorder)
	if b.params.DetailTrace {
		s.tracer.EnableDetailedTracing()
	}

	s.system.AcceptHook(s.tracer)
	s.xbar.AcceptHook(s.tracer)

	for _, c := range s.pes {
		c.AcceptHook(s.tracer)
	}

	return nil
}

func (b Builder) attachAnalyzers(s *Simulation) {
	var logger analysis.PerfLogger
	if s.dataRecorder != nil {
		logger = analysis.NewRecorderLogger(s.dataRecorder)
	}

	period := sim.VTimeInPs(b.params.BufferPeriod) * sim.Ns

	bufferAnalyzerBuilder := analysis.MakeBufferAnalyzerBuilder().
		WithPerfLogger(logger).
		WithTimeTeller(s.engine).
		WithPeriod(period)
	portAnalyzerBuilder := analysis.MakePortAnalyzerBuilder().
		WithPerfLogger(logger).
		WithTimeTeller(s.engine).
		WithPeriod(period)

	for _, port := range s.xbar.Ports() {
		for _, buf := range port.Buffers() {
			s.bufferAnalyzers = append(s.bufferAnalyzers,
				bufferAnalyzerBuilder.WithBuffer(buf).Build())
		}

		portAnalyzer := portAnalyzerBuilder.WithPort(port).Build()
		s.xbar.AcceptHook(portAnalyzer)
		s.portAnalyzers = append(s.portAnalyzers, portAnalyzer)
	}
}

func (b Builder) openRecorder(
	id string,
) (datarecording.DataRecorder, string, error) {
	if b.recorder != nil {
		return b.recorder, fileNameOf(b.recorder), nil
	}

	dsn := b.params.RecorderDSN
	if strings.HasPrefix(dsn, clickHouseScheme) {
		r, err := datarecording.NewClickHouse(dsn)
		if err != nil {
			return nil, "", err
		}

		return r, "clickhouse", nil
	}

	if err := os.MkdirAll(b.params.OutputFolder, 0o755); err != nil {
		return nil, "", err
	}

	r := datarecording.New(filepath.Join(b.params.OutputFolder, "nocsim_"+id))

	return r, fileNameOf(r), nil
}

func fileNameOf(r datarecording.DataRecorder) string {
	if f, ok := r.(interface{ FileName() string }); ok {
		return f.FileName()
	}

	return ""
}

func (b Builder) attachMonitor(s *Simulation) {
	s.monitor = monitoring.NewMonitor().
		WithPortNumber(b.params.MonitorPort).
		WithBrowser(b.params.MonitorBrowser)
	s.monitor.RegisterEngine(s.engine)

	for _, c := range s.components {
		s.monitor.RegisterComponent(c)
	}

	var total uint64
	if b.params.IgnorePeriodics {
		total = uint64(b.params.Iterations * s.system.RunnablesPerIteration())
	}

	s.progress = s.monitor.CreateProgressBar("Runnables", total)

	hook := progressHook{bar: s.progress}
	for _, c := range s.pes {
		c.AcceptHook(hook)
	}

	s.monitor.StartServer()
}

type progressHook struct {
	bar *monitoring.ProgressBar
}

func (h progressHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case pe.HookPosAdmitted:
		h.bar.IncrementInProgress(1)
	case pe.HookPosCompleted:
		h.bar.MoveInProgressToFinished(1)
	}
}
