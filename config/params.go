// Package config collects the parameters of a simulation from defaults, a
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/nocsim/mapping"
	"github.com/sarchlab/nocsim/noc/networking/arbitration"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
)

// Errors reported by Validate.
var (
	ErrInvalidGrid        = errors.New("invalid grid")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrFrequencyTooHigh   = errors.New("frequency too high")
	ErrInvalidCost        = errors.New("invalid cost")
	ErrInvalidFragment    = errors.New("invalid fragment size")
	ErrInvalidBufferSize  = errors.New("invalid crossbar buffer size")
	ErrUnknownPolicy      = errors.New("unknown crossbar policy")
	ErrUnknownScheduling  = errors.New("unknown scheduling policy")
	ErrUnknownHeuristic   = errors.New("unknown mapping heuristic")
	ErrMissingMappingFile = errors.New("static mapping needs a mapping file")
	ErrInvalidIterations  = errors.New("invalid number of iterations")
	ErrNoApplication      = errors.New("no application or mode file")
	ErrAppAndModes        = errors.New("application and mode file are exclusive")
)

// maxFreq is the highest frequency whose period is still a whole number of
// picoseconds.
const maxFreq = 1000 * sim.GHz

// Params are the parameters of a simulation. Costs and times are in
// nanoseconds.
type Params struct {
	App      string `yaml:"app"`
	ModeFile string `yaml:"mode_file"`

	Rows      int     `yaml:"rows"`
	Cols      int     `yaml:"cols"`
	Frequency string  `yaml:"frequency"`
	CPI       float64 `yaml:"cpi"`

	LocalReadCost   int64 `yaml:"local_read_cost"`
	LocalWriteCost  int64 `yaml:"local_write_cost"`
	RemoteReadCost  int64 `yaml:"remote_read_cost"`
	RemoteWriteCost int64 `yaml:"remote_write_cost"`
	AdmissionCost   int64 `yaml:"admission_cost"`
	MapCost         int64 `yaml:"map_cost"`
	FragmentBytes   int   `yaml:"fragment_bytes"`

	BufferSize int    `yaml:"buffer_size"`
	Policy     string `yaml:"policy"`
	Scheduling string `yaml:"scheduling"`

	Mapping     string `yaml:"mapping"`
	MappingFile string `yaml:"mapping_file"`
	MappingSeed uint64 `yaml:"mapping_seed"`

	Iterations      int   `yaml:"iterations"`
	SimulationEnd   int64 `yaml:"simulation_end"`
	IgnorePeriodics bool  `yaml:"ignore_periodics"`

	Random bool   `yaml:"random"`
	Seed   uint64 `yaml:"seed"`

	OutputFolder string `yaml:"output_folder"`
	RecorderDSN  string `yaml:"recorder_dsn"`
	NoRecord     bool   `yaml:"no_record"`
	DetailTrace  bool   `yaml:"detail_trace"`
	BufferPeriod int64  `yaml:"buffer_period"`

	Monitor        bool `yaml:"monitor"`
	MonitorPort    int  `yaml:"monitor_port"`
	MonitorBrowser bool `yaml:"monitor_browser"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`
}

// Defaults returns the parameters used when nothing is configured.
func Defaults() Params {
	return Params{
		Rows:            4,
		Cols:            4,
		Frequency:       "1GHz",
		CPI:             1,
		LocalReadCost:   2,
		LocalWriteCost:  2,
		RemoteReadCost:  2,
		RemoteWriteCost: 2,
		AdmissionCost:   1,
		MapCost:         1,
		FragmentBytes:   32,
		BufferSize:      16,
		Policy:          string(arbitration.PolicyFull),
		Scheduling:      "fcfs",
		Mapping:         string(mapping.KindZigZag),
		Iterations:      1,
		Seed:            pe.DefaultSeed,
		OutputFolder:    "out",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load returns the defaults overridden by the YAML file, if any, and then
// by the environment. A .env file in the working directory is read first.
func Load(file string) (Params, error) {
	p := Defaults()

	if file != "" {
		if err := p.LoadFile(file); err != nil {
			return p, err
		}
	}

	if err := LoadDotEnv(""); err != nil {
		return p, err
	}

	if err := p.ApplyEnv(os.LookupEnv); err != nil {
		return p, err
	}

	return p, nil
}

// LoadFile overrides the parameters with the fields set in a YAML file.
func (p *Params) LoadFile(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err := dec.Decode(p); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	return nil
}

// Freq returns the parsed core frequency.
func (p Params) Freq() (sim.Freq, error) {
	return ParseFreq(p.Frequency)
}

// Timing returns the cost model of the processing elements. The
// parameters must be valid.
func (p Params) Timing() pe.Timing {
	freq, _ := p.Freq()
	sched, _ := pe.ParseScheduling(p.Scheduling)

	return pe.Timing{
		Freq:            freq,
		CPI:             p.CPI,
		LocalReadCost:   sim.VTimeInPs(p.LocalReadCost) * sim.Ns,
		LocalWriteCost:  sim.VTimeInPs(p.LocalWriteCost) * sim.Ns,
		RemoteReadCost:  sim.VTimeInPs(p.RemoteReadCost) * sim.Ns,
		RemoteWriteCost: sim.VTimeInPs(p.RemoteWriteCost) * sim.Ns,
		FragmentBytes:   p.FragmentBytes,
		AdmissionCost:   sim.VTimeInPs(p.AdmissionCost) * sim.Ns,
		Scheduling:      sched,
	}
}

// Grid returns the platform grid.
func (p Params) Grid() mapping.Grid {
	return mapping.Grid{Rows: p.Rows, Cols: p.Cols}
}

// Validate checks every parameter and reports all the problems found.
func (p Params) Validate() error {
	var errs []error

	add := func(sentinel error, format string, args ...any) {
		errs = append(errs,
			fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)))
	}

	if p.Rows <= 0 || p.Cols <= 0 {
		add(ErrInvalidGrid, "%dx%d", p.Rows, p.Cols)
	}

	freq, err := p.Freq()
	switch {
	case err != nil:
		errs = append(errs, err)
	case freq > maxFreq:
		add(ErrFrequencyTooHigh, "%s is above 1THz", p.Frequency)
	}

	if p.CPI <= 0 {
		add(ErrInvalidCost, "cpi %g", p.CPI)
	}

	costs := []struct {
		name  string
		value int64
	}{
		{"local read", p.LocalReadCost},
		{"local write", p.LocalWriteCost},
		{"remote read", p.RemoteReadCost},
		{"remote write", p.RemoteWriteCost},
		{"admission", p.AdmissionCost},
	}
	for _, c := range costs {
		if c.value < 0 {
			add(ErrInvalidCost, "%s cost %d", c.name, c.value)
		}
	}

	if p.MapCost <= 0 {
		add(ErrInvalidCost, "map cost %d", p.MapCost)
	}

	if p.FragmentBytes <= 0 {
		add(ErrInvalidFragment, "%d bytes", p.FragmentBytes)
	}

	if p.BufferSize <= 0 {
		add(ErrInvalidBufferSize, "%d", p.BufferSize)
	}

	if _, err := arbitration.ParsePolicy(p.Policy); err != nil {
		add(ErrUnknownPolicy, "%q", p.Policy)
	}

	if _, err := pe.ParseScheduling(p.Scheduling); err != nil {
		add(ErrUnknownScheduling, "%q", p.Scheduling)
	}

	errs = append(errs, p.validateMapping()...)

	if p.Iterations <= 0 {
		add(ErrInvalidIterations, "%d", p.Iterations)
	}

	if p.SimulationEnd < 0 {
		add(ErrInvalidCost, "simulation end %d", p.SimulationEnd)
	}

	if p.BufferPeriod < 0 {
		add(ErrInvalidCost, "buffer period %d", p.BufferPeriod)
	}

	switch {
	case p.App == "" && p.ModeFile == "":
		errs = append(errs, ErrNoApplication)
	case p.App != "" && p.ModeFile != "":
		errs = append(errs, ErrAppAndModes)
	}

	return errors.Join(errs...)
}

func (p Params) validateMapping() []error {
	kind, err := mapping.ParseKind(p.Mapping)
	if err != nil {
		return []error{fmt.Errorf("%w: %q", ErrUnknownHeuristic, p.Mapping)}
	}

	if kind == mapping.KindStatic && p.MappingFile == "" {
		return []error{ErrMissingMappingFile}
	}

	return nil
}
