package cmd

import (
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/nocsim/config"
)

// registerParamFlags binds one flag per parameter. The flag name is the
// YAML key with dashes.
func registerParamFlags(cmd *cobra.Command, p *config.Params) {
	fs := cmd.Flags()

	fs.StringVarP(&p.App, "app", "a", p.App, "application file")
	fs.StringVarP(&p.ModeFile, "mode-file", "m", p.ModeFile,
		"mode schedule, one time;name;file entry per line")

	fs.IntVar(&p.Rows, "rows", p.Rows, "rows of processing elements")
	fs.IntVar(&p.Cols, "cols", p.Cols, "columns of processing elements")
	fs.StringVarP(&p.Frequency, "frequency", "f", p.Frequency,
		"core and crossbar frequency, like 500MHz")
	fs.Float64Var(&p.CPI, "cpi", p.CPI, "cycles per instruction")

	fs.Int64Var(&p.LocalReadCost, "local-read-cost", p.LocalReadCost,
		"local read cost per byte in ns")
	fs.Int64Var(&p.LocalWriteCost, "local-write-cost", p.LocalWriteCost,
		"local write cost per byte in ns")
	fs.Int64Var(&p.RemoteReadCost, "remote-read-cost", p.RemoteReadCost,
		"remote read cost per fragment in ns")
	fs.Int64Var(&p.RemoteWriteCost, "remote-write-cost", p.RemoteWriteCost,
		"remote write cost per fragment in ns")
	fs.Int64Var(&p.AdmissionCost, "admission-cost", p.AdmissionCost,
		"ready queue admission cost in ns")
	fs.Int64Var(&p.MapCost, "map-cost", p.MapCost,
		"duration of one mapping step in ns")
	fs.IntVar(&p.FragmentBytes, "fragment-bytes", p.FragmentBytes,
		"payload of one packet in bytes")

	fs.IntVar(&p.BufferSize, "buffer-size", p.BufferSize,
		"capacity of each crossbar FIFO")
	fs.StringVarP(&p.Policy, "policy", "p", p.Policy,
		"crossbar policy: Full, RoundRobin or Priority")
	fs.StringVar(&p.Scheduling, "scheduling", p.Scheduling,
		"ready queue order: fcfs or prio")

	fs.StringVar(&p.Mapping, "mapping", p.Mapping,
		"placement heuristic: zigzag, random or static")
	fs.StringVar(&p.MappingFile, "mapping-file", p.MappingFile,
		"placement file of the static heuristic")
	fs.Uint64Var(&p.MappingSeed, "mapping-seed", p.MappingSeed,
		"seed of the random heuristic")

	fs.IntVarP(&p.Iterations, "iterations", "n", p.Iterations,
		"iterations to run when periodic releases are ignored")
	fs.Int64Var(&p.SimulationEnd, "simulation-end", p.SimulationEnd,
		"stop at this time in ns, 0 for no limit")
	fs.BoolVar(&p.IgnorePeriodics, "ignore-periodics", p.IgnorePeriodics,
		"release every runnable once per iteration")

	fs.BoolVar(&p.Random, "random", p.Random,
		"draw deviation instructions from a time seed")
	fs.Uint64Var(&p.Seed, "seed", p.Seed, "seed of deviation instructions")

	fs.StringVarP(&p.OutputFolder, "output-folder", "o", p.OutputFolder,
		"folder of the SQLite records")
	fs.StringVar(&p.RecorderDSN, "recorder-dsn", p.RecorderDSN,
		"record into ClickHouse instead, like clickhouse://host:9000/db")
	fs.BoolVar(&p.NoRecord, "no-record", p.NoRecord, "do not record")
	fs.BoolVar(&p.DetailTrace, "detail-trace", p.DetailTrace,
		"also record every instruction and packet")
	fs.Int64Var(&p.BufferPeriod, "buffer-period", p.BufferPeriod,
		"ns per crossbar occupancy sample, 0 for one per run")

	fs.BoolVar(&p.Monitor, "monitor", p.Monitor, "serve the web monitor")
	fs.IntVar(&p.MonitorPort, "monitor-port", p.MonitorPort,
		"port of the web monitor, 0 for any")
	fs.BoolVar(&p.MonitorBrowser, "monitor-browser", p.MonitorBrowser,
		"open the web monitor in a browser")

	fs.StringVar(&p.LogLevel, "log-level", p.LogLevel,
		"debug, info, trace, warn or error")
	fs.StringVar(&p.LogFormat, "log-format", p.LogFormat, "text or json")
	fs.StringVar(&p.LogFile, "log-file", p.LogFile,
		"write logs to this file instead of stderr")
}

// flagName returns the flag bound to a parameter field.
func flagName(f reflect.StructField) string {
	tag := strings.Split(f.Tag.Get("yaml"), ",")[0]

	return strings.ReplaceAll(tag, "_", "-")
}

type changedTeller interface {
	Changed(name string) bool
}

// overrideChanged copies into dst the parameters whose flag was set on the
// command line.
func overrideChanged(fs changedTeller, dst *config.Params, src config.Params) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src)
	t := sv.Type()

	for i := 0; i < t.NumField(); i++ {
		if fs.Changed(flagName(t.Field(i))) {
			dv.Field(i).Set(sv.Field(i))
		}
	}
}
