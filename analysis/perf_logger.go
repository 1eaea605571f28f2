// Package analysis summarizes how busy the crossbar is over time.
package analysis

import (
	"github.com/sarchlab/nocsim/datarecording"
	"github.com/sarchlab/nocsim/sim"
)

// PerfTable is the table written by a RecorderLogger.
const PerfTable = "perf"

// PerfAnalyzerEntry is a single entry in the performance database. Times are
// in nanoseconds.
type PerfAnalyzerEntry struct {
	Start       float64
	End         float64
	Where       string
	WhereRemote string
	What        string
	EntryType   string
	Value       float64
	Unit        string
}

// PerfLogger is the interface that provide the service that can record
// performance data entries.
type PerfLogger interface {
	AddDataEntry(entry PerfAnalyzerEntry)
}

// RecorderLogger is a PerfLogger that writes into a DataRecorder.
type RecorderLogger struct {
	recorder datarecording.DataRecorder
}

// NewRecorderLogger creates the perf table in the recorder.
func NewRecorderLogger(recorder datarecording.DataRecorder) *RecorderLogger {
	recorder.CreateTable(PerfTable, PerfAnalyzerEntry{})

	return &RecorderLogger{recorder: recorder}
}

// AddDataEntry inserts the entry.
func (l *RecorderLogger) AddDataEntry(entry PerfAnalyzerEntry) {
	l.recorder.InsertData(PerfTable, entry)
}

// window splits time in fixed periods. A zero period is one window that
// covers the whole run.
type window struct {
	period sim.VTimeInPs
}

func (w window) enabled() bool {
	return w.period > 0
}

func (w window) start(t sim.VTimeInPs) sim.VTimeInPs {
	return t / w.period * w.period
}

func (w window) end(t sim.VTimeInPs) sim.VTimeInPs {
	return w.start(t) + w.period
}
