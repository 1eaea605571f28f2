package simulation

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/nocsim/analysis"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/system"
	"github.com/sarchlab/nocsim/tracing"
)

// PEReport summarizes one processing element.
type PEReport struct {
	Name     string
	Coord    messaging.Coord
	Stats    pe.Stats
	BusyTime sim.VTimeInPs
}

// Utilization returns the busy share of the simulated time.
func (r PEReport) Utilization(total sim.VTimeInPs) float64 {
	if total == 0 {
		return 0
	}

	return float64(r.BusyTime) / float64(total)
}

// PortReport summarizes the traffic and the buffer occupancy of one
// crossbar port.
type PortReport struct {
	Name     string
	In, Out  analysis.BufferStats
	InMsg    int64
	InBytes  int64
	OutMsg   int64
	OutBytes int64
}

func (r PortReport) idle() bool {
	return r.InMsg == 0 && r.OutMsg == 0
}

// A Report is the outcome of a run.
type Report struct {
	ID          string
	Application string
	Rows, Cols  int
	Frequency   string
	Policy      string
	Scheduling  string
	Mapping     string

	Released   uint64
	Mapped     uint64
	Completed  uint64
	Iterations uint64
	Rotations  uint64

	ExecutionTime  sim.VTimeInPs
	StopReason     system.StopReason
	DeadlineMisses uint64

	Packets       uint64
	PacketBytes   uint64
	PacketsByKind map[messaging.PacketKind]uint64
	Arbitrations  uint64

	Events   uint64
	WallTime time.Duration

	PEs     []PEReport
	Ports   []PortReport
	Classes []tracing.ClassTime

	RecordFile string
}

func (s *Simulation) report(wall time.Duration) Report {
	p := s.params

	r := Report{
		ID:            s.id,
		Application:   s.graph.Name,
		Rows:          p.Rows,
		Cols:          p.Cols,
		Frequency:     p.Frequency,
		Policy:        p.Policy,
		Scheduling:    p.Scheduling,
		Mapping:       p.Mapping,
		Released:      s.system.NumReleased(),
		Mapped:        s.system.NumMapped(),
		Completed:     s.system.NumCompleted(),
		Iterations:    s.system.Iterations(),
		Rotations:     s.system.NumRotations(),
		ExecutionTime: s.executionTime(),
		StopReason:    s.system.StopReason(),
		Packets:       s.traffic.TotalPackets,
		PacketBytes:   s.traffic.TotalData,
		PacketsByKind: make(map[messaging.PacketKind]uint64),
		Arbitrations:  s.xbar.NumRounds(),
		Events:        s.engine.HandledEvents(),
		WallTime:      wall,
		Classes:       s.classes.Classes(),
		RecordFile:    s.recordFile,
	}

	for k, n := range s.traffic.ByKind {
		r.PacketsByKind[k] = n
	}

	for i, c := range s.pes {
		stats := c.Stats()
		r.DeadlineMisses += stats.DeadlineMisses
		r.PEs = append(r.PEs, PEReport{
			Name:     c.Name(),
			Coord:    c.Coord(),
			Stats:    stats,
			BusyTime: s.busy[i].BusyTime(),
		})
	}

	for i, a := range s.portAnalyzers {
		pr := PortReport{
			Name: s.xbar.Ports()[i].Name(),
			In:   s.bufferAnalyzers[2*i].Stats(),
			Out:  s.bufferAnalyzers[2*i+1].Stats(),
		}
		pr.InMsg, pr.InBytes, pr.OutMsg, pr.OutBytes = a.Totals()
		r.Ports = append(r.Ports, pr)
	}

	return r
}

func (s *Simulation) executionTime() sim.VTimeInPs {
	if s.system.Finished() {
		return s.system.StopTime()
	}

	return s.engine.CurrentTime()
}

// Render writes the report as text tables.
func (r Report) Render(w io.Writer) error {
	tables := []table.Writer{r.summaryTable(), r.peTable()}
	if r.Packets > 0 {
		tables = append(tables, r.portTable())
	}
	if len(r.Classes) > 0 {
		tables = append(tables, r.classTable())
	}

	for _, t := range tables {
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}

	return nil
}

func (r Report) summaryTable() table.Writer {
	t := table.NewWriter()
	t.SetTitle("Simulation " + r.ID)
	t.AppendHeader(table.Row{"Metric", "Value"})

	t.AppendRow(table.Row{"Application", r.Application})
	t.AppendRow(table.Row{"Platform", fmt.Sprintf("%dx%d @ %s", r.Rows, r.Cols, r.Frequency)})
	t.AppendRow(table.Row{"Crossbar policy", r.Policy})
	t.AppendRow(table.Row{"Scheduling", r.Scheduling})
	t.AppendRow(table.Row{"Mapping", r.Mapping})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Released", r.Released})
	t.AppendRow(table.Row{"Mapped", r.Mapped})
	t.AppendRow(table.Row{"Completed", r.Completed})
	t.AppendRow(table.Row{"Iterations", r.Iterations})
	t.AppendRow(table.Row{"Deadline misses", r.DeadlineMisses})
	t.AppendRow(table.Row{"Execution time", r.ExecutionTime})
	t.AppendRow(table.Row{"Stop reason", r.StopReason})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Exchanged packets", r.Packets})
	t.AppendRow(table.Row{"Exchanged bytes", r.PacketBytes})

	kinds := make([]messaging.PacketKind, 0, len(r.PacketsByKind))
	for k := range r.PacketsByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, k := range kinds {
		t.AppendRow(table.Row{"  " + k.String(), r.PacketsByKind[k]})
	}

	t.AppendRow(table.Row{"Arbitration rounds", r.Arbitrations})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Events", r.Events})
	t.AppendRow(table.Row{"Wall time", r.WallTime.Round(time.Microsecond)})

	if r.RecordFile != "" {
		t.AppendRow(table.Row{"Records", r.RecordFile})
	}

	return t
}

func (r Report) peTable() table.Writer {
	t := table.NewWriter()
	t.SetTitle("Processing Elements")
	t.AppendHeader(table.Row{
		"PE", "Completed", "Misses", "Local R/W", "Remote R/W",
		"Served R/W", "Packets S/R", "Compute (ns)", "Busy",
	})

	for _, pr := range r.PEs {
		st := pr.Stats
		t.AppendRow(table.Row{
			pr.Name,
			st.Completed,
			st.DeadlineMisses,
			fmt.Sprintf("%d/%d", st.LocalReads, st.LocalWrites),
			fmt.Sprintf("%d/%d", st.RemoteReads, st.RemoteWrites),
			fmt.Sprintf("%d/%d", st.ReadsServed, st.WritesReceived),
			fmt.Sprintf("%d/%d", st.PacketsSent, st.PacketsReceived),
			fmt.Sprintf("%.1f", st.ComputationTime.InNs()),
			fmt.Sprintf("%.1f%%", 100*pr.Utilization(r.ExecutionTime)),
		})
	}

	return t
}

func (r Report) portTable() table.Writer {
	t := table.NewWriter()
	t.SetTitle("Crossbar Ports")
	t.AppendHeader(table.Row{
		"Port", "Sent", "Sent (B)", "Received", "Received (B)",
		"In Avg/Max", "Out Avg/Max",
	})

	for _, pr := range r.Ports {
		if pr.idle() {
			continue
		}

		t.AppendRow(table.Row{
			pr.Name,
			pr.OutMsg,
			pr.OutBytes,
			pr.InMsg,
			pr.InBytes,
			fmt.Sprintf("%.2f/%d", pr.In.AvgLevel, pr.In.MaxLevel),
			fmt.Sprintf("%.2f/%d", pr.Out.AvgLevel, pr.Out.MaxLevel),
		})
	}

	return t
}

func (r Report) classTable() table.Writer {
	t := table.NewWriter()
	t.SetTitle("Runnable Classes")
	t.AppendHeader(table.Row{"Class", "Count", "Avg (ns)", "Max (ns)", "Misses"})

	for _, c := range r.Classes {
		t.AppendRow(table.Row{
			c.Class,
			c.Count,
			fmt.Sprintf("%.1f", c.AverageTime().InNs()),
			fmt.Sprintf("%.1f", c.MaxTime.InNs()),
			c.DeadlineMisses,
		})
	}

	return t
}
