// Package tracing turns the hook invocations of a simulation into records
// and summaries.
package tracing

import (
	"sync"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/datarecording"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/system"
	"github.com/tebeka/atexit"
)

type locatable interface {
	Name() string
	Coord() messaging.Coord
}

// DBTracer is a hook that writes what happens in a simulation into a
// DataRecorder. Attach it to the processing elements, the release manager
// and the crossbar.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	startTime, endTime sim.VTimeInPs

	detailed   bool
	terminated bool
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(CompletionTable, CompletionEntry{})
	dataRecorder.CreateTable(MappingTable, MappingEntry{})
	dataRecorder.CreateTable(LabelTable, LabelEntry{})
	dataRecorder.CreateTable(ModeTable, ModeEntry{})
	dataRecorder.CreateTable(PEStatsTable, PEStatsEntry{})

	t := &DBTracer{
		timeTeller: timeTeller,
		backend:    dataRecorder,
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTimeRange limits the records to the given window. A zero end means no
// upper limit.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInPs) {
	t.startTime = startTime
	t.endTime = endTime
}

// EnableDetailedTracing also records every instruction and every packet.
func (t *DBTracer) EnableDetailedTracing() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.detailed {
		return
	}

	t.detailed = true
	t.backend.CreateTable(InstructionTable, InstructionEntry{})
	t.backend.CreateTable(PacketTable, PacketEntry{})
}

// Func records the hook invocation.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.timeTeller.CurrentTime()
	if !t.inRange(now) {
		return
	}

	switch ctx.Pos {
	case pe.HookPosCompleted:
		t.recordCompletion(ctx)
	case system.HookPosMapped:
		t.recordMapping(ctx, now)
	case system.HookPosLabelMapped:
		t.recordLabel(ctx, now)
	case system.HookPosModeSwitched:
		mode := ctx.Item.(system.Mode)
		t.backend.InsertData(ModeTable, ModeEntry{
			Name: mode.Name,
			File: mode.File,
			Time: now.InNs(),
		})
	case pe.HookPosInstruction:
		if t.detailed {
			t.recordInstruction(ctx, now)
		}
	case messaging.HookPosPacketDeliver:
		if t.detailed {
			t.recordPacket(ctx)
		}
	}
}

func (t *DBTracer) inRange(now sim.VTimeInPs) bool {
	if t.terminated || now < t.startTime {
		return false
	}

	return t.endTime == 0 || now <= t.endTime
}

func (t *DBTracer) recordCompletion(ctx sim.HookCtx) {
	inst := ctx.Item.(*app.Instance)
	loc := ctx.Domain.(locatable)

	t.backend.InsertData(CompletionTable, CompletionEntry{
		Instance:   inst.ID,
		Runnable:   inst.Call.ClassName,
		ClassID:    inst.Call.ClassID,
		TaskID:     int(inst.Call.Task),
		PeriodID:   inst.PeriodID,
		Priority:   inst.Call.Priority,
		PE:         loc.Name(),
		Row:        loc.Coord().Row,
		Col:        loc.Coord().Col,
		Release:    inst.ReleaseTime.InNs(),
		Mapping:    inst.MappingTime.InNs(),
		CoreRecv:   inst.CoreReceiveTime.InNs(),
		Start:      inst.StartTime.InNs(),
		Completion: inst.CompletionTime.InNs(),
		Execution:  inst.ExecutionTime().InNs(),
		Deadline:   inst.Call.Deadline.InNs(),
		Slack:      float64(inst.Slack()) / float64(sim.Ns),
		Missed:     inst.MissedDeadline(),
	})
}

func (t *DBTracer) recordMapping(ctx sim.HookCtx, now sim.VTimeInPs) {
	inst := ctx.Item.(*app.Instance)
	coord := ctx.Detail.(messaging.Coord)

	t.backend.InsertData(MappingTable, MappingEntry{
		Instance: inst.ID,
		Runnable: inst.Call.ClassName,
		PeriodID: inst.PeriodID,
		Row:      coord.Row,
		Col:      coord.Col,
		Time:     now.InNs(),
	})
}

func (t *DBTracer) recordLabel(ctx sim.HookCtx, now sim.VTimeInPs) {
	lbl := ctx.Item.(*app.Label)
	coord := ctx.Detail.(messaging.Coord)

	t.backend.InsertData(LabelTable, LabelEntry{
		Label:    lbl.Name,
		LabelID:  int(lbl.ID),
		SizeBits: lbl.SizeBits,
		Row:      coord.Row,
		Col:      coord.Col,
		Time:     now.InNs(),
	})
}

func (t *DBTracer) recordInstruction(ctx sim.HookCtx, now sim.VTimeInPs) {
	inst := ctx.Item.(*app.Instance)
	detail := ctx.Detail.(pe.InstructionDetail)
	loc := ctx.Domain.(locatable)

	t.backend.InsertData(InstructionTable, InstructionEntry{
		Instance: inst.ID,
		PE:       loc.Name(),
		Index:    detail.Index,
		Kind:     detail.Kind,
		Cycles:   detail.Cycles,
		Duration: detail.Duration.InNs(),
		Remote:   detail.Remote,
		Time:     now.InNs(),
	})
}

func (t *DBTracer) recordPacket(ctx sim.HookCtx) {
	pkt := ctx.Item.(*messaging.Packet)

	t.backend.InsertData(PacketTable, PacketEntry{
		ID:            pkt.ID,
		Kind:          pkt.Kind.String(),
		Src:           pkt.Src.String(),
		Dst:           pkt.Dst.String(),
		CorrelationID: pkt.CorrelationID,
		Fragment:      pkt.FragmentIndex,
		FragmentCount: pkt.FragmentCount,
		Size:          pkt.Size,
		LabelID:       pkt.LabelID,
		Priority:      pkt.Priority,
		Inject:        pkt.InjectTime.InNs(),
		Deliver:       pkt.DeliverTime.InNs(),
		Latency:       pkt.Latency().InNs(),
	})
}

// RecordPEStats writes the counters of a processing element.
func (t *DBTracer) RecordPEStats(name string, coord messaging.Coord, s pe.Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData(PEStatsTable, PEStatsEntry{
		PE:               name,
		Row:              coord.Row,
		Col:              coord.Col,
		Admitted:         s.Admitted,
		Completed:        s.Completed,
		DeadlineMisses:   s.DeadlineMisses,
		LocalReads:       s.LocalReads,
		LocalReadBytes:   s.LocalReadBytes,
		LocalWrites:      s.LocalWrites,
		LocalWriteBytes:  s.LocalWriteBytes,
		RemoteReads:      s.RemoteReads,
		RemoteReadBytes:  s.RemoteReadBytes,
		RemoteWrites:     s.RemoteWrites,
		RemoteWriteBytes: s.RemoteWriteBytes,
		ReadsServed:      s.ReadsServed,
		WritesReceived:   s.WritesReceived,
		PacketsSent:      s.PacketsSent,
		PacketsReceived:  s.PacketsReceived,
		Computation:      s.ComputationTime.InNs(),
	})
}

// Terminate flushes the records. Hook invocations after Terminate are
// ignored.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminated {
		return
	}

	t.terminated = true
	t.backend.Flush()
}
