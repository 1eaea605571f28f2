package analysis

import (
	"sort"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

type portAnalyzerEntry struct {
	remote         messaging.Coord
	OutTrafficByte int64
	OutTrafficMsg  int64
	InTrafficByte  int64
	InTrafficMsg   int64
}

// A Port is a crossbar port seen by a PortAnalyzer.
type Port interface {
	Name() string
	Coord() messaging.Coord
}

// PortAnalyzer is a hook for the amount of traffic that passes through a
// crossbar port. Attach it to the crossbar.
type PortAnalyzer struct {
	PerfLogger
	sim.TimeTeller

	window window
	port   Port

	lastTime        sim.VTimeInPs
	remoteToTraffic map[messaging.Coord]portAnalyzerEntry
	totalInMsg      int64
	totalOutMsg     int64
	totalInTraffic  int64
	totalOutTraffic int64
}

// Func counts the delivered packets that leave or reach the port.
func (h *PortAnalyzer) Func(ctx sim.HookCtx) {
	if ctx.Pos != messaging.HookPosPacketDeliver {
		return
	}

	pkt, ok := ctx.Item.(*messaging.Packet)
	if !ok {
		return
	}

	coord := h.port.Coord()
	if pkt.Src != coord && pkt.Dst != coord {
		return
	}

	now := h.CurrentTime()

	if h.window.enabled() {
		lastPeriodEndTime := h.window.end(h.lastTime)
		if now > lastPeriodEndTime {
			h.summarize(now)
		}
	}

	h.count(pkt)

	h.lastTime = now
}

func (h *PortAnalyzer) count(pkt *messaging.Packet) {
	incoming := pkt.Dst == h.port.Coord()

	remote := pkt.Dst
	if incoming {
		remote = pkt.Src
	}

	entry, ok := h.remoteToTraffic[remote]
	if !ok {
		entry = portAnalyzerEntry{remote: remote}
	}

	size := int64(pkt.Size)

	if incoming {
		entry.InTrafficByte += size
		entry.InTrafficMsg++
		h.totalInTraffic += size
		h.totalInMsg++
	} else {
		entry.OutTrafficByte += size
		entry.OutTrafficMsg++
		h.totalOutTraffic += size
		h.totalOutMsg++
	}

	h.remoteToTraffic[remote] = entry
}

// Terminate reports the traffic that has not been reported yet.
func (h *PortAnalyzer) Terminate(now sim.VTimeInPs) {
	h.summarize(now)
}

// Totals returns the packets and bytes that reached and left the port.
func (h *PortAnalyzer) Totals() (inMsg, inBytes, outMsg, outBytes int64) {
	return h.totalInMsg, h.totalInTraffic, h.totalOutMsg, h.totalOutTraffic
}

func (h *PortAnalyzer) summarize(now sim.VTimeInPs) {
	startTime := sim.VTimeInPs(0)
	endTime := now

	if h.window.enabled() {
		startTime = h.window.start(h.lastTime)
		endTime = min(h.window.end(h.lastTime), now)
	}

	remotes := make([]messaging.Coord, 0, len(h.remoteToTraffic))
	for r := range h.remoteToTraffic {
		remotes = append(remotes, r)
	}
	sort.Slice(remotes, func(i, j int) bool {
		if remotes[i].Row != remotes[j].Row {
			return remotes[i].Row < remotes[j].Row
		}
		return remotes[i].Col < remotes[j].Col
	})

	for _, r := range remotes {
		h.report(startTime, endTime, h.remoteToTraffic[r])
	}

	h.remoteToTraffic = make(map[messaging.Coord]portAnalyzerEntry)
}

func (h *PortAnalyzer) report(startTime, endTime sim.VTimeInPs, entry portAnalyzerEntry) {
	if h.PerfLogger == nil {
		return
	}

	perfEntry := PerfAnalyzerEntry{
		Start:       startTime.InNs(),
		End:         endTime.InNs(),
		Where:       h.port.Name(),
		WhereRemote: entry.remote.String(),
		EntryType:   "Traffic",
	}

	if entry.InTrafficMsg != 0 {
		perfEntry.What = "Incoming"
		perfEntry.Value = float64(entry.InTrafficByte)
		perfEntry.Unit = "Byte"
		h.PerfLogger.AddDataEntry(perfEntry)

		perfEntry.Value = float64(entry.InTrafficMsg)
		perfEntry.Unit = "Msg"
		h.PerfLogger.AddDataEntry(perfEntry)
	}

	if entry.OutTrafficMsg != 0 {
		perfEntry.What = "Outgoing"
		perfEntry.Value = float64(entry.OutTrafficByte)
		perfEntry.Unit = "Byte"
		h.PerfLogger.AddDataEntry(perfEntry)

		perfEntry.Value = float64(entry.OutTrafficMsg)
		perfEntry.Unit = "Msg"
		h.PerfLogger.AddDataEntry(perfEntry)
	}
}

// PortAnalyzerBuilder can build a PortAnalyzer.
type PortAnalyzerBuilder struct {
	perfLogger PerfLogger
	timeTeller sim.TimeTeller
	period     sim.VTimeInPs
	port       Port
}

// MakePortAnalyzerBuilder creates a PortAnalyzerBuilder.
func MakePortAnalyzerBuilder() PortAnalyzerBuilder {
	return PortAnalyzerBuilder{}
}

// WithPerfLogger sets the logger to be used by the PortAnalyzer.
func (b PortAnalyzerBuilder) WithPerfLogger(l PerfLogger) PortAnalyzerBuilder {
	b.perfLogger = l
	return b
}

// WithTimeTeller sets the TimeTeller to be used by the PortAnalyzer.
func (b PortAnalyzerBuilder) WithTimeTeller(
	t sim.TimeTeller,
) PortAnalyzerBuilder {
	b.timeTeller = t
	return b
}

// WithPeriod sets the period to be used by the PortAnalyzer.
func (b PortAnalyzerBuilder) WithPeriod(p sim.VTimeInPs) PortAnalyzerBuilder {
	b.period = p
	return b
}

// WithPort sets the port to be used by the PortAnalyzer.
func (b PortAnalyzerBuilder) WithPort(p Port) PortAnalyzerBuilder {
	b.port = p
	return b
}

// Build creates a PortAnalyzer.
func (b PortAnalyzerBuilder) Build() *PortAnalyzer {
	if b.timeTeller == nil {
		panic("PortAnalyzer requires a TimeTeller")
	}

	if b.port == nil {
		panic("PortAnalyzer requires a Port")
	}

	return &PortAnalyzer{
		PerfLogger:      b.perfLogger,
		TimeTeller:      b.timeTeller,
		window:          window{period: b.period},
		port:            b.port,
		remoteToTraffic: make(map[messaging.Coord]portAnalyzerEntry),
	}
}
