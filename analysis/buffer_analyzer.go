package analysis

import (
	"github.com/sarchlab/nocsim/sim"
)

// BufferStats summarizes the occupancy of one buffer over a whole run.
type BufferStats struct {
	Buffer   string
	Capacity int
	AvgLevel float64
	MaxLevel int
}

// BufferAnalyzer can periodically record the buffer level of a buffer.
type BufferAnalyzer struct {
	PerfLogger
	sim.TimeTeller

	buf    sim.Buffer
	window window

	lastTime           sim.VTimeInPs
	lastBufLevel       int
	bufLevelToDuration map[int]sim.VTimeInPs

	runLastTime  sim.VTimeInPs
	runLevelTime float64
	runEnd       sim.VTimeInPs
	maxLevel     int
}

// Func is a function that records buffer level change.
func (b *BufferAnalyzer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosBufPush && ctx.Pos != sim.HookPosBufPop {
		return
	}

	now := b.CurrentTime()
	currLevel := b.buf.Size()

	b.accumulateRun(now)

	if b.window.enabled() {
		lastPeriodEndTime := b.window.end(b.lastTime)

		if now > lastPeriodEndTime {
			b.summarize(now)
			b.resetPeriod(now)
		}
	}

	b.bufLevelToDuration[b.lastBufLevel] += now - b.lastTime
	b.lastBufLevel = currLevel
	b.lastTime = now
	b.maxLevel = max(b.maxLevel, currLevel)
}

func (b *BufferAnalyzer) accumulateRun(now sim.VTimeInPs) {
	b.runLevelTime += float64(b.lastBufLevel) * float64(now-b.runLastTime)
	b.runLastTime = now
}

// Terminate reports the periods that have not been reported yet, including
// the one that is in progress.
func (b *BufferAnalyzer) Terminate(now sim.VTimeInPs) {
	b.accumulateRun(now)
	b.runEnd = now

	b.summarize(now)

	if b.window.enabled() {
		b.summarizePeriod(now, b.window.start(b.lastTime), now)
	}

	b.bufLevelToDuration = make(map[int]sim.VTimeInPs)
	b.lastTime = now
}

// Stats returns the occupancy summary up to the last Terminate.
func (b *BufferAnalyzer) Stats() BufferStats {
	s := BufferStats{
		Buffer:   b.buf.Name(),
		Capacity: b.buf.Capacity(),
		MaxLevel: b.maxLevel,
	}

	if b.runEnd > 0 {
		s.AvgLevel = b.runLevelTime / float64(b.runEnd)
	}

	return s
}

func (b *BufferAnalyzer) summarize(now sim.VTimeInPs) {
	if !b.window.enabled() {
		b.summarizePeriod(now, 0, now)
		return
	}

	periodStartTime := b.window.start(b.lastTime)
	periodEndTime := b.window.end(b.lastTime)

	for periodEndTime < now {
		b.summarizePeriod(now, periodStartTime, periodEndTime)

		b.bufLevelToDuration = make(map[int]sim.VTimeInPs)
		b.lastTime = periodEndTime
		periodStartTime = periodEndTime
		periodEndTime = periodStartTime + b.window.period
	}
}

func (b *BufferAnalyzer) summarizePeriod(
	now, periodStartTime, periodEndTime sim.VTimeInPs,
) {
	sumLevel := 0.0
	sumDuration := 0.0
	for level, duration := range b.bufLevelToDuration {
		sumLevel += float64(level) * float64(duration)
		sumDuration += float64(duration)
	}

	summarizeEndTime := min(periodEndTime, now)
	if summarizeEndTime > b.lastTime {
		remainingTime := summarizeEndTime - b.lastTime
		sumLevel += float64(b.lastBufLevel) * float64(remainingTime)
		sumDuration += float64(remainingTime)
	}

	if sumDuration == 0 || sumLevel == 0 || b.PerfLogger == nil {
		return
	}

	b.PerfLogger.AddDataEntry(PerfAnalyzerEntry{
		Start:     periodStartTime.InNs(),
		End:       periodEndTime.InNs(),
		Where:     b.buf.Name(),
		What:      "Level",
		EntryType: "Buffer",
		Value:     sumLevel / sumDuration,
	})
}

func (b *BufferAnalyzer) resetPeriod(now sim.VTimeInPs) {
	b.bufLevelToDuration = make(map[int]sim.VTimeInPs)
	b.lastTime = b.window.start(now)
}

// BufferAnalyzerBuilder can build a BufferAnalyzer.
type BufferAnalyzerBuilder struct {
	perfLogger PerfLogger
	timeTeller sim.TimeTeller
	period     sim.VTimeInPs
	buffer     sim.Buffer
}

// MakeBufferAnalyzerBuilder creates a BufferAnalyzerBuilder.
func MakeBufferAnalyzerBuilder() BufferAnalyzerBuilder {
	return BufferAnalyzerBuilder{}
}

// WithPerfLogger sets the PerfLogger to use. Without one, the analyzer only
// keeps the run summary.
func (b BufferAnalyzerBuilder) WithPerfLogger(
	perfLogger PerfLogger,
) BufferAnalyzerBuilder {
	b.perfLogger = perfLogger
	return b
}

// WithTimeTeller sets the TimeTeller to use.
func (b BufferAnalyzerBuilder) WithTimeTeller(
	timeTeller sim.TimeTeller,
) BufferAnalyzerBuilder {
	b.timeTeller = timeTeller
	return b
}

// WithPeriod sets the period to use. Zero reports one entry for the run.
func (b BufferAnalyzerBuilder) WithPeriod(
	period sim.VTimeInPs,
) BufferAnalyzerBuilder {
	b.period = period
	return b
}

// WithBuffer sets the buffer to use.
func (b BufferAnalyzerBuilder) WithBuffer(
	buffer sim.Buffer,
) BufferAnalyzerBuilder {
	b.buffer = buffer
	return b
}

// Build creates a BufferAnalyzer and hooks it to the buffer.
func (b BufferAnalyzerBuilder) Build() *BufferAnalyzer {
	if b.timeTeller == nil {
		panic("timeTeller is not set")
	}

	if b.buffer == nil {
		panic("buffer is not set")
	}

	analyzer := &BufferAnalyzer{
		PerfLogger:         b.perfLogger,
		TimeTeller:         b.timeTeller,
		buf:                b.buffer,
		window:             window{period: b.period},
		bufLevelToDuration: make(map[int]sim.VTimeInPs),
	}

	b.buffer.AcceptHook(analyzer)

	return analyzer
}
