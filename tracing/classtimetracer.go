package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
)

// ClassTime summarizes the completed instances of one runnable class.
type ClassTime struct {
	Class          string
	Count          uint64
	TotalTime      sim.VTimeInPs
	MaxTime        sim.VTimeInPs
	DeadlineMisses uint64
}

// AverageTime returns the mean execution time.
func (c ClassTime) AverageTime() sim.VTimeInPs {
	if c.Count == 0 {
		return 0
	}

	return c.TotalTime / sim.VTimeInPs(c.Count)
}

// ClassTimeTracer collects the execution time of completed instances per
// runnable class. Attach it to every processing element.
type ClassTimeTracer struct {
	lock    sync.Mutex
	classes map[string]*ClassTime
}

// NewClassTimeTracer creates a new ClassTimeTracer.
func NewClassTimeTracer() *ClassTimeTracer {
	return &ClassTimeTracer{classes: make(map[string]*ClassTime)}
}

// Func adds completed instances to the summary of their class.
func (t *ClassTimeTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != pe.HookPosCompleted {
		return
	}

	inst := ctx.Item.(*app.Instance)
	d := inst.ExecutionTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	c, ok := t.classes[inst.Call.ClassName]
	if !ok {
		c = &ClassTime{Class: inst.Call.ClassName}
		t.classes[inst.Call.ClassName] = c
	}

	c.Count++
	c.TotalTime += d
	c.MaxTime = max(c.MaxTime, d)

	if inst.MissedDeadline() {
		c.DeadlineMisses++
	}
}

// Classes returns the summaries sorted by class name.
func (t *ClassTimeTracer) Classes() []ClassTime {
	t.lock.Lock()
	defer t.lock.Unlock()

	out := make([]ClassTime, 0, len(t.classes))
	for _, c := range t.classes {
		out = append(out, *c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })

	return out
}
