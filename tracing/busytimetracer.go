package tracing

import (
	"container/list"

	"github.com/sarchlab/nocsim/app"
	"github.com/sarchlab/nocsim/pe"
	"github.com/sarchlab/nocsim/sim"
)

type occupancy struct {
	start, end sim.VTimeInPs
	completed  bool
}

// BusyTimeTracer measures how long a processing element holds at least one
// instance, from admission to completion. Overlapping instances count once.
// Use one tracer per processing element.
type BusyTimeTracer struct {
	timeTeller sim.TimeTeller
	inflight   map[string]*list.Element
	intervals  *list.List
	busyTime   sim.VTimeInPs
}

// NewBusyTimeTracer creates a new BusyTimeTracer.
func NewBusyTimeTracer(timeTeller sim.TimeTeller) *BusyTimeTracer {
	return &BusyTimeTracer{
		timeTeller: timeTeller,
		inflight:   make(map[string]*list.Element),
		intervals:  list.New(),
	}
}

// BusyTime returns the busy time of the instances that are over.
func (t *BusyTimeTracer) BusyTime() sim.VTimeInPs {
	return t.busyTime
}

// Func opens an interval on admission and closes it on completion.
func (t *BusyTimeTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case pe.HookPosAdmitted:
		inst := ctx.Item.(*app.Instance)
		elem := t.intervals.PushBack(&occupancy{
			start: t.timeTeller.CurrentTime(),
		})
		t.inflight[inst.ID] = elem
	case pe.HookPosCompleted:
		t.end(ctx.Item.(*app.Instance).ID)
	}
}

func (t *BusyTimeTracer) end(id string) {
	elem, ok := t.inflight[id]
	if !ok {
		return
	}

	now := t.timeTeller.CurrentTime()
	o := elem.Value.(*occupancy)
	o.end = now
	o.completed = true
	delete(t.inflight, id)

	t.collapse(now)
}

// TerminateAll closes the open intervals at the given time.
func (t *BusyTimeTracer) TerminateAll(now sim.VTimeInPs) {
	for e := t.intervals.Front(); e != nil; e = e.Next() {
		o := e.Value.(*occupancy)
		if !o.completed {
			o.completed = true
			o.end = now
		}
	}

	t.inflight = make(map[string]*list.Element)
	t.collapse(now)
}

// collapse folds the completed intervals into the busy time once no open
// interval can overlap them anymore.
func (t *BusyTimeTracer) collapse(now sim.VTimeInPs) {
	for e := t.intervals.Front(); e != nil; e = e.Next() {
		o := e.Value.(*occupancy)
		if !o.completed && o.start < now {
			return
		}
	}

	var done []*occupancy

	var next *list.Element
	for e := t.intervals.Front(); e != nil; e = next {
		next = e.Next()

		o := e.Value.(*occupancy)
		if !o.completed {
			break
		}

		if o.end <= now {
			done = append(done, o)
			t.intervals.Remove(e)
		}
	}

	t.busyTime += mergedLength(done)
}

// mergedLength returns the length of the union of the intervals.
func mergedLength(intervals []*occupancy) sim.VTimeInPs {
	var total sim.VTimeInPs

	covered := make([]bool, len(intervals))

	for i, a := range intervals {
		if covered[i] {
			continue
		}

		covered[i] = true
		ext := occupancy{start: a.start, end: a.end}

		for grown := true; grown; {
			grown = false

			for j, b := range intervals {
				if covered[j] || b.start > ext.end || b.end < ext.start {
					continue
				}

				covered[j] = true
				grown = true
				ext.start = min(ext.start, b.start)
				ext.end = max(ext.end, b.end)
			}
		}

		total += ext.end - ext.start
	}

	return total
}
