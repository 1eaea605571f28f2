package sim

import "container/heap"

// An EventQueue hands out events in time order. At equal times, primary
// events come before secondary ones and ties are broken by push order, so
// runs are reproducible.
type EventQueue interface {
	Push(evt Event)
	Pop() Event
	Peek() Event
	Len() int
}

// HeapEventQueue is an EventQueue backed by a binary heap. It is not safe
// for concurrent use.
type HeapEventQueue struct {
	items  queueItems
	pushed uint64
}

// NewEventQueue creates an empty HeapEventQueue.
func NewEventQueue() *HeapEventQueue {
	return &HeapEventQueue{}
}

// Push adds an event.
func (q *HeapEventQueue) Push(evt Event) {
	heap.Push(&q.items, queueItem{
		evt:       evt,
		time:      evt.Time(),
		secondary: evt.IsSecondary(),
		order:     q.pushed,
	})
	q.pushed++
}

// Pop removes and returns the next event, or nil if the queue is empty.
func (q *HeapEventQueue) Pop() Event {
	if len(q.items) == 0 {
		return nil
	}

	return heap.Pop(&q.items).(queueItem).evt
}

// Peek returns the next event without removing it, or nil if the queue is
// empty.
func (q *HeapEventQueue) Peek() Event {
	if len(q.items) == 0 {
		return nil
	}

	return q.items[0].evt
}

// Len returns the number of queued events.
func (q *HeapEventQueue) Len() int {
	return len(q.items)
}

type queueItem struct {
	evt       Event
	time      VTimeInPs
	secondary bool
	order     uint64
}

func (a queueItem) before(b queueItem) bool {
	switch {
	case a.time != b.time:
		return a.time < b.time
	case a.secondary != b.secondary:
		return !a.secondary
	default:
		return a.order < b.order
	}
}

type queueItems []queueItem

func (h queueItems) Len() int           { return len(h) }
func (h queueItems) Less(i, j int) bool { return h[i].before(h[j]) }
func (h queueItems) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *queueItems) Push(x any) {
	*h = append(*h, x.(queueItem))
}

func (h *queueItems) Pop() any {
	old := *h
	last := old[len(old)-1]
	old[len(old)-1] = queueItem{}
	*h = old[:len(old)-1]

	return last
}
