package pe

import (
	"sort"

	"github.com/sarchlab/nocsim/app"
)

type readyEntry struct {
	key  int64
	inst *app.Instance
}

// readyQueue keeps instances sorted by ascending key. An instance inserted
// with the same key as others goes after them.
type readyQueue struct {
	entries []readyEntry
}

func (q *readyQueue) insert(key int64, inst *app.Instance) {
	i := sort.Search(len(q.entries), func(i int) bool {
		return q.entries[i].key > key
	})

	q.entries = append(q.entries, readyEntry{})
	copy(q.entries[i+1:], q.entries[i:])
	q.entries[i] = readyEntry{key: key, inst: inst}
}

func (q *readyQueue) front() *app.Instance {
	if len(q.entries) == 0 {
		return nil
	}

	return q.entries[0].inst
}

func (q *readyQueue) remove(inst *app.Instance) bool {
	for i, e := range q.entries {
		if e.inst == inst {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}

	return false
}

func (q *readyQueue) len() int {
	return len(q.entries)
}

func (q *readyQueue) instances() []*app.Instance {
	out := make([]*app.Instance, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e.inst)
	}

	return out
}
