package monitoring

import (
	"sync/atomic"
	"time"
)

// A ProgressBar counts the work items of a run. Items move from in progress
// to finished. The simulation goroutine updates it while the monitor reads
// it.
type ProgressBar struct {
	id    string
	name  string
	start time.Time
	total uint64

	finished   atomic.Uint64
	inProgress atomic.Uint64
}

type progressRsp struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// IncrementInProgress marks new items as started.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.inProgress.Add(amount)
}

// IncrementFinished marks items as done without having started them.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.finished.Add(amount)
}

// MoveInProgressToFinished marks started items as done.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.inProgress.Add(^(amount - 1))
	b.finished.Add(amount)
}

// Finished returns the number of finished items.
func (b *ProgressBar) Finished() uint64 {
	return b.finished.Load()
}

func (b *ProgressBar) snapshot() progressRsp {
	return progressRsp{
		ID:         b.id,
		Name:       b.name,
		StartTime:  b.start,
		Total:      b.total,
		Finished:   b.finished.Load(),
		InProgress: b.inProgress.Load(),
	}
}
