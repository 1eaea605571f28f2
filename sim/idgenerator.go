package sim

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// An IDGenerator hands out string IDs.
type IDGenerator interface {
	Generate() string
}

// A Sequence hands out increasing integer IDs, starting from 1.
type Sequence struct {
	next atomic.Uint64
}

// Next returns a fresh ID.
func (s *Sequence) Next() uint64 {
	return s.next.Add(1)
}

// Last returns the most recent ID handed out, or 0.
func (s *Sequence) Last() uint64 {
	return s.next.Load()
}

// NewSequentialIDGenerator returns a generator that hands out "1", "2", ...
// so that repeated runs name things the same way.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

type sequentialIDGenerator struct {
	seq Sequence
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(g.seq.Next(), 10)
}

// NewParallelIDGenerator returns a generator of globally unique IDs. The IDs
// differ from run to run.
func NewParallelIDGenerator() IDGenerator {
	return xidGenerator{}
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
