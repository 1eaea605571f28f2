package pe

import (
	"math/rand/v2"
	"time"
)

// A Sampler draws the cycle counts of deviation instructions.
type Sampler interface {
	// Uniform returns an integer drawn uniformly from [lower, upper].
	Uniform(lower, upper int64) int64
}

// DefaultSeed is the seed of deterministic runs.
const DefaultSeed uint64 = 1242

type pcgSampler struct {
	r *rand.Rand
}

// NewSeededSampler returns a sampler that produces the same sequence for the
// same seed and stream. Processing elements use their index as stream.
func NewSeededSampler(seed, stream uint64) Sampler {
	return &pcgSampler{r: rand.New(rand.NewPCG(seed, stream))}
}

// NewTimeSeededSampler returns a sampler that differs from run to run.
func NewTimeSeededSampler(stream uint64) Sampler {
	return NewSeededSampler(uint64(time.Now().UnixNano()), stream)
}

func (s *pcgSampler) Uniform(lower, upper int64) int64 {
	if upper <= lower {
		return lower
	}

	return lower + s.r.Int64N(upper-lower+1)
}
