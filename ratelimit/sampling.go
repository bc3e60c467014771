package ratelimit

import (
	"math/rand/v2"
	"sync/atomic"
)

// Sampling implements the "on average every N" limiter (spec.md
// §4.2.3). math/rand/v2's top-level functions are safe for concurrent
// use and draw from a per-processor source, satisfying the "RNG must
// be per-thread" requirement without any limiter-owned locking.
type Sampling struct {
	n       int64
	pending atomic.Int64
}

// NewSampling returns a Sampling limiter that fires with probability
// 1/n on each check.
func NewSampling(n int64) *Sampling {
	return &Sampling{n: n}
}

// Check consults the limiter: with probability 1/n it increments the
// pending count; it then returns a pending Status if the pending count
// is positive, or Disallow otherwise. This means a single "win" can
// cover a later check that would otherwise have lost, smoothing bursts
// exactly as spec.md describes.
func (s *Sampling) Check() *Status {
	if rand.Int64N(s.n) == 0 {
		s.pending.Add(1)
	}
	if s.pending.Load() > 0 {
		return pending(s.Reset)
	}
	return Disallow
}

// Reset decrements the pending count, matching spec.md's description
// of the sampling limiter's reset behavior.
func (s *Sampling) Reset() {
	for {
		cur := s.pending.Load()
		if cur <= 0 {
			return
		}
		if s.pending.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}
