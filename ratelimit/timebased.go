package ratelimit

import "sync/atomic"

// TimeBased implements the "at most every Δ" limiter (spec.md §4.2.2).
// A Δ of zero disables limiting entirely: callers are expected to
// return nil (no opinion) instead of constructing one, matching the
// "atMostEvery(0, _) is a no-op" testable property of spec.md §8.
type TimeBased struct {
	deltaNanos int64
	last       atomic.Int64 // 0 or negative means "never fired"
}

// NewTimeBased returns a TimeBased limiter for the given Δ, in
// nanoseconds. deltaNanos must be > 0; see the TimeBased doc comment
// for the Δ == 0 case.
func NewTimeBased(deltaNanos int64) *TimeBased {
	return &TimeBased{deltaNanos: deltaNanos}
}

// Check consults the limiter against the current time (nanoseconds,
// from the caller's clock source), returning Disallow or a pending
// Status that must be reset with the same `now` once the statement is
// emitted.
func (t *TimeBased) Check(nowNanos int64) *Status {
	last := t.last.Load()
	if last <= 0 || nowNanos-last >= t.deltaNanos {
		return pending(func() { t.reset(nowNanos) })
	}
	return Disallow
}

// reset performs the bounded CAS described in spec.md §4.2.2: the
// stored timestamp only moves forward, never backward, so a reset
// racing with a newer one never regresses the limiter's state.
func (t *TimeBased) reset(nowNanos int64) {
	for {
		cur := t.last.Load()
		if cur > nowNanos {
			return
		}
		if t.last.CompareAndSwap(cur, nowNanos) {
			return
		}
	}
}
