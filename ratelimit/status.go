// Package ratelimit implements the composable rate-limiting policies
// of spec.md §4.2 (component C6): counting, time-based, and sampling
// limiters, plus the RateLimitStatus algebra that combines their
// opinions into a single permit/deny decision.
package ratelimit

// Status is the three-state result of consulting a limiter: nil
// (no opinion), Disallow (absorbing), or a pending Status that is
// itself a resettable limiter instance awaiting a single Reset after
// the statement it gated has been emitted.
//
// A Go nil *Status models "no opinion" directly; Disallow is the
// process-wide sentinel instance; any other non-nil, non-Disallow
// value is a "pending" status.
type Status struct {
	reset func()
}

// Disallow is the absorbing status: if any limiter returns Disallow,
// the combined decision is Disallow regardless of any other limiter.
var Disallow = &Status{}

// Allowed reports whether this status permits the statement to be
// emitted. Everything except Disallow permits emission, including a
// nil receiver: "no limiter expressed an opinion" is not itself a
// reason to suppress a statement.
func (s *Status) Allowed() bool {
	return s != Disallow
}

// IsPending reports whether this status requires a Reset call after
// the gated statement is emitted.
func (s *Status) IsPending() bool {
	return s != nil && s != Disallow
}

// Reset resets the limiter(s) behind this pending status. It is a
// no-op for nil and for Disallow.
func (s *Status) Reset() {
	if s != nil && s.reset != nil {
		s.reset()
	}
}

func pending(reset func()) *Status {
	return &Status{reset: reset}
}

// Combine applies the composition rule of spec.md §4.2: a statement is
// permitted iff at least one opinion was expressed AND none of them is
// Disallow. nil is the identity element; Disallow is absorbing;
// combining two non-nil, non-Disallow (pending) statuses yields a
// composite pending status whose Reset resets every constituent.
func Combine(opinions ...*Status) *Status {
	var result *Status
	anyExpressed := false
	var pendingSet []*Status

	for _, op := range opinions {
		if op == nil {
			continue
		}
		anyExpressed = true
		if op == Disallow {
			return Disallow
		}
		pendingSet = append(pendingSet, op)
	}

	if !anyExpressed {
		return nil
	}
	if len(pendingSet) == 1 {
		return pendingSet[0]
	}

	result = pending(func() {
		for _, p := range pendingSet {
			p.Reset()
		}
	})
	return result
}
