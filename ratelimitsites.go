package flogger

import (
	"sync"

	"github.com/corelog/flogger/core"
	"github.com/corelog/flogger/sitemap"
)

// siteLimiters persists one rate-limiter instance of type V per log
// site, using sitemap.Map for the concurrent, scope-evicting storage
// (spec.md component C5). A sitemap.Map's initialValue closure is fixed
// once at construction and has no access to the call-site-specific
// parameters (e.g. every(N)'s N) needed to build V, so each entry holds
// a lazyCell instead of V directly: the first Log call at a given site
// supplies the constructor, and every subsequent call at that site
// reuses the same limiter instance regardless of which goroutine got
// there first.
type siteLimiters[V any] struct {
	m *sitemap.Map[*lazyCell[V]]
}

func newSiteLimiters[V any]() *siteLimiters[V] {
	return &siteLimiters[V]{
		m: sitemap.New(func() *lazyCell[V] { return &lazyCell[V]{} }),
	}
}

// get returns the limiter for key, constructing it via build on first
// access and discarding build's result on every later call even if the
// parameters it would have used differ (a log site's every(N) argument
// is a source-level literal and so is not expected to vary call to
// call).
func (s *siteLimiters[V]) get(key core.LogSiteKey, metadata core.Metadata, build func() V) V {
	return s.m.Get(key, metadata).get(build)
}

type lazyCell[V any] struct {
	once sync.Once
	val  V
}

func (c *lazyCell[V]) get(build func() V) V {
	c.once.Do(func() { c.val = build() })
	return c.val
}
