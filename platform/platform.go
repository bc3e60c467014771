// Package platform implements core.Platform: the one process-wide
// collaborator a Logger is given at construction (spec.md §9), bundling
// a wall clock, the caller-finder fallback, and a single named-backend
// registry. spec.md §9 leaves open whether a process should have one
// shared registry or one per Logger; this package resolves it as one
// registry per Platform instance, constructed explicitly rather than
// as a package-level singleton, so tests and multi-tenant processes
// can each hold their own (see DESIGN.md).
package platform

import (
	"fmt"
	"sync"
	"time"

	"github.com/corelog/flogger"
	"github.com/corelog/flogger/core"
)

// Platform is the default core.Platform implementation.
type Platform struct {
	clock  func() int64
	finder core.CallerFinder

	mu       sync.RWMutex
	backends map[string]core.Backend
}

// Option configures a Platform at construction.
type Option func(*Platform)

// WithClock overrides the wall clock, e.g. for deterministic tests.
func WithClock(clock func() int64) Option {
	return func(p *Platform) { p.clock = clock }
}

// WithCallerFinder overrides the default stack-walking caller finder.
func WithCallerFinder(finder core.CallerFinder) Option {
	return func(p *Platform) { p.finder = finder }
}

// WithBackend pre-registers a named backend at construction.
func WithBackend(name string, backend core.Backend) Option {
	return func(p *Platform) { p.backends[name] = backend }
}

// New returns a Platform using time.Now and the default stack-walking
// caller finder unless overridden.
func New(opts ...Option) *Platform {
	p := &Platform{
		clock:    func() int64 { return time.Now().UnixNano() },
		finder:   flogger.NewStackCallerFinder(),
		backends: make(map[string]core.Backend),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Platform) NowNanos() int64 { return p.clock() }

func (p *Platform) CallerFinder() core.CallerFinder { return p.finder }

// Backend resolves a backend previously registered under name.
func (p *Platform) Backend(name string) (core.Backend, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b, ok := p.backends[name]
	if !ok {
		return nil, fmt.Errorf("platform: no backend registered for %q", name)
	}
	return b, nil
}

// RegisterBackend adds or replaces a named backend after construction,
// e.g. when a config reload introduces a new sink.
func (p *Platform) RegisterBackend(name string, backend core.Backend) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.backends[name] = backend
}
