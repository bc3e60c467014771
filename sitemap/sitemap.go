// Package sitemap implements the concurrent per-log-site state store
// (spec.md component C5, LogSiteMap) that rate limiters and other
// stateful log-site policies are built on.
package sitemap

import (
	"sync"

	"github.com/corelog/flogger/core"
)

// Map is a concurrent mapping from core.LogSiteKey to a value type V
// supplied by the caller through initialValue. Values are stable: once
// Get returns a value for a key, subsequent Get calls for the same key
// return the same instance until the entry is removed by the closure of
// a grouping LoggingScope found in that key's metadata at first
// insertion. Concurrent Get calls for the same key converge on one
// value; losing goroutines discard their own initialValue() result.
//
// The underlying storage is a sync.Map, Go's lock-free-for-reads
// concurrent map, matching spec.md §5's "lock-free data structures"
// requirement for per-site state.
type Map[V any] struct {
	data         sync.Map // core.LogSiteKey -> *cell[V]
	initialValue func() V
}

type cell[V any] struct {
	once  sync.Once
	value V
}

// New creates a LogSiteMap whose entries are lazily created by calling
// initialValue on first access. initialValue must never return a value
// that is unsafe to use concurrently; returning a value program cannot
// use (e.g. a nil pointer expected to be non-nil) is a contract
// violation.
func New[V any](initialValue func() V) *Map[V] {
	if initialValue == nil {
		panic("sitemap: initialValue must not be nil")
	}
	return &Map[V]{initialValue: initialValue}
}

// Get returns the existing value for key, or atomically inserts and
// returns initialValue() if this is the first access. On first
// insertion, the metadata passed in is scanned for LogSiteGroupingKey
// entries holding a *core.LoggingScope; for each one found, a removal
// hook is registered so the entry is dropped when that scope closes.
func (m *Map[V]) Get(key core.LogSiteKey, metadata core.Metadata) V {
	actual, loaded := m.data.LoadOrStore(key, &cell[V]{})
	c := actual.(*cell[V])
	c.once.Do(func() {
		c.value = m.initialValue()
		m.registerScopeEviction(key, metadata)
	})
	_ = loaded
	return c.value
}

// Contains reports whether key currently has an entry. It exists for
// testability (spec.md §8, scenario 5's "observable via a test-only
// contains probe") and is not part of the stateful-logging contract.
func (m *Map[V]) Contains(key core.LogSiteKey) bool {
	_, ok := m.data.Load(key)
	return ok
}

// remove deletes the entry for key, idempotently.
func (m *Map[V]) remove(key core.LogSiteKey) {
	m.data.Delete(key)
}

func (m *Map[V]) registerScopeEviction(key core.LogSiteKey, metadata core.Metadata) {
	for _, scope := range metadata.FindAll(core.LogSiteGroupingKey) {
		ls, ok := scope.(*core.LoggingScope)
		if !ok || ls == nil {
			continue
		}
		ls.OnClose(func() {
			m.remove(key)
		})
	}
}
