// Package memory implements an in-process, test-and-demo
// core.Backend that captures every LogData record it receives,
// grounded on the teacher's sinks.MemorySink (sinks/memory.go).
package memory

import (
	"sync"

	"github.com/corelog/flogger/core"
)

// Backend stores LogData records in memory. It never rejects a
// record and never returns an error from Log, so HandleError is
// never invoked in practice; it is implemented to satisfy
// core.Backend and to make tests that inject failures possible.
type Backend struct {
	name string

	mu   sync.RWMutex
	data []core.LogData
}

// New returns a ready-to-use Backend. name identifies it in
// diagnostics.
func New(name string) *Backend {
	return &Backend{name: name}
}

// Name returns the backend's configured name.
func (b *Backend) Name() string { return b.name }

// IsLoggable always reports true: memory is typically used in tests
// that want to observe every level.
func (b *Backend) IsLoggable(core.Level) bool { return true }

// Log appends a copy of data to the in-memory buffer.
func (b *Backend) Log(data core.LogData) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, data)
	return nil
}

// HandleError reports the error unchanged; memory never produces
// errors of its own, so this only runs if a caller wraps it in a
// decorator (e.g. backend/resilient) that injects one.
func (b *Backend) HandleError(err error, data core.LogData) error {
	return err
}

// Events returns a copy of every record captured so far.
func (b *Backend) Events() []core.LogData {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]core.LogData, len(b.data))
	copy(out, b.data)
	return out
}

// Clear discards every captured record.
func (b *Backend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = b.data[:0]
}

// Count returns the number of captured records.
func (b *Backend) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// Find returns every record matching predicate.
func (b *Backend) Find(predicate func(core.LogData) bool) []core.LogData {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []core.LogData
	for _, d := range b.data {
		if predicate(d) {
			out = append(out, d)
		}
	}
	return out
}

// Last returns the most recently captured record, and false if none
// have been captured yet.
func (b *Backend) Last() (core.LogData, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.data) == 0 {
		return core.LogData{}, false
	}
	return b.data[len(b.data)-1], true
}
