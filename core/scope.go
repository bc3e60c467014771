package core

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
)

// scopeKey is the internal, hash/equals-identity part of a LoggingScope.
// SpecializedLogSiteKey holds an ordinary (strong) pointer to the
// scopeKey, not a weak one; it holds no reference to the LoggingScope
// itself, so the scope can become unreachable while keys specialized on
// it still exist, and the scopeKey stays alive as long as such a key does.
// Removal hooks registered via onClose fire exactly once, whether
// triggered by an explicit Close or by GC-driven cleanup.
type scopeKey struct {
	label string

	mu      sync.Mutex
	hooks   []func()
	closed  bool
}

func (k *scopeKey) addHook(hook func()) {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		hook()
		return
	}
	k.hooks = append(k.hooks, hook)
	k.mu.Unlock()
}

func (k *scopeKey) runHooksOnce() {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return
	}
	k.closed = true
	hooks := k.hooks
	k.hooks = nil
	k.mu.Unlock()
	for _, h := range hooks {
		h()
	}
}

// LoggingScope is an opaque, user-visible marker whose lifetime bounds
// per-log-site state registered against it via per(scope) (see the
// root package's LogContext.Per). Two LoggingScope values constructed
// independently are never equal, even with the same label.
type LoggingScope struct {
	label string
	key   *scopeKey
	closed atomic.Bool
}

// NewLoggingScope creates a new scope with a human-readable label. The
// label has no semantic meaning to the core; it exists for diagnostics.
func NewLoggingScope(label string) *LoggingScope {
	s := &LoggingScope{
		label: label,
		key:   &scopeKey{label: label},
	}
	// The cleanup is attached to s and receives only s.key, so it does
	// not keep the scope alive; specialized keys hold only the key. Once
	// the scope is unreachable the runtime drives the same removal-hook
	// path that an explicit Close would.
	runtime.AddCleanup(s, func(k *scopeKey) {
		k.runHooksOnce()
	}, s.key)
	return s
}

// Label returns the scope's human-readable name.
func (s *LoggingScope) Label() string { return s.label }

// Close explicitly ends the scope, running all registered removal hooks
// idempotently. Subsequent per-site lookups that specialize on this
// scope will observe it as closed.
func (s *LoggingScope) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.key.runHooksOnce()
	}
}

// Closed reports whether the scope has been explicitly closed. It does
// not reflect GC-driven cleanup, which is observable only through the
// removal hooks themselves.
func (s *LoggingScope) Closed() bool { return s.closed.Load() }

// onClose registers a removal hook that fires exactly once, either when
// Close is called or when the scope becomes unreachable. It is the
// mechanism sitemap.LogSiteMap uses to evict entries scoped to a
// LoggingScope (see LogSiteGroupingKey in metadata.go).
func (s *LoggingScope) onClose(hook func()) {
	s.key.addHook(hook)
}

// OnClose exposes onClose to other flogger packages (sitemap) without
// widening the LoggingScope API surface to external users.
func (s *LoggingScope) OnClose(hook func()) { s.onClose(hook) }

// SpecializedLogSiteKey augments a delegate LogSiteKey with a scope
// qualifier. Equality is (delegate-equal AND qualifier-equal); hash is
// hash(delegate) XOR hash(qualifier) so the order in which a site is
// specialized by multiple scopes does not affect the final hash.
// Specialization never equals its own delegate.
type SpecializedLogSiteKey struct {
	delegate  LogSiteKey
	qualifier *scopeKey
}

// Specialize returns a key that is equal only to another specialization
// of the same delegate by the same qualifying scope.
func Specialize(delegate LogSiteKey, scope *LoggingScope) SpecializedLogSiteKey {
	return SpecializedLogSiteKey{delegate: delegate, qualifier: scope.key}
}

func (SpecializedLogSiteKey) logSiteKey() {}

// Equal reports whether two values usable as LogSiteKey are the same
// key, accounting for specialization.
func Equal(a, b LogSiteKey) bool {
	sa, aOK := a.(SpecializedLogSiteKey)
	sb, bOK := b.(SpecializedLogSiteKey)
	if aOK != bOK {
		return false
	}
	if aOK {
		return sa.qualifier == sb.qualifier && Equal(sa.delegate, sb.delegate)
	}
	return a == b
}

// Hash returns a stable hash for any LogSiteKey, following the XOR
// composition rule for specialized keys.
func Hash(k LogSiteKey) uint64 {
	switch v := k.(type) {
	case LogSite:
		return v.Hash()
	case SpecializedLogSiteKey:
		return Hash(v.delegate) ^ scopeKeyHash(v.qualifier)
	default:
		return 0
	}
}

func scopeKeyHash(k *scopeKey) uint64 {
	// Pointer identity hashed with a cheap mix; the scopeKey is never
	// compared by label, only by identity, so any stable function of
	// the pointer value is sufficient.
	p := uint64(uintptr(unsafe.Pointer(k)))
	p ^= p >> 33
	p *= 0xff51afd7ed558ccd
	p ^= p >> 33
	return p
}
