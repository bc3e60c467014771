package core

import "reflect"

// LogSiteGroupingKey is the well-known, repeatable metadata key that
// per(scope) (see the root flogger package) uses to record which
// LoggingScope values a statement is grouped under. sitemap.LogSiteMap
// scans for this key on first insertion to register scope-close
// removal hooks (spec.md §4.1).
var LogSiteGroupingKey = NewMetadataKey("log_site_grouping_key", reflect.TypeOf((*LoggingScope)(nil)), true)

type entry struct {
	key   *MetadataKey
	value any
}

// Metadata is a read-only, ordered multiset of (key, value) pairs.
// Order is insertion order. A non-repeating key appears at most once; a
// repeating key may appear multiple times with duplicates preserving
// order. Values are always non-nil.
type Metadata struct {
	entries []entry
}

// Size returns the number of (key, value) pairs.
func (m Metadata) Size() int { return len(m.entries) }

// KeyAt returns the key at the given index.
func (m Metadata) KeyAt(i int) *MetadataKey { return m.entries[i].key }

// ValueAt returns the value at the given index.
func (m Metadata) ValueAt(i int) any { return m.entries[i].value }

// FindValue returns the first value stored under key, if any.
func (m Metadata) FindValue(key *MetadataKey) (any, bool) {
	for _, e := range m.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// FindAll returns every value stored under key, in insertion order.
// It is the right accessor for repeatable keys; for non-repeating keys
// it returns at most one element.
func (m Metadata) FindAll(key *MetadataKey) []any {
	var out []any
	for _, e := range m.entries {
		if e.key == key {
			out = append(out, e.value)
		}
	}
	return out
}

// Keys returns the distinct keys present, in first-occurrence order.
func (m Metadata) Keys() []*MetadataKey {
	seen := make(map[*MetadataKey]bool, len(m.entries))
	var out []*MetadataKey
	for _, e := range m.entries {
		if !seen[e.key] {
			seen[e.key] = true
			out = append(out, e.key)
		}
	}
	return out
}

// MutableMetadata is an append-only builder for Metadata, with one
// exception: adding a non-repeating key that is already present
// replaces the existing value in place rather than appending, so
// relative order among the remaining entries is preserved.
type MutableMetadata struct {
	entries []entry
}

// NewMutableMetadata returns an empty, ready-to-use builder.
func NewMutableMetadata() *MutableMetadata {
	return &MutableMetadata{}
}

// Add appends (or, for a non-repeating key already present, replaces in
// place) a value under key. Both key and value must be non-nil; passing
// either is a programming error and panics, per spec.md §7.
func (m *MutableMetadata) Add(key *MetadataKey, value any) *MutableMetadata {
	if key == nil {
		panic("flogger: metadata key must not be nil")
	}
	if value == nil {
		panic("flogger: metadata value must not be nil")
	}
	if !key.repeatable {
		for i := range m.entries {
			if m.entries[i].key == key {
				m.entries[i].value = value
				return m
			}
		}
	}
	m.entries = append(m.entries, entry{key: key, value: value})
	return m
}

// RemoveAll removes every entry stored under key, preserving the
// relative order of the entries that remain.
func (m *MutableMetadata) RemoveAll(key *MetadataKey) {
	out := m.entries[:0]
	for _, e := range m.entries {
		if e.key != key {
			out = append(out, e)
		}
	}
	m.entries = out
}

// FindValue returns the first value stored under key, if any.
func (m *MutableMetadata) FindValue(key *MetadataKey) (any, bool) {
	for _, e := range m.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// Size returns the number of (key, value) pairs currently held.
func (m *MutableMetadata) Size() int { return len(m.entries) }

// Snapshot returns an immutable Metadata view over the current entries.
// The returned value shares no backing storage with the builder: later
// mutation of m never changes a previously taken Snapshot.
func (m *MutableMetadata) Snapshot() Metadata {
	cp := make([]entry, len(m.entries))
	copy(cp, m.entries)
	return Metadata{entries: cp}
}

// EmptyMetadata is the canonical zero-length Metadata value.
var EmptyMetadata = Metadata{}
