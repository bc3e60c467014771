package core

import "fmt"

// MetadataHandler receives callbacks from MetadataProcessor.process and
// MetadataProcessor.handle, dispatched by whether a key is repeatable.
type MetadataHandler interface {
	HandleSingle(key *MetadataKey, value any, ctx any)
	HandleRepeated(key *MetadataKey, values RepeatedValues, ctx any)
}

// RepeatedValues is a read-only view over the accumulated values of a
// repeatable key. It deliberately exposes no mutator: there is no Set
// or Append method, so attempting to mutate it is a compile error
// rather than a runtime "unsupported" panic.
type RepeatedValues struct {
	values []any
}

// Len returns the number of accumulated values.
func (r RepeatedValues) Len() int { return len(r.values) }

// At returns the value at index i, in accumulation order (scope
// entries before logged entries).
func (r RepeatedValues) At(i int) any { return r.values[i] }

// maxBloomAcceleratedEntries is the entry-count ceiling under which
// MetadataProcessor trusts its combined Bloom mask to short-circuit
// duplicate-key detection (spec.md §4.5's "lightweight" form).
const maxBloomAcceleratedEntries = 28

// MetadataProcessor merges a scope metadata sequence and a logged
// metadata sequence into a single first-occurrence-ordered view, per
// spec.md §4.5: non-repeating keys from logged shadow those in scope;
// repeating keys concatenate with scope entries first.
type MetadataProcessor struct {
	keys     []*MetadataKey
	single   map[*MetadataKey]any
	repeated map[*MetadataKey][]any
	bloom    uint64 // OR of every absorbed key's Bloom mask
	entries  int    // total entries absorbed, scope + logged
}

// NewMetadataProcessor builds the merged view of scope (read first)
// and logged (read second, shadowing non-repeating keys).
func NewMetadataProcessor(scope, logged Metadata) *MetadataProcessor {
	p := &MetadataProcessor{
		single:   make(map[*MetadataKey]any),
		repeated: make(map[*MetadataKey][]any),
	}
	p.absorb(scope)
	p.absorb(logged)
	return p
}

func (p *MetadataProcessor) absorb(m Metadata) {
	for i := 0; i < m.Size(); i++ {
		key := m.KeyAt(i)
		value := m.ValueAt(i)
		p.entries++
		p.bloom |= key.BloomMask()

		if key.Repeatable() {
			if _, seen := p.repeated[key]; !seen {
				p.noteFirstOccurrence(key)
			}
			p.repeated[key] = append(p.repeated[key], value)
			continue
		}
		if _, seen := p.single[key]; !seen {
			p.noteFirstOccurrence(key)
		}
		p.single[key] = value // logged (absorbed second) shadows scope
	}
}

func (p *MetadataProcessor) noteFirstOccurrence(key *MetadataKey) {
	p.keys = append(p.keys, key)
}

// mayContain is the Bloom-accelerated pre-check: when the processor is
// small enough and key's bit isn't even present in the combined mask,
// the key cannot have contributed any entries at all, let alone a
// duplicate — callers can skip the exact check entirely.
func (p *MetadataProcessor) mayContain(key *MetadataKey) bool {
	if p.entries > maxBloomAcceleratedEntries {
		return true // too large to trust the mask; fall through to exact lookup
	}
	return p.bloom&key.BloomMask() == key.BloomMask()
}

// KeyCount returns the number of distinct keys in the merged view.
func (p *MetadataProcessor) KeyCount() int { return len(p.keys) }

// KeySet returns every distinct key, in first-occurrence order across
// scope then logged.
func (p *MetadataProcessor) KeySet() []*MetadataKey {
	out := make([]*MetadataKey, len(p.keys))
	copy(out, p.keys)
	return out
}

// GetSingleValue returns key's value. If key is repeatable and carries
// more than one accumulated value, ok is false and err is non-nil: the
// caller must use Handle/Process to see every value instead of forcing
// a single answer.
func (p *MetadataProcessor) GetSingleValue(key *MetadataKey) (value any, ok bool, err error) {
	if !p.mayContain(key) {
		return nil, false, nil
	}
	if key.Repeatable() {
		values := p.repeated[key]
		switch len(values) {
		case 0:
			return nil, false, nil
		case 1:
			return values[0], true, nil
		default:
			return nil, false, fmt.Errorf("flogger: key %q is repeatable and has %d values; GetSingleValue cannot choose one", key.Label(), len(values))
		}
	}
	v, present := p.single[key]
	return v, present, nil
}

// Process dispatches every distinct key to handler, in first-occurrence
// order, via HandleSingle or HandleRepeated as appropriate.
func (p *MetadataProcessor) Process(handler MetadataHandler, ctx any) {
	for _, key := range p.keys {
		p.handle(key, handler, ctx)
	}
}

// Handle dispatches a single targeted key to handler, doing nothing if
// the key is absent from the merged view.
func (p *MetadataProcessor) Handle(key *MetadataKey, handler MetadataHandler, ctx any) {
	if !p.mayContain(key) {
		return
	}
	p.handle(key, handler, ctx)
}

func (p *MetadataProcessor) handle(key *MetadataKey, handler MetadataHandler, ctx any) {
	if key.Repeatable() {
		values, present := p.repeated[key]
		if !present {
			return
		}
		handler.HandleRepeated(key, RepeatedValues{values: values}, ctx)
		return
	}
	v, present := p.single[key]
	if !present {
		return
	}
	handler.HandleSingle(key, v, ctx)
}
