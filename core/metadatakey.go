package core

import (
	"fmt"
	"reflect"
	"regexp"
)

var labelPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// MetadataKey is an immutable, identity-compared, typed and labeled
// identity for a structured logging attribute. Keys are compared by
// identity (pointer equality), never by label; canonical keys are
// typically process-wide singletons constructed once at init time.
type MetadataKey struct {
	label      string
	valueType  reflect.Type
	repeatable bool
	bloomMask  uint64
}

// idSeq hands out monotonically increasing identities used only to seed
// the Bloom mask derivation; it has no bearing on key equality, which
// remains pointer identity.
var idSeq uint64

// NewMetadataKey constructs a new, singleton-intended MetadataKey. It
// panics if the label does not match [a-z][a-z0-9_]*, matching the
// "programming error, surfaces at the call site" policy of spec.md §7.
func NewMetadataKey(label string, valueType reflect.Type, repeatable bool) *MetadataKey {
	if !labelPattern.MatchString(label) {
		panic(fmt.Sprintf("metadata key label %q does not match [a-z][a-z0-9_]*", label))
	}
	idSeq++
	return &MetadataKey{
		label:      label,
		valueType:  valueType,
		repeatable: repeatable,
		bloomMask:  bloomMaskFor(identityHash(idSeq, label)),
	}
}

// KeyOf is a generic convenience constructor for a single-valued key of
// type T.
func KeyOf[T any](label string) *MetadataKey {
	var zero T
	return NewMetadataKey(label, reflect.TypeOf(zero), false)
}

// RepeatedKeyOf is a generic convenience constructor for a repeatable
// key of type T.
func RepeatedKeyOf[T any](label string) *MetadataKey {
	var zero T
	return NewMetadataKey(label, reflect.TypeOf(zero), true)
}

// Label returns the key's label.
func (k *MetadataKey) Label() string { return k.label }

// ValueType returns the declared value type of the key.
func (k *MetadataKey) ValueType() reflect.Type { return k.valueType }

// Repeatable reports whether the key may appear more than once in a
// single Metadata sequence.
func (k *MetadataKey) Repeatable() bool { return k.repeatable }

// BloomMask returns the 64-bit Bloom filter mask derived from this
// key's identity at construction time. Exactly 5 bits are set.
func (k *MetadataKey) BloomMask() uint64 { return k.bloomMask }

// Cast asserts that value has the key's declared value type, panicking
// loudly on mismatch per spec.md §7 ("programming errors... throw at
// the call site").
func (k *MetadataKey) Cast(value any) any {
	if k.valueType == nil {
		return value
	}
	vt := reflect.TypeOf(value)
	if vt == nil || !vt.AssignableTo(k.valueType) {
		panic(fmt.Sprintf("metadata key %q: cannot cast value of type %v to %v", k.label, vt, k.valueType))
	}
	return value
}

// GetValue performs a typed lookup of the first value of key in the
// given Metadata, returning ok=false if absent or if the stored value
// does not assert to T.
func GetValue[T any](m Metadata, key *MetadataKey) (T, bool) {
	var zero T
	v, ok := m.FindValue(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// identityHash mixes a monotonic sequence number with the label to
// produce a stable-enough source of bits for the Bloom mask. Using the
// sequence number (rather than a pointer address, which Go does not
// expose stably) keeps mask derivation deterministic per process run
// while still being a function of the key's construction-time identity.
func identityHash(seq uint64, label string) uint64 {
	h := uint64(1469598103934665603) // FNV offset basis
	h ^= seq
	h *= 1099511628211
	for i := 0; i < len(label); i++ {
		h ^= uint64(label[i])
		h *= 1099511628211
	}
	return h
}

// bloomMaskFor derives a 64-bit mask with exactly 5 bits set by
// consuming successive 6-bit slices of the identity hash (each slice
// selects a bit position in [0,63]); if a slice collides with an
// already-set bit, the next 6-bit slice is consumed instead so the
// result always has exactly 5 bits set.
func bloomMaskFor(h uint64) uint64 {
	var mask uint64
	bitsSet := 0
	shift := uint(0)
	for bitsSet < 5 {
		if shift+6 > 64 {
			// Wrap by re-mixing the hash; guarantees termination.
			h = h*6364136223846793005 + 1442695040888963407
			shift = 0
		}
		bit := uint((h >> shift) & 0x3F)
		shift += 6
		bitMask := uint64(1) << bit
		if mask&bitMask == 0 {
			mask |= bitMask
			bitsSet++
		}
	}
	return mask
}
