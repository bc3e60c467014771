package core

import (
	"reflect"
	"testing"
)

func TestMetadataKeyBloomMaskHasFiveBits(t *testing.T) {
	for i := 0; i < 200; i++ {
		key := KeyOf[string]("sample_key")
		if bits := popcount(key.BloomMask()); bits != 5 {
			t.Fatalf("iteration %d: BloomMask() has %d bits set, want 5", i, bits)
		}
	}
}

func TestMetadataKeyIdentityNotLabel(t *testing.T) {
	a := KeyOf[string]("user_id")
	b := KeyOf[string]("user_id")

	if a == b {
		t.Errorf("two keys constructed with the same label must be distinct identities")
	}
}

func TestMetadataKeyLabelValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for invalid label")
		}
	}()
	NewMetadataKey("UserId", reflect.TypeOf(""), false)
}

func TestMetadataKeyCastMismatchPanics(t *testing.T) {
	key := KeyOf[int]("retry_count")
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic casting a string to an int-typed key")
		}
	}()
	key.Cast("not an int")
}

func popcount(x uint64) int {
	n := 0
	for x != 0 {
		n += int(x & 1)
		x >>= 1
	}
	return n
}
