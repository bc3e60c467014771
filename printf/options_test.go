package printf

import "testing"

func TestParseEmptyReturnsDefaultSingleton(t *testing.T) {
	opts, err := ParseOptions("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts != Default {
		t.Errorf("ParseOptions(\"\") = %+v, want the Default singleton", opts)
	}
}

func TestParseWidthBoundary(t *testing.T) {
	if _, err := ParseOptions("999999"); err != nil {
		t.Errorf("width 999999 should parse, got error: %v", err)
	}
	if _, err := ParseOptions("1000000"); err == nil {
		t.Errorf("width 1000000 should be rejected")
	}
}

func TestParsePrecisionBoundary(t *testing.T) {
	if _, err := ParseOptions(".999999"); err != nil {
		t.Errorf("precision 999999 should parse, got error: %v", err)
	}
	if _, err := ParseOptions(".1000000"); err == nil {
		t.Errorf("precision 1000000 should be rejected")
	}
}

func TestParseRejectsDuplicateFlag(t *testing.T) {
	if _, err := ParseOptions("--5"); err == nil {
		t.Errorf("duplicate '-' flag should be rejected")
	}
}

func TestParseTreatsLeadingZeroAsZeroFlagNotWidthDigit(t *testing.T) {
	// '0' is always consumed as the zero-pad flag before width scanning
	// begins, so a width digit sequence can never itself start with '0'.
	opts, err := ParseOptions("012")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Flags&FlagZero == 0 || opts.Width != 12 {
		t.Errorf("ParseOptions(\"012\") = %+v, want zero-flag set and width 12", opts)
	}
}

func TestAppendToCanonicalFlagOrder(t *testing.T) {
	opts := Options{Flags: FlagZero | FlagLeftAlign | FlagPlus, Width: 10, Precision: 2}
	got := opts.String()
	want := "+-010.2"
	if got != want {
		t.Errorf("String() = %q, want %q (canonical order ' #(+,-0')", got, want)
	}
}

func TestRoundTripThroughParseAndAppendTo(t *testing.T) {
	src := "+-010.2"
	opts, err := ParseOptions(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := opts.String(); got != src {
		t.Errorf("round trip: ParseOptions(%q).String() = %q, want %q", src, got, src)
	}
}

func TestFilterStripsDisallowedFlagsAndFields(t *testing.T) {
	opts := Options{Flags: FlagZero | FlagPlus, Width: 10, Precision: 2}
	filtered := opts.Filter(FlagPlus, false, false)
	if filtered.Flags != FlagPlus {
		t.Errorf("Filter should retain only the allowed flags, got %v", filtered.Flags)
	}
	if filtered.Width != Unset || filtered.Precision != Unset {
		t.Errorf("Filter(allowWidth=false, allowPrecision=false) should clear width/precision, got %+v", filtered)
	}
}
