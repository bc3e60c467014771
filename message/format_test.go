package message

import (
	"strings"
	"testing"
)

func TestFormatImplicitArgs(t *testing.T) {
	got, err := Format("%s is %d", []any{"Ada", 36})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ada is 36" {
		t.Errorf("Format = %q", got)
	}
}

func TestFormatExplicitIndexReordersArgs(t *testing.T) {
	got, err := Format("%2$s before %1$s", []any{"second", "first"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "first before second" {
		t.Errorf("Format = %q", got)
	}
}

func TestFormatRelativeIndexReusesPreviousArg(t *testing.T) {
	got, err := Format("%s then %<s again", []any{"x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "x then x again" {
		t.Errorf("Format = %q", got)
	}
}

func TestFormatTypeMismatchRendersInlinePlaceholder(t *testing.T) {
	got, err := Format("count=%d", []any{"not a number"})
	if err != nil {
		t.Fatalf("a FormatError must never escape Format: %v", err)
	}
	if !strings.Contains(got, "INVALID") {
		t.Errorf("Format = %q, want an inline INVALID placeholder", got)
	}
}

func TestFormatMissingArgumentRendersInlinePlaceholder(t *testing.T) {
	got, err := Format("%s and %s", []any{"only one"})
	if err != nil {
		t.Fatalf("a missing argument must never escape Format: %v", err)
	}
	if !strings.Contains(got, "INVALID") {
		t.Errorf("Format = %q, want an inline INVALID placeholder", got)
	}
}

func TestFormatMalformedTemplateReturnsError(t *testing.T) {
	if _, err := Format("%z", nil); err == nil {
		t.Errorf("an unrecognized conversion should return a parse error")
	}
}

func TestFormatUpperCasePropagation(t *testing.T) {
	got, err := Format("%S", []any{"shout"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "SHOUT" {
		t.Errorf("Format = %q, want %q", got, "SHOUT")
	}
}

func TestFormatWidthAndZeroPadWithSign(t *testing.T) {
	got, err := Format("%05d", []any{-7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "-0007" {
		t.Errorf("Format = %q, want %q", got, "-0007")
	}
}

func TestFormatRecoversPanickingError(t *testing.T) {
	got, err := Format("%s", []any{panickyError{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "boom") {
		t.Errorf("Format = %q, want the recovered panic message embedded", got)
	}
}

type panickyError struct{}

func (panickyError) Error() string { panic("boom") }

var _ error = panickyError{}
