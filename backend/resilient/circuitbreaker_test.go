package resilient_test

import (
	"errors"
	"testing"
	"time"

	"github.com/corelog/flogger/backend/resilient"
	"github.com/corelog/flogger/core"
)

type flakyBackend struct {
	fail bool
}

func (f *flakyBackend) Name() string                         { return "flaky" }
func (f *flakyBackend) IsLoggable(core.Level) bool            { return true }
func (f *flakyBackend) HandleError(err error, _ core.LogData) error { return err }
func (f *flakyBackend) Log(core.LogData) error {
	if f.fail {
		return errors.New("boom")
	}
	return nil
}

func TestCircuitOpensAfterThreshold(t *testing.T) {
	delegate := &flakyBackend{fail: true}
	b := resilient.NewWithOptions(delegate, resilient.Options{
		FailureThreshold: 3,
		ResetTimeout:     time.Hour,
	})

	for i := 0; i < 3; i++ {
		if err := b.Log(core.LogData{}); err == nil {
			t.Fatalf("Log() call %d: want error from delegate", i)
		}
	}
	if b.State() != resilient.CircuitOpen {
		t.Fatalf("State() = %v, want CircuitOpen after %d failures", b.State(), 3)
	}

	// While open and before resetTimeout elapses, the delegate must not
	// be consulted at all.
	delegate.fail = false
	if err := b.Log(core.LogData{}); err == nil {
		t.Errorf("Log() while circuit open should still report an error")
	}
}

func TestCircuitRecoversThroughHalfOpen(t *testing.T) {
	delegate := &flakyBackend{fail: true}
	b := resilient.NewWithOptions(delegate, resilient.Options{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		ResetTimeout:     time.Millisecond,
	})

	if err := b.Log(core.LogData{}); err == nil {
		t.Fatalf("Log() want error to trip the breaker")
	}
	if b.State() != resilient.CircuitOpen {
		t.Fatalf("State() = %v, want CircuitOpen", b.State())
	}

	time.Sleep(5 * time.Millisecond)
	delegate.fail = false
	if err := b.Log(core.LogData{}); err != nil {
		t.Fatalf("Log() after reset timeout = %v, want nil (half-open trial succeeds)", err)
	}
	if b.State() != resilient.CircuitClosed {
		t.Errorf("State() = %v, want CircuitClosed after a successful half-open trial", b.State())
	}
}
