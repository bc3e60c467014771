package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/corelog/flogger/backend/memory"
	"github.com/corelog/flogger/core"
)

func TestBackendCountsStatementsByLevel(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := New(memory.New("mem"), reg)

	if err := b.Log(core.LogData{Level: core.InformationLevel}); err != nil {
		t.Fatalf("Log() returned %v", err)
	}
	if err := b.Log(core.LogData{Level: core.InformationLevel}); err != nil {
		t.Fatalf("Log() returned %v", err)
	}
	if err := b.Log(core.LogData{Level: core.ErrorLevel}); err != nil {
		t.Fatalf("Log() returned %v", err)
	}

	got := testutil.ToFloat64(b.statements.WithLabelValues("mem", core.InformationLevel.String()))
	if got != 2 {
		t.Errorf("InformationLevel count = %v, want 2", got)
	}
	got = testutil.ToFloat64(b.statements.WithLabelValues("mem", core.ErrorLevel.String()))
	if got != 1 {
		t.Errorf("ErrorLevel count = %v, want 1", got)
	}
}

type failingDelegate struct{ core.Backend }

func (failingDelegate) Log(core.LogData) error { return errBoom }

var errBoom = boomError{}

type boomError struct{}

func (boomError) Error() string { return "boom" }

func TestBackendCountsErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := New(failingDelegate{Backend: memory.New("mem")}, reg)

	_ = b.Log(core.LogData{Level: core.ErrorLevel})
	got := testutil.ToFloat64(b.errors.WithLabelValues("mem"))
	if got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}
