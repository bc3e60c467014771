package memory_test

import (
	"testing"

	"github.com/corelog/flogger/backend/memory"
	"github.com/corelog/flogger/core"
)

func TestBackendCapturesRecords(t *testing.T) {
	b := memory.New("mem")
	if err := b.Log(core.LogData{Level: core.InformationLevel}); err != nil {
		t.Fatalf("Log() returned %v", err)
	}
	if err := b.Log(core.LogData{Level: core.ErrorLevel}); err != nil {
		t.Fatalf("Log() returned %v", err)
	}
	if b.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", b.Count())
	}
	last, ok := b.Last()
	if !ok || last.Level != core.ErrorLevel {
		t.Errorf("Last() = %v, %v, want ErrorLevel record", last, ok)
	}
}

func TestBackendFindAndClear(t *testing.T) {
	b := memory.New("mem")
	_ = b.Log(core.LogData{Level: core.WarningLevel, LoggerName: "a"})
	_ = b.Log(core.LogData{Level: core.ErrorLevel, LoggerName: "b"})

	errs := b.Find(func(d core.LogData) bool { return d.Level == core.ErrorLevel })
	if len(errs) != 1 || errs[0].LoggerName != "b" {
		t.Errorf("Find() = %v, want single ErrorLevel record from logger b", errs)
	}

	b.Clear()
	if b.Count() != 0 {
		t.Errorf("Count() after Clear() = %d, want 0", b.Count())
	}
}

func TestBackendIsLoggableAlwaysTrue(t *testing.T) {
	b := memory.New("mem")
	if !b.IsLoggable(core.VerboseLevel) || !b.IsLoggable(core.FatalLevel) {
		t.Errorf("IsLoggable() should accept every level")
	}
}
