package flogger_test

import (
	"testing"

	"github.com/corelog/flogger"
	"github.com/corelog/flogger/backend/memory"
	"github.com/corelog/flogger/core"
)

func TestBuildRequiresBackend(t *testing.T) {
	_, err := flogger.Build(flogger.WithName("svc"))
	if err == nil {
		t.Fatal("Build() without WithBackend should return an error")
	}
}

func TestNewPanicsWithoutBackend(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New() without WithBackend should panic")
		}
	}()
	flogger.New(flogger.WithName("svc"))
}

func TestWithBackendRejectsNil(t *testing.T) {
	_, err := flogger.Build(flogger.WithBackend(nil))
	if err == nil {
		t.Error("WithBackend(nil) should surface as a Build error")
	}
}

func TestAtBelowMinimumLevelIsNoop(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem), flogger.WithMinimumLevel(core.WarningLevel))

	logger.At(core.DebugLevel).Log("should not be recorded")

	if mem.Count() != 0 {
		t.Errorf("statement below minimum level was recorded: %d events", mem.Count())
	}
}

func TestAtAboveMinimumLevelIsRecorded(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem), flogger.WithMinimumLevel(core.InformationLevel), flogger.WithName("svc"))

	logger.AtWarning().Log("disk at %d%%", 91)

	if mem.Count() != 1 {
		t.Fatalf("expected 1 recorded event, got %d", mem.Count())
	}
	last, _ := mem.Last()
	if last.LoggerName != "svc" || last.Level != core.WarningLevel {
		t.Errorf("recorded event = %+v, want LoggerName=svc Level=WarningLevel", last)
	}
}

func TestIsEnabledReflectsBackendGate(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem), flogger.WithMinimumLevel(core.ErrorLevel))

	if logger.At(core.DebugLevel).IsEnabled() {
		t.Error("IsEnabled() should be false below minimum level")
	}
	if !logger.At(core.ErrorLevel).IsEnabled() {
		t.Error("IsEnabled() should be true at/above minimum level")
	}
}
