package flogger_test

import (
	"errors"
	"testing"

	"github.com/corelog/flogger"
	"github.com/corelog/flogger/backend/memory"
	"github.com/corelog/flogger/core"
)

func TestEveryNFiresOnFirstAndEveryNth(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem))

	for i := 0; i < 7; i++ {
		logger.AtInfo().Every(3).Log("tick %d", i)
	}

	// Invocations 1, 4, 7 (1-indexed) should fire: that's 3 of the 7 calls.
	if got := mem.Count(); got != 3 {
		t.Errorf("Every(3) over 7 calls fired %d times, want 3", got)
	}
}

func TestEveryOneIsANoop(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem))

	for i := 0; i < 4; i++ {
		logger.AtInfo().Every(1).Log("tick %d", i)
	}

	if got := mem.Count(); got != 4 {
		t.Errorf("Every(1) should not rate limit, got %d events, want 4", got)
	}
}

func TestWithCauseAttachesErrorToRecord(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem))
	boom := errors.New("boom")

	logger.AtError().WithCause(boom).Log("failed")

	last, ok := mem.Last()
	if !ok || last.Cause != boom {
		t.Errorf("recorded Cause = %v, want %v", last.Cause, boom)
	}
}

func TestWithAttachesMetadataToRecord(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem))
	key := core.KeyOf[string]("request_id")

	logger.AtInfo().With(key, "abc-123").Log("handled")

	last, _ := mem.Last()
	if got, ok := last.Metadata.FindValue(key); !ok || got != "abc-123" {
		t.Errorf("Metadata.FindValue(request_id) = %v, %v, want abc-123, true", got, ok)
	}
}

func TestWithInjectedLogSiteFirstCallWins(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem))
	first := core.NewLogSite("pkg.Type", "First", 10, "a.go")
	second := core.NewLogSite("pkg.Type", "Second", 20, "b.go")

	logger.AtInfo().WithInjectedLogSite(first).WithInjectedLogSite(second).Log("msg")

	last, _ := mem.Last()
	if last.LogSite != first {
		t.Errorf("LogSite = %v, want the first injected site %v", last.LogSite, first)
	}
}

func TestNoopChainNeverDispatches(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem), flogger.WithMinimumLevel(core.ErrorLevel))

	logger.At(core.DebugLevel).
		WithCause(errors.New("ignored")).
		Every(2).
		Sample(2).
		Log("never recorded")

	if mem.Count() != 0 {
		t.Errorf("no-op chain dispatched %d events, want 0", mem.Count())
	}
}

func TestPerScopeSpecializesRateLimiterState(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem))
	a := core.NewLoggingScope("tenant-a")
	b := core.NewLoggingScope("tenant-b")

	// Each scope gets its own counting-limiter instance, so both fire
	// on the first call despite sharing a log site.
	for _, scope := range []*core.LoggingScope{a, b} {
		logger.AtInfo().Every(2).Per(scope).Log("scoped to %s", scope.Label())
	}

	if got := mem.Count(); got != 2 {
		t.Errorf("first call under two distinct scopes fired %d times, want 2", got)
	}
}
