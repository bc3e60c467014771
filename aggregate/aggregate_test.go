package aggregate_test

import (
	"testing"
	"time"

	"github.com/corelog/flogger"
	"github.com/corelog/flogger/aggregate"
	"github.com/corelog/flogger/backend/memory"
	"github.com/corelog/flogger/core"
)

func TestIncreaseCounterDefaultZeroIsANoOpTouch(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem))

	a := aggregate.New(logger, core.InformationLevel, "count for %s is %d", aggregate.DefaultIncrementZero, aggregate.Threshold(1), time.Hour)
	defer a.Close()

	a.IncreaseCounter("widgets")
	a.IncreaseCounter("widgets")

	// The flush interval is an hour, so no flush runs during this test;
	// the short sleep only gives a stray flush a chance to show up.
	time.Sleep(10 * time.Millisecond)
	if mem.Count() != 0 {
		t.Errorf("DefaultIncrementZero: expected no flush yet, got %d events", mem.Count())
	}
}

func TestIncreaseCounterDefaultOneReachesThreshold(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem))

	a := aggregate.New(logger, core.InformationLevel, "count for %s is %d", aggregate.DefaultIncrementOne, aggregate.Threshold(2), 5*time.Millisecond)
	defer a.Close()

	a.IncreaseCounter("widgets")
	a.IncreaseCounter("widgets")

	deadline := time.After(time.Second)
	for mem.Count() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected a flush within the deadline")
		case <-time.After(time.Millisecond):
		}
	}

	last, ok := mem.Last()
	if !ok {
		t.Fatal("expected a captured record")
	}
	if last.Args[0] != "widgets" || last.Args[1] != int64(2) {
		t.Errorf("flushed record args = %v, want [widgets 2]", last.Args)
	}
}

func TestExplicitDeltaOverridesDefault(t *testing.T) {
	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem))

	a := aggregate.New(logger, core.InformationLevel, "count for %s is %d", aggregate.DefaultIncrementZero, aggregate.Threshold(3), 5*time.Millisecond)
	defer a.Close()

	a.IncreaseCounter("orders", 3)

	deadline := time.After(time.Second)
	for mem.Count() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected a flush within the deadline")
		case <-time.After(time.Millisecond):
		}
	}
}
