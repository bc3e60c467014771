package aggregate_test

import (
	"testing"
	"time"

	"github.com/corelog/flogger"
	"github.com/corelog/flogger/aggregate"
	"github.com/corelog/flogger/backend/memory"
	"github.com/corelog/flogger/core"
	"go.uber.org/goleak"
)

// TestCloseStopsTheFlushGoroutine guards against the one goroutine this
// package starts (AggregatedLogContext.run) outliving Close.
func TestCloseStopsTheFlushGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	mem := memory.New("mem")
	logger := flogger.New(flogger.WithBackend(mem))
	a := aggregate.New(logger, core.InformationLevel, "count for %s is %d", aggregate.DefaultIncrementOne, aggregate.Threshold(1000), time.Millisecond)

	a.IncreaseCounter("widgets")
	a.Close()
}
