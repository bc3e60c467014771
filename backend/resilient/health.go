package resilient

import (
	"context"
	"fmt"
	"time"
)

// HealthCheckable is implemented by a delegate backend that can report
// its own health beyond "Log didn't error", grounded on the teacher's
// sinks.HealthCheckable (sinks/health.go).
type HealthCheckable interface {
	HealthCheck(ctx context.Context) error
}

// Health reports this Backend's current health: the circuit state
// itself, plus the delegate's own HealthCheck if it implements
// HealthCheckable.
func (b *Backend) Health(ctx context.Context) error {
	switch b.getState() {
	case CircuitOpen:
		return fmt.Errorf("resilient: circuit %q is open", b.name)
	default:
		if hc, ok := b.delegate.(HealthCheckable); ok {
			return hc.HealthCheck(ctx)
		}
		return nil
	}
}

// StartHealthPolling runs Health on interval until ctx is canceled,
// invoking callback with each result, grounded on the teacher's
// RouterSink.PeriodicHealthCheck (sinks/health.go).
func (b *Backend) StartHealthPolling(ctx context.Context, interval time.Duration, callback func(error)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := b.Health(ctx)
				if callback != nil {
					callback(err)
				}
			}
		}
	}()
}
