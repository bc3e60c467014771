// Package resilient wraps a core.Backend with circuit-breaker
// protection, grounded on the teacher's sinks/circuit_breaker.go:
// the same closed/open/half-open state machine and failure/success
// thresholds, adapted from the sink's fire-and-forget Emit to a
// Backend's error-returning Log.
package resilient

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/corelog/flogger/core"
	"github.com/corelog/flogger/internal/diag"
)

// CircuitState is the circuit breaker's current mode.
type CircuitState int32

const (
	// CircuitClosed passes every statement through to the delegate.
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects every statement without touching the delegate.
	CircuitOpen
	// CircuitHalfOpen passes statements through as trials until
	// SuccessThreshold of them succeed (closing the circuit) or one fails
	// (reopening it).
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Options configures a Backend.
type Options struct {
	Name             string
	FailureThreshold int           // failures before opening; default 5
	SuccessThreshold int           // successes in half-open before closing; default 2
	ResetTimeout     time.Duration // time before trying half-open; default 30s
	OnStateChange    func(from, to CircuitState)
}

// Backend decorates a delegate core.Backend with a circuit breaker.
// While open, Log returns core.WrapLoggingException'd error without
// calling the delegate at all, so a persistently failing sink cannot
// keep blocking or slowing down the caller.
type Backend struct {
	delegate core.Backend
	name     string

	failureThreshold int
	successThreshold int
	resetTimeout     time.Duration
	onStateChange    func(from, to CircuitState)

	state        atomic.Int32
	failures     atomic.Int32
	successes    atomic.Int32
	lastFailTime atomic.Int64

	mu sync.Mutex
}

// New wraps delegate with default thresholds (5 failures to open, 2
// successes in half-open to close, 30s reset timeout).
func New(delegate core.Backend) *Backend {
	return NewWithOptions(delegate, Options{})
}

// NewWithOptions wraps delegate with custom thresholds.
func NewWithOptions(delegate core.Backend, opts Options) *Backend {
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = 5
	}
	if opts.SuccessThreshold <= 0 {
		opts.SuccessThreshold = 2
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = 30 * time.Second
	}
	if opts.Name == "" {
		opts.Name = delegate.Name()
	}
	return &Backend{
		delegate:         delegate,
		name:             opts.Name,
		failureThreshold: opts.FailureThreshold,
		successThreshold: opts.SuccessThreshold,
		resetTimeout:     opts.ResetTimeout,
		onStateChange:    opts.OnStateChange,
	}
}

func (b *Backend) Name() string { return b.name }

func (b *Backend) IsLoggable(level core.Level) bool { return b.delegate.IsLoggable(level) }

// Log routes data through the circuit breaker's current state,
// recovering from a delegate panic the same way the teacher's sink
// recovers from a wrapped sink panicking.
func (b *Backend) Log(data core.LogData) error {
	switch b.getState() {
	case CircuitOpen:
		if b.shouldAttemptReset() {
			b.transitionToHalfOpen()
			return b.attemptLog(data)
		}
		diag.Printf("[resilient:%s] dropping statement at site %s: circuit open", b.name, data.LogSite)
		return core.WrapLoggingException(errCircuitOpen)
	default:
		return b.attemptLog(data)
	}
}

func (b *Backend) attemptLog(data core.LogData) (err error) {
	success := true
	func() {
		defer func() {
			if r := recover(); r != nil {
				success = false
				err = core.WrapLoggingException(panicError{r})
			}
		}()
		err = b.delegate.Log(data)
		success = err == nil
	}()

	if success {
		b.recordSuccess()
	} else {
		b.recordFailure()
	}
	return err
}

func (b *Backend) HandleError(err error, data core.LogData) error {
	return b.delegate.HandleError(err, data)
}

func (b *Backend) recordSuccess() {
	switch b.getState() {
	case CircuitHalfOpen:
		if int(b.successes.Add(1)) >= b.successThreshold {
			b.transitionToClosed()
		}
	case CircuitClosed:
		b.failures.Store(0)
	}
}

func (b *Backend) recordFailure() {
	b.lastFailTime.Store(time.Now().UnixNano())
	switch b.getState() {
	case CircuitClosed:
		if int(b.failures.Add(1)) >= b.failureThreshold {
			b.transitionToOpen()
		}
	case CircuitHalfOpen:
		b.transitionToOpen()
	}
}

func (b *Backend) shouldAttemptReset() bool {
	lastFail := b.lastFailTime.Load()
	if lastFail == 0 {
		return false
	}
	return time.Since(time.Unix(0, lastFail)) >= b.resetTimeout
}

func (b *Backend) transitionToOpen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := CircuitState(b.state.Load())
	if old != CircuitOpen {
		b.state.Store(int32(CircuitOpen))
		b.failures.Store(0)
		b.successes.Store(0)
		b.notify(old, CircuitOpen)
	}
}

func (b *Backend) transitionToHalfOpen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := CircuitState(b.state.Load())
	if old == CircuitOpen {
		b.state.Store(int32(CircuitHalfOpen))
		b.successes.Store(0)
		b.failures.Store(0)
		b.notify(old, CircuitHalfOpen)
	}
}

func (b *Backend) transitionToClosed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	old := CircuitState(b.state.Load())
	if old != CircuitClosed {
		b.state.Store(int32(CircuitClosed))
		b.failures.Store(0)
		b.successes.Store(0)
		b.lastFailTime.Store(0)
		b.notify(old, CircuitClosed)
	}
}

func (b *Backend) notify(from, to CircuitState) {
	diag.Printf("[resilient:%s] circuit %s (was %s)", b.name, to, from)
	if b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}

func (b *Backend) getState() CircuitState { return CircuitState(b.state.Load()) }

// State returns the circuit's current state.
func (b *Backend) State() CircuitState { return b.getState() }

var errCircuitOpen = circuitOpenError{}

type circuitOpenError struct{}

func (circuitOpenError) Error() string { return "resilient: circuit breaker is open" }

type panicError struct{ value any }

func (p panicError) Error() string {
	return "resilient: delegate backend panicked: " + toString(p.value)
}

func toString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "non-error panic value"
}
