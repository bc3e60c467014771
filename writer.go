package flogger

import (
	"errors"

	"github.com/corelog/flogger/core"
	"github.com/corelog/flogger/internal/diag"
)

// maxReentrantDepth bounds the AbstractLogger write path's reentrancy
// guard (spec.md §4.7): a backend (or anything it calls) that logs
// again through the same Logger while still inside Log trips the guard
// on its 101st nested call.
const maxReentrantDepth = 100

// write is the C11 AbstractLogger write path: backend.Log is called
// under a depth guard, and a returned error is handed to
// backend.HandleError. Only ErrLoggingException is allowed to escape
// (as a panic, per spec.md §7's "the one exception to never-throw");
// every other error is reported via internal/diag and swallowed.
//
// The guard is realized as a Logger-wide atomic counter rather than
// true per-goroutine state: Go has no cheap thread-local storage, and
// the guard's purpose — catching runaway backend-triggered recursion —
// is served just as well by a shared bound, at the cost of a
// vanishingly unlikely false trip under 100+ simultaneous in-flight
// writes on one Logger (see DESIGN.md).
func (l *Logger) write(data core.LogData) {
	depth := l.depth.Add(1)
	defer l.depth.Add(-1)

	if depth > maxReentrantDepth {
		diag.Printf("[flogger] reentrant write depth %d exceeds bound %d at site %s; dropping statement", depth, maxReentrantDepth, data.LogSite)
		return
	}

	err := l.backend.Log(data)
	if err == nil {
		return
	}

	herr := l.backend.HandleError(err, data)
	if herr == nil {
		return
	}
	if errors.Is(herr, core.ErrLoggingException) {
		panic(herr)
	}
	diag.Printf("[flogger] backend %q reported an error handling site %s: %v", l.backend.Name(), data.LogSite, herr)
}
