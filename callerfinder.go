package flogger

import (
	"runtime"
	"strings"

	"github.com/corelog/flogger/core"
)

// loggingAPIPrefixes lists the fully-qualified method prefixes that
// count as "inside the logging API" for stack-walk purposes (spec.md
// §4.8): frames belonging to LogContext's fluent chain or Logger's
// factory methods are skipped, and the first frame above them is
// reported as the call site.
var loggingAPIPrefixes = []string{
	"github.com/corelog/flogger.(*LogContext).",
	"github.com/corelog/flogger.(*Logger).",
}

// stackCallerFinder implements core.CallerFinder via runtime.Callers.
// It is the C13 "native stack-walk" variant spec.md §4.8 allows (as
// opposed to an exception-based stack capture).
type stackCallerFinder struct{}

// NewStackCallerFinder returns the default, stack-walking CallerFinder.
func NewStackCallerFinder() core.CallerFinder { return stackCallerFinder{} }

const maxCallerSearchDepth = 64

func (stackCallerFinder) FindLogSite(loggingAPI string, skipFrames int) core.LogSite {
	pc := make([]uintptr, maxCallerSearchDepth)
	n := runtime.Callers(2+skipFrames, pc)
	if n == 0 {
		return core.InvalidLogSite
	}
	frames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := frames.Next()
		if !isLoggingAPIFrame(frame.Function, loggingAPI) {
			class, method := splitFunction(frame.Function)
			return core.NewLogSite(class, method, frame.Line, frame.File)
		}
		if !more {
			break
		}
	}
	return core.InvalidLogSite
}

func isLoggingAPIFrame(function, loggingAPI string) bool {
	if loggingAPI != "" && strings.HasPrefix(function, loggingAPI) {
		return true
	}
	for _, prefix := range loggingAPIPrefixes {
		if strings.HasPrefix(function, prefix) {
			return true
		}
	}
	return false
}

// splitFunction divides a runtime.Frame's fully-qualified function name
// into a class (package + optional receiver type) and a bare method
// name, splitting at the last '.' — safe even when the receiver itself
// contains dots, since Go always appends the method name last.
func splitFunction(function string) (class, method string) {
	i := strings.LastIndexByte(function, '.')
	if i < 0 {
		return function, ""
	}
	return function[:i], function[i+1:]
}
