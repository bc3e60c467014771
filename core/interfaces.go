package core

// Backend is the minimal contract a pluggable logging sink must
// satisfy; it is the only external collaborator the core depends on to
// actually emit a record (spec.md §6). Concrete backends (file,
// console, Kafka, ...) live outside the core in their own packages.
type Backend interface {
	// Name identifies the backend, for diagnostics.
	Name() string
	// IsLoggable reports whether the backend would accept an event at
	// the given level, allowing the core to short-circuit before doing
	// any further work.
	IsLoggable(level Level) bool
	// Log emits data. Returning an error triggers HandleError.
	Log(data LogData) error
	// HandleError is invoked when Log returns an error. Returning
	// ErrLoggingException (see WrapLoggingException) is the only way to
	// propagate a failure out of the core; any other returned error is
	// reported via internal/diag and swallowed.
	HandleError(err error, data LogData) error
}

// ContextDataProvider supplies ambient logging context: free-form tags,
// scope-level metadata, a force-logging override, and the currently
// active LoggingScope of a given kind (spec.md §6).
type ContextDataProvider interface {
	Tags() Tags
	Metadata() Metadata
	ShouldForceLogging(loggerName string, level Level, isEnabledByLevel bool) bool
	CurrentScope(scopeType string) *LoggingScope
}

// CallerFinder computes a LogSite for the frame immediately above the
// first frame whose declaring type matches loggingAPI (spec.md §4.8,
// component C13).
type CallerFinder interface {
	// FindLogSite returns InvalidLogSite on failure. skipFrames lets a
	// caller skip a known number of frames before the search begins, as
	// an optimization.
	FindLogSite(loggingAPI string, skipFrames int) LogSite
}

// Platform is the one process-wide collaborator injected at logger
// construction (spec.md §9: "no global singletons in the core"). It
// supplies a monotonic-enough wall clock, the caller-finder fallback,
// and named backend resolution.
type Platform interface {
	NowNanos() int64
	CallerFinder() CallerFinder
	Backend(name string) (Backend, error)
}
