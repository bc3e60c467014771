// Package flogger is the fluent, stateful structured-logging core
// (spec.md §1): a Logger builds LogContext values via At (and the
// level-named convenience wrappers), whose chained builder methods
// configure rate limiting, scoping, and cause-attachment before a
// terminal Log call dispatches a LogData record to a core.Backend.
package flogger

import (
	"sync/atomic"
	"time"

	"github.com/corelog/flogger/core"
	"github.com/corelog/flogger/ratelimit"
)

// Logger is the entry point of the fluent API (spec.md component C10's
// owning type, together with LogContext). It is immutable once built;
// concurrent use from many goroutines is safe.
type Logger struct {
	name     string
	minLevel core.Level
	backend  core.Backend
	platform core.Platform
	provider core.ContextDataProvider

	depth atomic.Int32 // C11 reentrancy guard, shared across goroutines using this Logger

	countingSites  *siteLimiters[*ratelimit.Counting]
	timeBasedSites *siteLimiters[*ratelimit.TimeBased]
	samplingSites  *siteLimiters[*ratelimit.Sampling]
}

// New builds a Logger, panicking if any option reports an error. This
// mirrors the teacher's New/Build split (logger.go): New is for callers
// who treat misconfiguration as a programming error, Build is for
// callers who want to handle it.
func New(opts ...Option) *Logger {
	l, err := Build(opts...)
	if err != nil {
		panic(err)
	}
	return l
}

// Build builds a Logger, returning an error instead of panicking if any
// option failed (spec.md §7: configuration errors are reported, not
// thrown, unless the caller asks otherwise via New).
func Build(opts ...Option) (*Logger, error) {
	cfg := &loggerConfig{minLevel: core.InformationLevel}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if cfg.backend == nil {
		return nil, errBackendRequired
	}
	platform := cfg.platform
	if platform == nil {
		platform = defaultPlatform{}
	}
	return &Logger{
		name:           cfg.name,
		minLevel:       cfg.minLevel,
		backend:        cfg.backend,
		platform:       platform,
		provider:       cfg.contextProvider,
		countingSites:  newSiteLimiters[*ratelimit.Counting](),
		timeBasedSites: newSiteLimiters[*ratelimit.TimeBased](),
		samplingSites:  newSiteLimiters[*ratelimit.Sampling](),
	}, nil
}

// At starts a fluent chain at the given level. The returned LogContext
// is a one-shot builder: exactly one terminal Log call should follow.
func (l *Logger) At(level core.Level) *LogContext {
	enabledByLevel := l.backend.IsLoggable(level) && level >= l.minLevel
	forced := false
	if l.provider != nil {
		forced = l.provider.ShouldForceLogging(l.name, level, enabledByLevel)
	}
	if !enabledByLevel && !forced {
		return noopLogContext(l)
	}
	return &LogContext{
		logger:    l,
		level:     level,
		wasForced: forced && !enabledByLevel,
		metadata:  core.NewMutableMetadata(),
	}
}

// AtVerbose is shorthand for At(core.VerboseLevel).
func (l *Logger) AtVerbose() *LogContext { return l.At(core.VerboseLevel) }

// AtDebug is shorthand for At(core.DebugLevel).
func (l *Logger) AtDebug() *LogContext { return l.At(core.DebugLevel) }

// AtInfo is shorthand for At(core.InformationLevel).
func (l *Logger) AtInfo() *LogContext { return l.At(core.InformationLevel) }

// AtWarning is shorthand for At(core.WarningLevel).
func (l *Logger) AtWarning() *LogContext { return l.At(core.WarningLevel) }

// AtError is shorthand for At(core.ErrorLevel).
func (l *Logger) AtError() *LogContext { return l.At(core.ErrorLevel) }

// AtFatal is shorthand for At(core.FatalLevel).
func (l *Logger) AtFatal() *LogContext { return l.At(core.FatalLevel) }

// Name returns the logger's configured name.
func (l *Logger) Name() string { return l.name }

// defaultPlatform is the process-local fallback used when a Logger is
// built without WithPlatform: a wall clock, the stack-walking caller
// finder, and a backend registry that always reports "not found" since
// a bare Logger dispatches straight to the backend it was built with
// rather than resolving one by name (spec.md §9's single-registry
// DefaultPlatform decision is realized fully in the platform package;
// this is the zero-dependency fallback for Loggers that don't need it).
type defaultPlatform struct{}

func (defaultPlatform) NowNanos() int64 { return time.Now().UnixNano() }

func (defaultPlatform) CallerFinder() core.CallerFinder { return NewStackCallerFinder() }

func (defaultPlatform) Backend(name string) (core.Backend, error) {
	return nil, errNoBackendRegistry
}
