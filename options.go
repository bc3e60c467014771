package flogger

import (
	"fmt"

	"github.com/corelog/flogger/core"
)

// loggerConfig holds the configuration for building a Logger, filled in
// by successive Option values.
type loggerConfig struct {
	name             string
	minLevel         core.Level
	backend          core.Backend
	platform         core.Platform
	contextProvider  core.ContextDataProvider
	err              error // first error encountered while applying options
}

// Option is a functional option for configuring a Logger, grounded on
// the teacher's Option/config pattern (logger.go, options.go).
type Option func(*loggerConfig)

// WithName sets the logger's name, surfaced on every LogData record.
func WithName(name string) Option {
	return func(c *loggerConfig) { c.name = name }
}

// WithMinimumLevel sets the static minimum level a statement must meet
// to be considered enabled at all (spec.md §4.6).
func WithMinimumLevel(level core.Level) Option {
	return func(c *loggerConfig) { c.minLevel = level }
}

// WithBackend sets the Backend every enabled statement is dispatched
// to. A Logger requires exactly one backend.
func WithBackend(backend core.Backend) Option {
	return func(c *loggerConfig) {
		if backend == nil && c.err == nil {
			c.err = fmt.Errorf("flogger: WithBackend requires a non-nil backend")
			return
		}
		c.backend = backend
	}
}

// WithPlatform overrides the default Platform (clock, caller finder,
// backend registry). Most callers only need WithBackend; WithPlatform
// exists for tests and for backend resolution by name (spec.md §9).
func WithPlatform(platform core.Platform) Option {
	return func(c *loggerConfig) { c.platform = platform }
}

// WithContextDataProvider attaches the ambient ContextDataProvider that
// supplies tags, scope metadata, and force-logging overrides (spec.md
// §6).
func WithContextDataProvider(provider core.ContextDataProvider) Option {
	return func(c *loggerConfig) { c.contextProvider = provider }
}
