package flogger

import (
	"time"

	"github.com/corelog/flogger/core"
	"github.com/corelog/flogger/ratelimit"
)

// LogContext is the fluent builder returned by Logger.At (spec.md §4.6,
// component C10). It is a one-shot value: every builder method mutates
// and returns the same receiver, and exactly one terminal Log call
// should follow a chain. A disabled chain is realized as a LogContext
// with noop set, rather than as a separate façade type: every method
// checks noop first and returns itself untouched, so a caller can chain
// freely against a disabled LogContext at zero cost beyond the checks
// themselves.
type LogContext struct {
	logger *Logger
	level  core.Level
	noop   bool

	wasForced bool

	logSiteSet bool
	logSite    core.LogSite

	cause    error
	metadata *core.MutableMetadata
	scopes   []*core.LoggingScope

	everyN           int64
	atMostEveryDelta int64 // nanoseconds; 0 means unset
	sampleN          int64
}

// noopLogContext returns the no-op façade for a disabled chain.
func noopLogContext(l *Logger) *LogContext {
	return &LogContext{logger: l, noop: true}
}

// IsEnabled reports whether this chain will actually emit a statement.
// Callers on a hot path can use it to skip building expensive arguments
// entirely.
func (c *LogContext) IsEnabled() bool { return !c.noop }

// WithCause attaches an error as the statement's cause.
func (c *LogContext) WithCause(err error) *LogContext {
	if c.noop {
		return c
	}
	c.cause = err
	return c
}

// WithInjectedLogSite overrides caller-finder resolution with an
// explicit LogSite, e.g. for wrapper functions that log on a caller's
// behalf. First call wins: later calls in the same chain are ignored.
func (c *LogContext) WithInjectedLogSite(site core.LogSite) *LogContext {
	if c.noop || c.logSiteSet {
		return c
	}
	c.logSite = site
	c.logSiteSet = true
	return c
}

// Every configures a counting rate limiter: the statement fires on
// invocations {1, N+1, 2N+1, ...} at this log site. every(1) (and any
// n<=1) is a no-op per spec.md §8.
func (c *LogContext) Every(n int64) *LogContext {
	if c.noop || n <= 1 {
		return c
	}
	c.everyN = n
	return c
}

// AtMostEvery configures a time-based rate limiter: the statement fires
// at most once per delta. A non-positive delta is a no-op per spec.md
// §8.
func (c *LogContext) AtMostEvery(delta time.Duration) *LogContext {
	if c.noop || delta <= 0 {
		return c
	}
	c.atMostEveryDelta = delta.Nanoseconds()
	return c
}

// Sample configures a sampling rate limiter: the statement fires with
// probability 1/n on average. Any n<=1 is a no-op.
func (c *LogContext) Sample(n int64) *LogContext {
	if c.noop || n <= 1 {
		return c
	}
	c.sampleN = n
	return c
}

// Per specializes this statement's log-site key by scope, so rate
// limiters and other per-site state are tracked independently for each
// distinct scope instance (spec.md §4.1). It also records scope in the
// statement's metadata under core.LogSiteGroupingKey, which sitemap.Map
// uses to evict per-site state when scope closes.
func (c *LogContext) Per(scope *core.LoggingScope) *LogContext {
	if c.noop || scope == nil {
		return c
	}
	c.scopes = append(c.scopes, scope)
	c.metadata.Add(core.LogSiteGroupingKey, scope)
	return c
}

// With attaches a single logged metadata entry to the statement.
func (c *LogContext) With(key *core.MetadataKey, value any) *LogContext {
	if c.noop {
		return c
	}
	c.metadata.Add(key, value)
	return c
}

// Log is the terminal operation of the fluent chain (spec.md §4.6): it
// resolves the log site, combines every configured rate limiter's
// opinion, and — if permitted — dispatches a LogData record through the
// owning Logger's write path, then resets whichever limiters are
// pending.
func (c *LogContext) Log(template string, args ...any) {
	if c.noop {
		return
	}

	site := c.resolveLogSite()
	key := c.specializedKey(site)
	metadata := c.metadata.Snapshot()

	combined := c.checkRateLimiters(key, metadata)
	if combined != nil && !combined.Allowed() {
		return
	}

	data := core.LogData{
		LoggerName:     c.logger.name,
		Level:          c.level,
		TimestampNanos: c.logger.platform.NowNanos(),
		LogSite:        site,
		Template:       &core.TemplateContext{ParserID: "printf", Template: template},
		Args:           args,
		Metadata:       metadata,
		Cause:          c.cause,
		WasForced:      c.wasForced,
	}
	c.logger.write(data)

	if combined != nil {
		combined.Reset()
	}
}

func (c *LogContext) resolveLogSite() core.LogSite {
	if c.logSiteSet {
		return c.logSite
	}
	return c.logger.platform.CallerFinder().FindLogSite("", 0)
}

func (c *LogContext) specializedKey(site core.LogSite) core.LogSiteKey {
	var key core.LogSiteKey = site
	for _, scope := range c.scopes {
		key = core.Specialize(key, scope)
	}
	return key
}

// checkRateLimiters consults every limiter this chain configured,
// looking up (or creating) each one's persistent per-site instance, and
// combines their opinions per ratelimit.Combine's composition rule. It
// returns nil if no limiter was configured.
func (c *LogContext) checkRateLimiters(key core.LogSiteKey, metadata core.Metadata) *ratelimit.Status {
	var opinions []*ratelimit.Status

	if c.everyN > 1 {
		n := c.everyN
		limiter := c.logger.countingSites.get(key, metadata, func() *ratelimit.Counting {
			return ratelimit.NewCounting(n)
		})
		opinions = append(opinions, limiter.Check())
	}
	if c.atMostEveryDelta > 0 {
		delta := c.atMostEveryDelta
		limiter := c.logger.timeBasedSites.get(key, metadata, func() *ratelimit.TimeBased {
			return ratelimit.NewTimeBased(delta)
		})
		opinions = append(opinions, limiter.Check(c.logger.platform.NowNanos()))
	}
	if c.sampleN > 1 {
		n := c.sampleN
		limiter := c.logger.samplingSites.get(key, metadata, func() *ratelimit.Sampling {
			return ratelimit.NewSampling(n)
		})
		opinions = append(opinions, limiter.Check())
	}

	if len(opinions) == 0 {
		return nil
	}
	return ratelimit.Combine(opinions...)
}
