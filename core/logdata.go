package core

// TemplateContext identifies a printf-style message template together
// with the parser identity that produced it, so backends may use it as
// a cache key (spec.md §9 "message template caching"). It is mutually
// exclusive with a single literal argument on LogData: a statement
// either has a template plus arguments, or a single pre-formatted
// literal value.
type TemplateContext struct {
	// ParserID identifies the grammar used to parse Template, allowing
	// a backend to select a compatible formatter without re-deriving
	// the parser from the template string itself.
	ParserID string
	// Template is the original, unescaped message template.
	Template string
}

// LogData is the fully-described record handed from the core to a
// Backend. Either TemplateContext is set (with Args holding the printf
// arguments) or Literal is set with HasLiteral true; never both.
type LogData struct {
	LoggerName string
	Level      Level
	TimestampNanos int64
	LogSite    LogSite

	Template   *TemplateContext
	Args       []any
	HasLiteral bool
	Literal    any

	Metadata   Metadata
	Cause      error
	WasForced  bool
}

// Tags is an immutable, ordered set of free-form string labels
// contributed by a ContextDataProvider (spec.md §6).
type Tags struct {
	values []string
}

// NewTags builds a Tags value from individual labels, de-duplicating
// while preserving first-occurrence order.
func NewTags(values ...string) Tags {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return Tags{values: out}
}

// Values returns the tag labels in order.
func (t Tags) Values() []string { return t.values }

// Len returns the number of tags.
func (t Tags) Len() int { return len(t.values) }
