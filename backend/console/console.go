// Package console implements a human-readable core.Backend that
// writes formatted statements to an io.Writer via logrus, grounded on
// the teacher's sinks.ConsoleSink (sinks/console.go, console_theme.go)
// but delegating the actual line formatting/coloring to
// github.com/sirupsen/logrus's TextFormatter rather than reimplementing
// ANSI theming by hand.
package console

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/corelog/flogger/core"
	"github.com/corelog/flogger/message"
)

// Backend writes LogData records as human-readable lines via a
// dedicated logrus.Logger instance (one per Backend, not the package
// logger, so multiple Backends never fight over global logrus state).
type Backend struct {
	name   string
	logger *logrus.Logger
}

// Option configures a Backend at construction.
type Option func(*Backend)

// WithWriter directs output to w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(b *Backend) { b.logger.Out = w }
}

// WithColor forces ANSI color on or off, overriding logrus's terminal
// autodetection.
func WithColor(enabled bool) Option {
	return func(b *Backend) {
		b.logger.Formatter = &logrus.TextFormatter{ForceColors: enabled, DisableColors: !enabled}
	}
}

// New returns a console Backend writing to os.Stderr by default.
func New(name string, opts ...Option) *Backend {
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.SetLevel(logrus.TraceLevel) // level gating happens in IsLoggable, not in logrus

	b := &Backend{name: name, logger: logger}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Name() string { return b.name }

// IsLoggable accepts every level; filtering belongs to the Logger's
// minimum level, not the backend.
func (b *Backend) IsLoggable(core.Level) bool { return true }

// Log renders data's template against its arguments and emits it as a
// single logrus entry, with metadata attached as structured fields and
// Cause (if present) attached under "error".
func (b *Backend) Log(data core.LogData) error {
	text, err := renderText(data)
	if err != nil {
		return err
	}

	fields := logrus.Fields{"logger": data.LoggerName, "site": data.LogSite.String()}
	if data.Metadata.Size() > 0 {
		for i := 0; i < data.Metadata.Size(); i++ {
			fields[data.Metadata.KeyAt(i).Label()] = data.Metadata.ValueAt(i)
		}
	}
	if data.Cause != nil {
		fields["error"] = data.Cause.Error()
	}
	if data.WasForced {
		fields["forced"] = true
	}

	b.logger.WithFields(fields).Log(levelToLogrus(data.Level), text)
	return nil
}

// HandleError reports the error unchanged. Log itself returns an error
// only when data's template fails to parse.
func (b *Backend) HandleError(err error, data core.LogData) error {
	return err
}

func renderText(data core.LogData) (string, error) {
	if data.HasLiteral {
		return message.Format("%s", []any{data.Literal})
	}
	return message.Format(data.Template.Template, data.Args)
}

func levelToLogrus(level core.Level) logrus.Level {
	switch level {
	case core.VerboseLevel:
		return logrus.TraceLevel
	case core.DebugLevel:
		return logrus.DebugLevel
	case core.InformationLevel:
		return logrus.InfoLevel
	case core.WarningLevel:
		return logrus.WarnLevel
	case core.ErrorLevel:
		return logrus.ErrorLevel
	case core.FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
