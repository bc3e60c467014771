package core

import (
	"fmt"
	"hash/fnv"
)

// LogSiteKey marks anything usable as a key into per-site state.
// Two distinct log sites must never compare equal; LogSite itself
// satisfies LogSiteKey, as does SpecializedLogSiteKey.
type LogSiteKey interface {
	logSiteKey()
}

// LogSite is the immutable identity of a source location where a log
// statement appears. Equality and hash are stable across processes for
// the same source position and never depend on the optional file name.
type LogSite struct {
	class string
	method string
	line   uint32 // low 16 bits are the source line, bits 16+ are the per-line index disambiguator
	file   string
}

// NewLogSite builds a LogSite. The line must fit in [0, 0xFFFF]; values
// outside that range are truncated to the low 16 bits, matching the
// wire-level packing used for hashing.
func NewLogSite(class, method string, line int, file string) LogSite {
	return LogSite{
		class:  class,
		method: method,
		line:   uint32(line) & 0xFFFF,
		file:   file,
	}
}

// NewLogSiteWithIndex builds a LogSite for a source line that holds more
// than one log statement, disambiguated by a zero-based per-line index.
func NewLogSiteWithIndex(class, method string, line, index int, file string) LogSite {
	return LogSite{
		class:  class,
		method: method,
		line:   (uint32(line) & 0xFFFF) | (uint32(index) << 16),
		file:   file,
	}
}

// InvalidLogSite is the singleton returned when a log site cannot be
// determined. Looking up per-site state against it disables all
// stateful features (rate limiting, scope specialization) for that
// statement.
var InvalidLogSite = LogSite{class: "<invalid>", method: "<invalid>", line: 0xFFFFFFFF}

// IsValid reports whether the site is a real, resolved source location.
func (s LogSite) IsValid() bool {
	return s != InvalidLogSite
}

// ClassName returns the declaring type name of the log statement.
func (s LogSite) ClassName() string { return s.class }

// MethodName returns the enclosing method/function name.
func (s LogSite) MethodName() string { return s.method }

// LineNumber returns the source line, in [0, 0xFFFF].
func (s LogSite) LineNumber() int { return int(s.line & 0xFFFF) }

// FileName returns the optional file name. It is never consulted by
// equality or hashing.
func (s LogSite) FileName() string { return s.file }

func (LogSite) logSiteKey() {}

// Key returns the site itself, satisfying callers that want a LogSiteKey
// from a LogSite without an explicit type assertion.
func (s LogSite) Key() LogSiteKey { return s }

func (s LogSite) String() string {
	if s.file != "" {
		return fmt.Sprintf("%s.%s:%d(%s)", s.class, s.method, s.LineNumber(), s.file)
	}
	return fmt.Sprintf("%s.%s:%d", s.class, s.method, s.LineNumber())
}

// Hash returns a process-stable hash over (class, method, line, index),
// deliberately excluding the file name per spec.
func (s LogSite) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.class))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(s.method))
	_, _ = h.Write([]byte{0})
	var buf [4]byte
	buf[0] = byte(s.line)
	buf[1] = byte(s.line >> 8)
	buf[2] = byte(s.line >> 16)
	buf[3] = byte(s.line >> 24)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
