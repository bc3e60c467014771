package flogger

import (
	"strings"
	"testing"

	"github.com/corelog/flogger/core"
)

// This file is package flogger (white-box), so FindLogSite's frame walk
// must skip through this package's own (*LogContext)/(*Logger) methods
// and still land on this test function, not somewhere inside the
// logging API itself.
func TestStackCallerFinderAttributesInternalCallSite(t *testing.T) {
	finder := NewStackCallerFinder()
	site := finder.FindLogSite("", 0)

	if !site.IsValid() {
		t.Fatal("FindLogSite returned InvalidLogSite")
	}
	if !strings.Contains(site.MethodName(), "TestStackCallerFinderAttributesInternalCallSite") {
		t.Errorf("MethodName() = %q, want it to contain the calling test's name", site.MethodName())
	}
}

func TestStackCallerFinderSkipsLogContextAndLoggerFrames(t *testing.T) {
	mem := &mockBackendForCallerTest{}
	logger := New(WithBackend(mem))

	logger.AtInfo().Log("hello")

	last := mem.last
	if strings.Contains(last.LogSite.ClassName(), "(*LogContext)") || strings.Contains(last.LogSite.ClassName(), "(*Logger)") {
		t.Errorf("LogSite.ClassName() = %q, should not attribute to the fluent API itself", last.LogSite.ClassName())
	}
	if !strings.Contains(last.LogSite.MethodName(), "TestStackCallerFinderSkipsLogContextAndLoggerFrames") {
		t.Errorf("MethodName() = %q, want the calling test", last.LogSite.MethodName())
	}
}

type mockBackendForCallerTest struct {
	last core.LogData
}

func (*mockBackendForCallerTest) Name() string              { return "mock" }
func (*mockBackendForCallerTest) IsLoggable(core.Level) bool { return true }
func (b *mockBackendForCallerTest) Log(data core.LogData) error {
	b.last = data
	return nil
}
func (*mockBackendForCallerTest) HandleError(err error, data core.LogData) error { return err }
