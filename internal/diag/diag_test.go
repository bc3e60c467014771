package diag

import (
	"strings"
	"sync"
	"testing"
)

func TestDisabledByDefault(t *testing.T) {
	Disable()
	if IsEnabled() {
		t.Errorf("IsEnabled() = true after Disable()")
	}
}

func TestPrintfReachesEnabledWriter(t *testing.T) {
	var b strings.Builder
	Enable(Sync(&b))
	defer Disable()

	Printf("[test] something went wrong: %d", 42)
	if !strings.Contains(b.String(), "something went wrong: 42") {
		t.Errorf("Printf output = %q, missing expected message", b.String())
	}
}

func TestPrintfNoopWhenDisabled(t *testing.T) {
	Disable()
	Printf("[test] should not appear anywhere")
}

func TestEnableFuncReceivesFormattedLine(t *testing.T) {
	var got string
	var mu sync.Mutex
	EnableFunc(func(line string) {
		mu.Lock()
		defer mu.Unlock()
		got = line
	})
	defer Disable()

	Printf("[test] via func")
	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(got, "via func") {
		t.Errorf("callback received %q, missing expected message", got)
	}
}

func TestSyncSerializesConcurrentWrites(t *testing.T) {
	var b strings.Builder
	Enable(Sync(&b))
	defer Disable()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Printf("[test] line %d", n)
		}(i)
	}
	wg.Wait()
}
