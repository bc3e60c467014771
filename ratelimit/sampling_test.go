package ratelimit

import "testing"

func TestSamplingEventuallyFires(t *testing.T) {
	s := NewSampling(4)
	fired := false
	for i := 0; i < 10_000; i++ {
		if status := s.Check(); status.Allowed() {
			fired = true
			status.Reset()
			break
		}
	}
	if !fired {
		t.Errorf("a sampling limiter with N=4 should fire within 10,000 checks")
	}
}

func TestSamplingResetDecrementsPending(t *testing.T) {
	s := NewSampling(1) // N=1 always wins the coin flip
	status := s.Check()
	if !status.Allowed() {
		t.Fatalf("N=1 sampling limiter should always allow")
	}
	if s.pending.Load() == 0 {
		t.Fatalf("expected pending count to be incremented before reset")
	}
	status.Reset()
	if s.pending.Load() < 0 {
		t.Errorf("pending count must never go negative")
	}
}
