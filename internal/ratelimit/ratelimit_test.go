package ratelimit

import (
	"testing"
	"time"
)

func TestHostLimiterSpacesRequests(t *testing.T) {
	l := NewHostLimiter(50 * time.Millisecond)

	start := time.Now()
	l.Wait("a.com")
	l.Wait("a.com")
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("second request to same host came too soon: %v", elapsed)
	}
	if l.Requests("a.com") != 2 {
		t.Errorf("expected 2 requests recorded, got %d", l.Requests("a.com"))
	}
}

func TestHostLimiterHostsIndependent(t *testing.T) {
	l := NewHostLimiter(time.Second)

	l.Wait("a.com")
	start := time.Now()
	l.Wait("b.com")
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("different host should not wait: %v", elapsed)
	}
}
