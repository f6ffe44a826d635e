package ratelimit

import (
	"testing"
	"time"
)

func TestAllowChatQuota(t *testing.T) {
	l := New(nil)

	for i := 0; i < 20; i++ {
		if !l.Allow("1.2.3.4", ScopeChat) {
			t.Fatalf("chat request %d rejected within quota", i+1)
		}
	}
	if l.Allow("1.2.3.4", ScopeChat) {
		t.Fatal("21st chat request within a minute should be rejected")
	}

	// Other identities are unaffected.
	if !l.Allow("5.6.7.8", ScopeChat) {
		t.Fatal("fresh identity rejected")
	}
}

func TestAllowScopesIndependent(t *testing.T) {
	l := New(nil)

	for i := 0; i < 10; i++ {
		if !l.Allow("1.2.3.4", ScopeClear) {
			t.Fatalf("clear request %d rejected within quota", i+1)
		}
	}
	if l.Allow("1.2.3.4", ScopeClear) {
		t.Fatal("11th clear request should be rejected")
	}

	// Clear exhaustion must not affect the chat scope for the same identity.
	if !l.Allow("1.2.3.4", ScopeChat) {
		t.Fatal("chat scope drained by clear scope")
	}
}

func TestAllowGlobalBaseline(t *testing.T) {
	l := New(map[Scope]Quota{
		ScopeGlobal: {Events: 3, Per: time.Hour},
	})

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4", ScopePage) {
			t.Fatalf("request %d rejected within global baseline", i+1)
		}
	}
	if l.Allow("1.2.3.4", ScopePage) {
		t.Fatal("global baseline not enforced")
	}
}

func TestSweepEvictsIdle(t *testing.T) {
	l := New(nil)
	l.Allow("1.2.3.4", ScopeChat)
	l.Allow("5.6.7.8", ScopeChat)

	evicted := l.Sweep(time.Now().Add(4*time.Hour), 3*time.Hour)
	if evicted == 0 {
		t.Fatal("expected idle buckets to be evicted")
	}

	l.mu.Lock()
	n := len(l.buckets)
	l.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected empty bucket map, got %d entries", n)
	}
}
