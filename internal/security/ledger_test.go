package security

import (
	"testing"
	"time"
)

func TestLedgerUnblockFullReset(t *testing.T) {
	l := NewLedger(time.Hour)
	now := time.Now()

	l.mu.Lock()
	rec := l.getOrCreate("1.2.3.4", now)
	rec.Score = 7
	rec.PathHits = 3
	rec.Window = []time.Time{now}
	rec.Blocked = true
	l.mu.Unlock()

	l.Unblock("1.2.3.4")

	l.mu.Lock()
	rec = l.records["1.2.3.4"]
	l.mu.Unlock()
	if rec.Score != 0 || rec.PathHits != 0 || len(rec.Window) != 0 || rec.Blocked {
		t.Fatalf("unblock did not fully reset record: %+v", rec)
	}
}

func TestLedgerUnblockUnknownIdentity(t *testing.T) {
	l := NewLedger(time.Hour)
	l.Unblock("never-seen") // must not create a record
	l.mu.Lock()
	n := len(l.records)
	l.mu.Unlock()
	if n != 0 {
		t.Fatalf("unblock created %d records", n)
	}
}

func TestLedgerSnapshot(t *testing.T) {
	l := NewLedger(time.Hour)
	now := time.Now()

	l.mu.Lock()
	l.getOrCreate("blocked-ip", now).Blocked = true
	l.getOrCreate("suspicious-ip", now).Score = 4
	l.getOrCreate("clean-ip", now)
	l.mu.Unlock()

	snap := l.Snapshot()
	if len(snap.Blocked) != 1 || snap.Blocked[0] != "blocked-ip" {
		t.Fatalf("blocked set mismatch: %v", snap.Blocked)
	}
	if len(snap.Suspicion) != 1 || snap.Suspicion["suspicious-ip"] != 4 {
		t.Fatalf("suspicion map mismatch: %v", snap.Suspicion)
	}

	blocked, suspicious := l.Counts()
	if blocked != 1 || suspicious != 1 {
		t.Fatalf("counts mismatch: blocked=%d suspicious=%d", blocked, suspicious)
	}
}

func TestLedgerSweepRetainsBlocked(t *testing.T) {
	l := NewLedger(time.Minute)
	base := time.Now()

	l.mu.Lock()
	l.getOrCreate("idle-clean", base)
	l.getOrCreate("idle-blocked", base).Blocked = true
	l.getOrCreate("fresh", base.Add(2*time.Minute))
	l.mu.Unlock()

	evicted := l.Sweep(base.Add(2*time.Minute + time.Second))
	if evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}

	l.mu.Lock()
	_, idleGone := l.records["idle-clean"]
	_, blockedKept := l.records["idle-blocked"]
	_, freshKept := l.records["fresh"]
	l.mu.Unlock()

	if idleGone {
		t.Fatal("idle unblocked record survived sweep")
	}
	if !blockedKept {
		t.Fatal("blocked record was evicted")
	}
	if !freshKept {
		t.Fatal("fresh record was evicted")
	}
}
