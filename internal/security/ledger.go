package security

import (
	"sync"
	"time"
)

// TrustRecord accumulates suspicion state for one client identity. Records
// are created lazily on first sight and mutated only under the ledger mutex.
type TrustRecord struct {
	Score    int
	Window   []time.Time
	PathHits int
	Blocked  bool
	LastSeen time.Time
}

// Ledger is the process-wide map from client identity to trust state. A single
// mutex serializes every read-check-write sequence so two concurrent requests
// from one identity cannot both slip past the score threshold.
type Ledger struct {
	mu      sync.Mutex
	records map[string]*TrustRecord
	ttl     time.Duration
}

// Snapshot is a point-in-time copy of the ledger for introspection.
type Snapshot struct {
	Blocked   []string       `json:"blocked"`
	Suspicion map[string]int `json:"suspicion"`
}

func NewLedger(ttl time.Duration) *Ledger {
	return &Ledger{
		records: make(map[string]*TrustRecord),
		ttl:     ttl,
	}
}

// getOrCreate must be called with l.mu held.
func (l *Ledger) getOrCreate(identity string, now time.Time) *TrustRecord {
	rec, ok := l.records[identity]
	if !ok {
		rec = &TrustRecord{}
		l.records[identity] = rec
	}
	rec.LastSeen = now
	return rec
}

func (l *Ledger) Block(identity string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.getOrCreate(identity, time.Now()).Blocked = true
}

// Unblock fully resets the identity: score, window, path counter, and block
// flag all cleared. Used only by the admin surface.
func (l *Ledger) Unblock(identity string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[identity]
	if !ok {
		return
	}
	rec.Score = 0
	rec.Window = nil
	rec.PathHits = 0
	rec.Blocked = false
}

func (l *Ledger) IsBlocked(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[identity]
	return ok && rec.Blocked
}

func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Snapshot{Suspicion: make(map[string]int)}
	for identity, rec := range l.records {
		if rec.Blocked {
			snap.Blocked = append(snap.Blocked, identity)
		}
		if rec.Score > 0 {
			snap.Suspicion[identity] = rec.Score
		}
	}
	return snap
}

// Counts returns how many identities are blocked and how many carry a
// non-zero suspicion score.
func (l *Ledger) Counts() (blocked, suspicious int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range l.records {
		if rec.Blocked {
			blocked++
		}
		if rec.Score > 0 {
			suspicious++
		}
	}
	return blocked, suspicious
}

// Sweep evicts unblocked records idle longer than the ledger TTL. Blocked
// records are retained so a block survives until an admin clears it.
func (l *Ledger) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for identity, rec := range l.records {
		if rec.Blocked {
			continue
		}
		if now.Sub(rec.LastSeen) > l.ttl {
			delete(l.records, identity)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs Sweep on a fixed interval until stop is closed.
func (l *Ledger) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				l.Sweep(now)
			}
		}
	}()
}
