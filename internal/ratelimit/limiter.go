package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Scope names a logical endpoint group with its own quota. Every request also
// consumes from the process-wide global baseline.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopePage   Scope = "page"
	ScopeChat   Scope = "chat"
	ScopeClear  Scope = "clear"
)

// Quota is a rolling allowance of Events per window. Burst equals Events so a
// fresh identity can spend a full window's worth up front.
type Quota struct {
	Events int
	Per    time.Duration
}

func (q Quota) limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(q.Per/time.Duration(q.Events)), q.Events)
}

// DefaultQuotas mirrors the service's public surface: a coarse per-identity
// baseline plus tighter ceilings for the page, chat, and clear routes.
func DefaultQuotas() map[Scope]Quota {
	return map[Scope]Quota{
		ScopeGlobal: {Events: 200, Per: time.Hour},
		ScopePage:   {Events: 30, Per: time.Minute},
		ScopeChat:   {Events: 20, Per: time.Minute},
		ScopeClear:  {Events: 10, Per: time.Minute},
	}
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiter enforces quotas per (identity, scope). Volume-based and deliberately
// independent of the trust ledger: it rejects excess regardless of intent.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*entry
	quotas  map[Scope]Quota
}

func New(quotas map[Scope]Quota) *Limiter {
	if quotas == nil {
		quotas = DefaultQuotas()
	}
	return &Limiter{
		buckets: make(map[string]*entry),
		quotas:  quotas,
	}
}

// Allow reports whether the identity may proceed on the given scope. The
// global baseline is always consulted; the scope quota only when configured.
// A scope rejection does not consume from the global bucket.
func (l *Limiter) Allow(identity string, scope Scope) bool {
	if scope != ScopeGlobal && scope != "" {
		if !l.take(identity, scope) {
			return false
		}
	}
	return l.take(identity, ScopeGlobal)
}

func (l *Limiter) take(identity string, scope Scope) bool {
	q, ok := l.quotas[scope]
	if !ok {
		return true
	}

	key := string(scope) + ":" + identity

	l.mu.Lock()
	e, ok := l.buckets[key]
	if !ok {
		e = &entry{lim: q.limiter()}
		l.buckets[key] = e
	}
	e.lastSeen = time.Now()
	l.mu.Unlock()

	return e.lim.Allow()
}

// Sweep drops limiter entries idle longer than maxIdle. An evicted identity
// that returns simply starts a fresh bucket.
func (l *Limiter) Sweep(now time.Time, maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for key, e := range l.buckets {
		if now.Sub(e.lastSeen) > maxIdle {
			delete(l.buckets, key)
			evicted++
		}
	}
	return evicted
}

// StartJanitor sweeps on a fixed interval until stop is closed.
func (l *Limiter) StartJanitor(interval, maxIdle time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				l.Sweep(now, maxIdle)
			}
		}
	}()
}
