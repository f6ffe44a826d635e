package session

import (
	"sync"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation, in provider wire shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MaxMessages bounds every session history. Oldest turns are dropped first so
// the most recent conversational context survives within a fixed memory cap.
const MaxMessages = 20

type record struct {
	messages   []Message
	lastAccess time.Time
}

// Store maps opaque session identifiers to bounded, ordered histories. A
// single mutex serializes appends so two concurrent chat turns for one
// session cannot interleave their role ordering.
type Store struct {
	mu      sync.Mutex
	records map[string]*record
	max     int
	ttl     time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		records: make(map[string]*record),
		max:     MaxMessages,
		ttl:     ttl,
	}
}

// Append adds a message to the session, creating the record if absent, then
// truncates to the most recent max entries.
func (s *Store) Append(sessionID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[sessionID]
	if !ok {
		rec = &record{}
		s.records[sessionID] = rec
	}
	rec.lastAccess = time.Now()
	rec.messages = append(rec.messages, Message{Role: role, Content: content})
	if n := len(rec.messages); n > s.max {
		rec.messages = append(rec.messages[:0], rec.messages[n-s.max:]...)
	}
}

// Get returns a copy of the session history, oldest first.
func (s *Store) Get(sessionID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[sessionID]
	if !ok {
		return nil
	}
	rec.lastAccess = time.Now()
	out := make([]Message, len(rec.messages))
	copy(out, rec.messages)
	return out
}

// Clear deletes the session record entirely. Idempotent.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionID)
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Sweep evicts sessions idle longer than the store TTL.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, rec := range s.records {
		if now.Sub(rec.lastAccess) > s.ttl {
			delete(s.records, id)
			evicted++
		}
	}
	return evicted
}

// StartJanitor runs Sweep on a fixed interval until stop is closed.
func (s *Store) StartJanitor(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
}
