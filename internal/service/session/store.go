package session

import (
	"errors"
	"sync"
	"time"

	"voice-tutor-service/internal/observability/metrics"
)

// Errors for store operations.
var (
	ErrAlreadyExists = errors.New("session already exists for call")
	ErrNotFound      = errors.New("session not found")
)

// EvictReason labels why a session left the store.
type EvictReason string

const (
	EvictTerminal EvictReason = "terminal"
	EvictExpired  EvictReason = "expired"
	EvictExplicit EvictReason = "explicit"
)

// EvictFunc observes evictions, e.g. to release per-call resources held
// elsewhere.
type EvictFunc func(callID string, sess CallSession, reason EvictReason)

// Store holds one CallSession per live call. Mutate is the sole write
// path: it serializes access per call identifier while unrelated calls
// proceed in parallel. Never shared as a global; the store is
// constructed once and injected.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	onEvict EvictFunc
	metrics *metrics.Metrics
}

type entry struct {
	mu   sync.Mutex
	sess *CallSession
	gone bool
}

// NewStore creates an empty session store.
func NewStore(onEvict EvictFunc) *Store {
	return &Store{
		entries: make(map[string]*entry),
		onEvict: onEvict,
		metrics: metrics.DefaultMetrics,
	}
}

// Create registers a session for a new call. Exactly one session may
// exist per call identifier at any time.
func (s *Store) Create(sess CallSession) (CallSession, error) {
	now := time.Now()
	sess.CreatedAt = now
	sess.LastTurn = now

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[sess.CallID]; ok {
		return CallSession{}, ErrAlreadyExists
	}
	s.entries[sess.CallID] = &entry{sess: &sess}
	s.metrics.RecordCallStarted()
	return sess.clone(), nil
}

// Get returns a snapshot of the session for a call.
func (s *Store) Get(callID string) (CallSession, error) {
	e, err := s.lookup(callID)
	if err != nil {
		return CallSession{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone {
		return CallSession{}, ErrNotFound
	}
	return e.sess.clone(), nil
}

// Mutate applies fn under exclusive per-call access and returns the
// resulting snapshot. The function sees the live session; its changes
// persist atomically with respect to other turns and the sweeper.
func (s *Store) Mutate(callID string, fn func(*CallSession) error) (CallSession, error) {
	e, err := s.lookup(callID)
	if err != nil {
		return CallSession{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone {
		return CallSession{}, ErrNotFound
	}
	if err := fn(e.sess); err != nil {
		return CallSession{}, err
	}
	e.sess.LastTurn = time.Now()
	return e.sess.clone(), nil
}

// Evict removes a session. Safe to call for unknown calls.
func (s *Store) Evict(callID string, reason EvictReason) {
	s.mu.Lock()
	e, ok := s.entries[callID]
	if ok {
		delete(s.entries, callID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	e.gone = true
	sess := e.sess.clone()
	e.mu.Unlock()

	s.metrics.RecordEviction(string(reason))
	s.metrics.RecordCallEnded(sess.State.String())
	if s.onEvict != nil {
		s.onEvict(callID, sess, reason)
	}
}

// Len reports how many sessions are live.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweep evicts sessions that reached a terminal state or have been
// inactive longer than ttl. Returns the number evicted.
func (s *Store) sweep(ttl time.Duration) int {
	s.mu.Lock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	now := time.Now()
	evicted := 0
	for _, id := range ids {
		e, err := s.lookup(id)
		if err != nil {
			continue
		}
		e.mu.Lock()
		terminal := e.sess.State.IsTerminal()
		expired := now.Sub(e.sess.LastTurn) > ttl
		e.mu.Unlock()

		switch {
		case terminal:
			s.Evict(id, EvictTerminal)
			evicted++
		case expired:
			s.Evict(id, EvictExpired)
			evicted++
		}
	}
	return evicted
}

func (s *Store) lookup(callID string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[callID]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}
