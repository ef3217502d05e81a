package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps wizard sessions keyed by admin id.
// A zero ttl keeps idle sessions until they are completed or cancelled.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates an empty session store
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Begin starts a fresh session for adminID, replacing any existing one
func (s *Store) Begin(adminID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session := &Session{
		ID:         uuid.New().String(),
		AdminID:    adminID,
		State:      AwaitingPhoto,
		StartedAt:  now,
		LastActive: now,
	}
	s.sessions[adminID] = session
	return session
}

// Get returns the live session for adminID and marks it active.
// Sessions idle for longer than the ttl are dropped.
func (s *Store) Get(adminID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[adminID]
	if !ok {
		return nil, false
	}

	now := s.now()
	if s.ttl > 0 && now.Sub(session.LastActive) > s.ttl {
		delete(s.sessions, adminID)
		return nil, false
	}

	session.LastActive = now
	return session, true
}

// End destroys the session for adminID
func (s *Store) End(adminID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, adminID)
}

// Len returns the number of stored sessions, expired ones included
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
