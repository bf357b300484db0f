package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"watchnext/internal/browse"
)

// sessionStore maps session ids to browse sessions and drops sessions
// that have been idle longer than the configured TTL.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*browse.Session
	ttl      time.Duration
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*browse.Session),
		ttl:      ttl,
	}
}

// get returns the session for an id, creating a fresh one under a new
// uuid when the id is empty or unknown.
func (s *sessionStore) get(id string) (*browse.Session, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		if session, ok := s.sessions[id]; ok {
			return session, id
		}
	}
	id = uuid.NewString()
	session := browse.NewSession()
	s.sessions[id] = session
	return session, id
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// prune removes sessions idle longer than the TTL and reports how many
// were dropped.
func (s *sessionStore) prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for id, session := range s.sessions {
		if now.Sub(session.LastAccess()) > s.ttl {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (s *sessionStore) pruneLoop(ctx context.Context) {
	interval := s.ttl
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.prune(now)
		}
	}
}
