package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/logodds/internal/explain"
)

// session binds one scorer to one explanation session. The embedded
// mutex serializes scoring calls: a scorer's row cache must never be
// driven by two rows at once.
type session struct {
	id      string
	model   string
	created time.Time

	mu     sync.Mutex
	scorer explain.Scorer
}

// SessionStore is a mutex-guarded registry of live sessions.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*session)}
}

func (s *SessionStore) Create(model string, scorer explain.Scorer, now time.Time) *session {
	sess := &session{
		id:      "sess_" + uuid.NewString(),
		model:   model,
		created: now,
		scorer:  scorer,
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

func (s *SessionStore) Get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (sess *session) describe() SessionResponse {
	return SessionResponse{
		ID:          sess.id,
		Model:       sess.model,
		CreatedAt:   sess.created.Unix(),
		OutputNames: sess.scorer.OutputNames(),
	}
}
