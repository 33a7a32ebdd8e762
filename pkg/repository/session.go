package repository

import (
	"sync"

	"github.com/nggurbanov/curator-helper/pkg/domain"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]domain.Session
}

func NewSessionRepository() *sessionRepository {
	return &sessionRepository{
		sessions: make(map[int64]domain.Session),
	}
}

func (s *sessionRepository) Save(userID int64, session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = session
}

func (s *sessionRepository) Get(userID int64) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[userID]
	return session, exists
}

func (s *sessionRepository) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}
