// Package memory provides an in-process session store for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/storage"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]storage.Session
}

var _ storage.SessionStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{sessions: make(map[string]storage.Session)}
}

func (s *Store) CreateSession(_ context.Context, sess storage.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *Store) GetSession(_ context.Context, id string) (storage.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || sess.Expired(time.Now()) {
		return storage.Session{}, storage.ErrSessionNotFound
	}
	return sess, nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Store) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) Close() error { return nil }
