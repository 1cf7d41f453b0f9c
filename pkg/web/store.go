package web

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/scottcagno/hashlab/pkg/session"
)

// entry guards a single session. The session itself is not safe for
// concurrent use, so every request holds the entry lock while using it.
type entry struct {
	sync.Mutex
	sess *session.Session
}

// DefaultSessionLimit is how many sessions a store holds when no limit is given
const DefaultSessionLimit = 256

// Store keeps the open sessions by id, up to a fixed number of them
type Store struct {
	lock     sync.RWMutex
	limit    int
	sessions map[string]*entry
}

// NewStore returns a store holding at most limit sessions. A limit of zero
// or less uses DefaultSessionLimit.
func NewStore(limit int) *Store {
	if limit < 1 {
		limit = DefaultSessionLimit
	}
	return &Store{
		limit:    limit,
		sessions: make(map[string]*entry),
	}
}

// CheckLimit returns ErrTooManySessions when the store is full
func (s *Store) CheckLimit() error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if len(s.sessions) >= s.limit {
		return errors.Wrapf(ErrTooManySessions, "limit of %d reached", s.limit)
	}
	return nil
}

// Add stores sess under a fresh random id and returns the id. It fails with
// ErrTooManySessions when the store is full.
func (s *Store) Add(sess *session.Session) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.sessions) >= s.limit {
		return "", errors.Wrapf(ErrTooManySessions, "limit of %d reached", s.limit)
	}
	id := uuid.NewString()
	s.sessions[id] = &entry{sess: sess}
	return id, nil
}

// Get returns the entry stored under id
func (s *Store) Get(id string) (*entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.Wrapf(ErrUnknownSession, "malformed id %q", id)
	}
	s.lock.RLock()
	e, ok := s.sessions[id]
	s.lock.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSession, "id %s", id)
	}
	return e, nil
}

// Remove drops the session stored under id
func (s *Store) Remove(id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return errors.Wrapf(ErrUnknownSession, "id %s", id)
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of open sessions
func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.sessions)
}
