package collapse

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("collapse session not found")

const (
	// DefaultSessionTTL is how long an idle session's collapse state lives.
	DefaultSessionTTL = 30 * time.Minute

	// DefaultMaxSessions bounds the number of live sessions.
	DefaultMaxSessions = 4096
)

// Store keeps per-session collapse sets in memory. Nothing is persisted:
// a session that expires or is evicted starts over with an empty set.
//
// Store is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, Set]
}

// NewStore creates a store holding at most size sessions, each expiring ttl
// after its last write. Non-positive values select the defaults.
func NewStore(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{sessions: expirable.NewLRU[string, Set](size, nil, ttl)}
}

// Create starts a session with an empty set and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.sessions.Add(id, Set{})
	return id
}

// Get returns a copy of the session's set.
func (s *Store) Get(id string) (Set, error) {
	set, ok := s.sessions.Get(id)
	if !ok {
		return Set{}, ErrSessionNotFound
	}
	return set.Clone(), nil
}

// Update applies fn to a copy of the session's set and stores the result
// only when fn succeeds. The returned set is the stored value.
func (s *Store) Update(id string, fn func(*Set) error) (Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions.Get(id)
	if !ok {
		return Set{}, ErrSessionNotFound
	}
	next := current.Clone()
	if err := fn(&next); err != nil {
		return current.Clone(), err
	}
	s.sessions.Add(id, next)
	return next.Clone(), nil
}

// Delete ends a session. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.sessions.Remove(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int { return s.sessions.Len() }
