package session

import (
	"sync"

	"github.com/Matches1st/Cord-Disc-Chat/internal/dtos/user_dto"
)

// Snapshot is the authenticated state at a point in time. A nil Identity
// means signed out.
type Snapshot struct {
	Token    string
	Identity *user_dto.IdentityResponse
}

func (s Snapshot) SignedIn() bool {
	return s.Identity != nil
}

// Store holds the current session and fans out changes to watchers. It is
// passed explicitly to everything that needs the session; there is no
// package-level instance.
type Store struct {
	mu       sync.RWMutex
	current  Snapshot
	watchers map[int]chan Snapshot
	nextID   int
}

func NewStore() *Store {
	return &Store{
		watchers: make(map[int]chan Snapshot),
	}
}

// Current returns the latest published snapshot.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Publish replaces the session and notifies watchers. A watcher that has
// not drained its channel keeps only the newest snapshot.
func (s *Store) Publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap
	for _, ch := range s.watchers {
		select {
		case ch <- snap:
		default:
			// replace the stale pending value
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// Clear signs the session out.
func (s *Store) Clear() {
	s.Publish(Snapshot{})
}

// Watch registers a watcher. The returned channel receives every publish
// from now on; cancel unregisters it.
func (s *Store) Watch() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	s.watchers[id] = ch
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
	return ch, cancel
}
