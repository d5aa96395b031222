// Package snapshot holds the most recent dashboard derived by the poller.
package snapshot

import (
	"context"
	"errors"
	"sync"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
)

// ErrNoSnapshot is returned by CheckReadiness before the first Publish.
var ErrNoSnapshot = errors.New("no dashboard snapshot published yet")

// Store keeps the latest dashboard. Generations order concurrent fetches:
// a fetch takes a generation with Begin before it starts, and its result is
// only kept if no later fetch has already published.
type Store struct {
	mu        sync.RWMutex
	next      uint64
	published uint64
	latest    domain.Dashboard
	have      bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Begin reserves the generation for a fetch that is about to start.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Publish stores d if gen is newer than the stored generation. It reports
// whether d was kept.
func (s *Store) Publish(gen uint64, d domain.Dashboard) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.have && gen <= s.published {
		return false
	}
	s.published = gen
	s.latest = d
	s.have = true
	return true
}

// Latest returns the current dashboard, if any.
func (s *Store) Latest() (domain.Dashboard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.have
}

// Generation returns the generation of the stored dashboard (0 if none).
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published
}

// CheckReadiness reports ErrNoSnapshot until something has been published.
func (s *Store) CheckReadiness(_ context.Context) error {
	if _, ok := s.Latest(); !ok {
		return ErrNoSnapshot
	}
	return nil
}
