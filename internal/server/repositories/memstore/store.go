// Package memstore keeps every entity in process memory. It implements the
// same repository interfaces as the Postgres store and is used by tests and
// by the server when no database DSN is configured.
package memstore

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/dpnode/internal/server/models"
)

// Store holds all tables. Records handed out are copies; callers never
// alias stored state.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	seq       int64
	nodes     []*models.Node
	entries   []*models.RegistryEntry
	transfers []*models.Transfer

	users    []*models.User
	perms    map[string]map[string]struct{}
	profiles map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		now:      func() time.Time { return time.Now().UTC() },
		perms:    map[string]map[string]struct{}{},
		profiles: map[string]string{},
	}
}

// SetClock replaces the source of created_on/updated_on stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// nextID must be called with mu held for writing.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// nodeExists must be called with mu held.
func (s *Store) nodeExists(namespace string) bool {
	for _, n := range s.nodes {
		if n.Namespace == namespace {
			return true
		}
	}
	return false
}

// Registry returns the registry view of the store.
func (s *Store) Registry() *RegistryRepository {
	return &RegistryRepository{s: s}
}

// Nodes returns the nodes view of the store.
func (s *Store) Nodes() *NodeRepository {
	return &NodeRepository{s: s}
}

// Transfers returns the transfers view of the store.
func (s *Store) Transfers() *TransferRepository {
	return &TransferRepository{s: s}
}

// Users returns the users view of the store.
func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}
