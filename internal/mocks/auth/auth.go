// Package auth holds a hand-written in-memory ports.SessionStore for tests that
// need a server-side store without Redis.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
	"github.com/gamestore/gamestore-web/internal/ports"
)

var _ ports.SessionStore = (*MemorySessionStore)(nil)

// ErrNotFound aliases the port's sentinel so tests can assert against either.
var ErrNotFound = ports.ErrSessionNotFound

// MemorySessionStore behaves like the Redis store: expired records read as missing
// and are dropped on access. The exported *Err fields inject failures.
type MemorySessionStore struct {
	SaveErr   error
	GetErr    error
	DeleteErr error
	// Now defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	records map[string]domainauth.Session
}

// NewMemorySessionStore returns an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{records: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Save stores a copy of sess under its ID.
func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	switch {
	case m.SaveErr != nil:
		return m.SaveErr
	case sess.ID == "":
		return errors.New("memory session store: empty session id")
	}
	m.mu.Lock()
	m.records[sess.ID] = sess
	m.mu.Unlock()
	return nil
}

// Get returns ErrNotFound for unknown or expired IDs.
func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.records[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	if sess.Expired(m.now()) {
		delete(m.records, id)
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete is a no-op for unknown IDs.
func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	delete(m.records, id)
	m.mu.Unlock()
	return nil
}

// Len reports how many records are held, expired ones included.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
