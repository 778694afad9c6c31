package storefake

import (
	"sync"

	"github.com/jrsteele09/go-condo-console/credentials"
)

// FakeStore is an in-memory credentials.Store for tests.
type FakeStore struct {
	mu      sync.RWMutex
	cred    credentials.Credential
	present bool

	// SaveErr and ClearErr, when set, are returned by the corresponding
	// operations to simulate storage trouble.
	SaveErr  error
	ClearErr error
}

// NewFakeStore creates an empty fake store.
func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// Save stores the pair in memory.
func (s *FakeStore) Save(cred credentials.Credential) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	s.present = true
	return nil
}

// Load returns the stored pair, if any.
func (s *FakeStore) Load() (credentials.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return credentials.Credential{}, false
	}
	return s.cred, true
}

// Clear removes the stored pair.
func (s *FakeStore) Clear() error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = credentials.Credential{}
	s.present = false
	return nil
}

var _ credentials.Store = (*FakeStore)(nil)
