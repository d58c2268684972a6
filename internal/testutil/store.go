package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/Veraticus/mood2movie/internal/model"
	"github.com/Veraticus/mood2movie/internal/service"
	"github.com/Veraticus/mood2movie/internal/storage"
)

// MemoryStore is an in-memory LibraryStore that records every save.
// Keys are folded the same way the real stores fold them.
type MemoryStore struct {
	docs    map[string]model.Library
	saveErr error
	saves   []string
	mu      sync.Mutex
}

var _ service.LibraryStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]model.Library)}
}

// FailSaves makes every following Save return err. Pass nil to recover.
func (s *MemoryStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Save stores a copy of library.
func (s *MemoryStore) Save(_ context.Context, username string, library model.Library) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	key, err := storage.UserKey(username)
	if err != nil {
		return err
	}
	s.docs[key] = library.Clone()
	s.saves = append(s.saves, key)
	return nil
}

// Load returns a copy of the stored library, or an empty one.
func (s *MemoryStore) Load(_ context.Context, username string) (model.Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := storage.UserKey(username)
	if err != nil {
		return nil, err
	}
	if lib, ok := s.docs[key]; ok {
		return lib.Clone(), nil
	}
	return model.Library{}, nil
}

// Users returns the stored keys in order.
func (s *MemoryStore) Users(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]string, 0, len(s.docs))
	for key := range s.docs {
		users = append(users, key)
	}
	sort.Strings(users)
	return users, nil
}

// Close does nothing.
func (s *MemoryStore) Close() error {
	return nil
}

// Saves returns the folded keys of every successful save, in order.
func (s *MemoryStore) Saves() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.saves))
	copy(out, s.saves)
	return out
}

// Stored returns a copy of the persisted document for username.
func (s *MemoryStore) Stored(username string) (model.Library, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := storage.UserKey(username)
	if err != nil {
		return nil, false
	}
	lib, ok := s.docs[key]
	if !ok {
		return nil, false
	}
	return lib.Clone(), true
}
