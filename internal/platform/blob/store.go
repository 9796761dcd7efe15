package blob

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Store is a flat namespace of named byte blobs.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.blobs))
	for name := range s.blobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, &Error{Kind: KindNotFound, Op: "get", Name: name}
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[name] = append([]byte(nil), data...)
	return nil
}

type unconfigured struct{}

var errNoConnectionString = errors.New("AZURE_STORAGE_CONNECTION_STRING is not set")

func (unconfigured) List(context.Context) ([]string, error) {
	return nil, &Error{Kind: KindNotConfigured, Op: "list", Err: errNoConnectionString}
}

func (unconfigured) Get(_ context.Context, name string) ([]byte, error) {
	return nil, &Error{Kind: KindNotConfigured, Op: "get", Name: name, Err: errNoConnectionString}
}

func (unconfigured) Put(_ context.Context, name string, _ []byte) error {
	return &Error{Kind: KindNotConfigured, Op: "put", Name: name, Err: errNoConnectionString}
}

// Configured reports whether s can reach real storage.
func Configured(s Store) bool {
	_, isStub := s.(unconfigured)
	return !isStub
}
