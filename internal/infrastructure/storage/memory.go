package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	appbilling "github.com/buildpay/backend/internal/application/billing"
	"github.com/buildpay/backend/internal/domain/shared"
)

type memoryObject struct {
	contentType string
	data        []byte
}

// MemoryStorage is an in-memory document store for development and tests
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryStorage creates an empty in-memory document store
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]memoryObject)}
}

// Put stores a document under the given key
func (s *MemoryStorage) Put(_ context.Context, key string, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = memoryObject{contentType: contentType, data: stored}
	return nil
}

// Get retrieves a document by key
func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

// PresignedURL returns a fake local URL. Good enough for dev flows that
// only display the link.
func (s *MemoryStorage) PresignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.objects[key]; !ok {
		return "", shared.ErrNotFound
	}
	return fmt.Sprintf("memory://%s?expires_in=%d", key, int(expiry.Seconds())), nil
}

// Ensure MemoryStorage implements DocumentStorage
var _ appbilling.DocumentStorage = (*MemoryStorage)(nil)
