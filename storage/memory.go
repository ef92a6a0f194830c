package storage

import (
	"context"
	"sync"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// MemoryStore is an in-process object store used by tests and the CLI's
// dry-run mode. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	metadata interfaces.ObjectMetadata
	body     []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

// PutObject stores independent copies of metadata and body.
func (s *MemoryStore) PutObject(ctx context.Context, key string, metadata interfaces.ObjectMetadata, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{
		metadata: metadata.Clone(),
		body:     append([]byte(nil), body...),
	}
	return nil
}

// GetObject returns copies of the stored metadata and body.
// Returns ErrContentNotFound for unknown keys.
func (s *MemoryStore) GetObject(ctx context.Context, key string) (interfaces.ObjectMetadata, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, nil, interfaces.ErrContentNotFound
	}
	return obj.metadata.Clone(), append([]byte(nil), obj.body...), nil
}

// Name returns identifier for logging.
func (s *MemoryStore) Name() string {
	return "memory"
}

// LocationURI returns URI identifying this store.
func (s *MemoryStore) LocationURI() string {
	return "memory:"
}
