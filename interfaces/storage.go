package interfaces

import "context"

// ObjectMetadata is the string map a store attaches to an object.
type ObjectMetadata map[string]string

// Clone returns an independent copy of the metadata map.
func (m ObjectMetadata) Clone() ObjectMetadata {
	if m == nil {
		return nil
	}
	out := make(ObjectMetadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ObjectStore is the narrow capability the crypto core uses to reach the
// external object store. Implementations own transport, retries and
// authentication; the core only puts and gets whole objects.
type ObjectStore interface {
	// PutObject stores body under key with the given metadata attached.
	PutObject(ctx context.Context, key string, metadata ObjectMetadata, body []byte) error

	// GetObject retrieves an object's metadata and body.
	// Returns ErrContentNotFound if no object exists under key.
	GetObject(ctx context.Context, key string) (ObjectMetadata, []byte, error)

	// Name returns identifier for logging.
	Name() string

	// LocationURI returns URI identifying this store.
	LocationURI() string
}
