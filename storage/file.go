package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// metadataSuffix names the sidecar file carrying an object's metadata.
const metadataSuffix = ".objmeta"

// FileStore implements an object store on the local file system. Each
// object is a file under the base directory plus a sidecar JSON file
// holding its metadata.
type FileStore struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileStore creates a file-backed store rooted at baseDir, creating
// the directory if needed.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FileStore{
		baseDir:     baseDir,
		log:         log,
		locationURI: fmt.Sprintf("file://%s", baseDir),
	}, nil
}

// PutObject writes the body file and its metadata sidecar.
func (s *FileStore) PutObject(ctx context.Context, key string, metadata interfaces.ObjectMetadata, body []byte) error {
	path := s.objectPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to serialize metadata: %w", err)
	}
	if err := os.WriteFile(path+metadataSuffix, meta, 0644); err != nil {
		return fmt.Errorf("failed to write metadata sidecar: %w", err)
	}

	s.log.Debug("Stored object on file system",
		slog.String("key", key),
		slog.String("path", path),
		slog.Int("size", len(body)))

	return nil
}

// GetObject reads the body file and its metadata sidecar.
// Returns ErrContentNotFound if the object file doesn't exist.
func (s *FileStore) GetObject(ctx context.Context, key string) (interfaces.ObjectMetadata, []byte, error) {
	path := s.objectPath(key)

	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, interfaces.ErrContentNotFound
		}
		return nil, nil, fmt.Errorf("failed to read object: %w", err)
	}

	metadata := interfaces.ObjectMetadata{}
	meta, err := os.ReadFile(path + metadataSuffix)
	if err == nil {
		if err := json.Unmarshal(meta, &metadata); err != nil {
			return nil, nil, fmt.Errorf("failed to parse metadata sidecar: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("failed to read metadata sidecar: %w", err)
	}

	s.log.Debug("Fetched object from file system",
		slog.String("key", key),
		slog.Int("size", len(body)))

	return metadata, body, nil
}

// Name returns a unique identifier for this store.
func (s *FileStore) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(s.baseDir))
}

// LocationURI returns the URI that identifies this store.
func (s *FileStore) LocationURI() string {
	return s.locationURI
}

func (s *FileStore) objectPath(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}
