package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// StoreFactory creates object stores from URI strings.
type StoreFactory struct {
	log *slog.Logger
}

// NewStoreFactory creates a new factory instance.
func NewStoreFactory(log *slog.Logger) *StoreFactory {
	return &StoreFactory{log: log}
}

// StoreFor creates an object store from a location URI.
//
// Supported schemes:
//   - memory: - In-process store for tests and dry runs
//   - file:///var/data/objects - Local file system
//   - s3://bucket/prefix?region=us-west-2&endpoint=... - Amazon S3 or
//     compatible (credentials via access_key/secret_key query parameters
//     or the default chain)
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func (f *StoreFactory) StoreFor(locationURI string) (interfaces.ObjectStore, error) {
	u, err := url.Parse(locationURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(u.Path, f.log)
	case "s3":
		return f.createS3Store(u)
	default:
		return nil, fmt.Errorf("%w: unsupported store scheme %q", interfaces.ErrInvalidLocationURI, u.Scheme)
	}
}

func (f *StoreFactory) createS3Store(u *url.URL) (interfaces.ObjectStore, error) {
	bucket := u.Host
	if bucket == "" {
		return nil, fmt.Errorf("%w: s3 URI needs a bucket name", interfaces.ErrInvalidLocationURI)
	}

	q := u.Query()
	region := q.Get("region")
	if region == "" {
		region = "us-east-1"
	}

	return NewS3Store(
		bucket,
		strings.TrimPrefix(u.Path, "/"),
		region,
		q.Get("endpoint"),
		q.Get("access_key"),
		q.Get("secret_key"),
		f.log,
	)
}
