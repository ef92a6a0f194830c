package storage

import (
	"context"
	"log/slog"
	"testing"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	metadata := interfaces.ObjectMetadata{"x-amz-cek-alg": "AES/GCM"}
	body := []byte("ciphertext bytes")

	require.NoError(t, store.PutObject(context.Background(), "a/b/object", metadata, body))

	gotMeta, gotBody, err := store.GetObject(context.Background(), "a/b/object")
	require.NoError(t, err)
	assert.Equal(t, metadata, gotMeta)
	assert.Equal(t, body, gotBody)

	// Stored copies are independent of caller slices.
	body[0] = 'X'
	metadata["x-amz-cek-alg"] = "changed"
	_, gotBody, err = store.GetObject(context.Background(), "a/b/object")
	require.NoError(t, err)
	assert.Equal(t, byte('c'), gotBody[0])
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, _, err := store.GetObject(context.Background(), "missing")
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), slog.Default())
	require.NoError(t, err)

	metadata := interfaces.ObjectMetadata{"x-amz-iv": "aXY="}
	body := []byte("file body")
	require.NoError(t, store.PutObject(context.Background(), "dir/key.bin", metadata, body))

	gotMeta, gotBody, err := store.GetObject(context.Background(), "dir/key.bin")
	require.NoError(t, err)
	assert.Equal(t, metadata, gotMeta)
	assert.Equal(t, body, gotBody)

	_, _, err = store.GetObject(context.Background(), "dir/other.bin")
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestStoreFactorySchemes(t *testing.T) {
	factory := NewStoreFactory(slog.Default())

	store, err := factory.StoreFor("memory:")
	require.NoError(t, err)
	assert.Equal(t, "memory", store.Name())

	store, err = factory.StoreFor("file://" + t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, store.Name(), "file-")

	store, err = factory.StoreFor("s3://my-bucket/objects?region=eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, "s3-my-bucket", store.Name())
	assert.Equal(t, "s3://my-bucket/objects?region=eu-west-1", store.LocationURI())

	_, err = factory.StoreFor("gopher://nope")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)

	_, err = factory.StoreFor("s3://")
	assert.ErrorIs(t, err, interfaces.ErrInvalidLocationURI)
}
