package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/halcyonlabs/objstore-encryption/cryptoutils"
	"github.com/halcyonlabs/objstore-encryption/envelope"
	"github.com/halcyonlabs/objstore-encryption/interfaces"
	"github.com/halcyonlabs/objstore-encryption/persistence"
)

// EncryptionClient encrypts object bodies before they reach the backing
// store and decrypts them on the way out. Every put generates a fresh
// content key, wraps it under the configured master key provider, and
// persists the wrapped key and cipher parameters alongside the object
// through the configured persistence strategy.
type EncryptionClient struct {
	store       interfaces.ObjectStore
	provider    interfaces.MasterKeyProvider
	persistence persistence.MaterialPersistence
	encryptor   *envelope.Encryptor
	scheme      interfaces.ContentCryptoScheme
	description interfaces.MaterialsDescription
	log         *slog.Logger
}

// ClientOption adjusts optional EncryptionClient behavior.
type ClientOption func(*EncryptionClient)

// WithMaterialsDescription attaches a caller description map to every
// material the client creates. The map is persisted verbatim and handed
// to the master key provider on wrap and unwrap.
func WithMaterialsDescription(desc interfaces.MaterialsDescription) ClientOption {
	return func(c *EncryptionClient) { c.description = desc }
}

// NewEncryptionClient wires a store, a master key provider, and a
// persistence strategy into an encrypting object client.
func NewEncryptionClient(store interfaces.ObjectStore, provider interfaces.MasterKeyProvider, strategy persistence.MaterialPersistence, scheme interfaces.ContentCryptoScheme, log *slog.Logger, opts ...ClientOption) *EncryptionClient {
	c := &EncryptionClient{
		store:       store,
		provider:    provider,
		persistence: strategy,
		encryptor:   envelope.NewEncryptor(cryptoutils.NewRandomSource(), log),
		scheme:      scheme,
		log:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PutObject encrypts body and stores the ciphertext under objectKey.
// For AEAD schemes the authentication tag is appended to the stored
// body. The crypto material travels through the persistence strategy,
// either merged into the object's metadata or written as an instruction
// side object before the object itself.
func (c *EncryptionClient) PutObject(ctx context.Context, objectKey string, objectMetadata interfaces.ObjectMetadata, body []byte) error {
	opID := uuid.New().String()
	start := time.Now()

	material, engine, err := c.encryptor.PrepareForEncrypt(ctx, c.provider, c.scheme, c.description.Clone())
	if err != nil {
		return fmt.Errorf("preparing encryption material: %w", err)
	}
	defer material.Close()

	ciphertext, err := engine.EncryptChunk(body)
	if err != nil {
		return fmt.Errorf("encrypting body: %w", err)
	}
	final, err := engine.FinalizeEncrypt()
	if err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	ciphertext = append(ciphertext, final...)

	if aead, ok := engine.(cryptoutils.AEADCipherEngine); ok {
		material.Tag = aead.Tag()
		ciphertext = append(ciphertext, material.Tag...)
	}

	metadata, err := c.persistence.StoreMaterial(ctx, c.store, objectKey, material, objectMetadata)
	if err != nil {
		return fmt.Errorf("persisting crypto material: %w", err)
	}

	if err := c.store.PutObject(ctx, objectKey, metadata, ciphertext); err != nil {
		return fmt.Errorf("storing object: %w", err)
	}

	c.log.Info("Stored encrypted object",
		slog.String("op_id", opID),
		slog.String("key", objectKey),
		slog.String("scheme", c.scheme.String()),
		slog.String("wrap_alg", c.provider.Algorithm().String()),
		slog.Int("plaintext_bytes", len(body)),
		slog.Int("ciphertext_bytes", len(ciphertext)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// GetObject fetches the object at objectKey, recovers its crypto
// material, and returns the decrypted body. For AEAD schemes the stored
// body carries a trailing authentication tag that is split off and
// verified before any plaintext is returned.
func (c *EncryptionClient) GetObject(ctx context.Context, objectKey string) ([]byte, error) {
	opID := uuid.New().String()
	start := time.Now()

	objectMetadata, ciphertext, err := c.store.GetObject(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("fetching object: %w", err)
	}

	material, err := c.persistence.LoadMaterial(ctx, c.store, objectKey, objectMetadata)
	if err != nil {
		return nil, fmt.Errorf("loading crypto material: %w", err)
	}
	defer material.Close()

	if tagLen := material.TagLengthBits / 8; tagLen > 0 {
		if len(ciphertext) < tagLen {
			return nil, fmt.Errorf("%w: stored body is shorter than its authentication tag", interfaces.ErrInvalidFormat)
		}
		material.Tag = ciphertext[len(ciphertext)-tagLen:]
		ciphertext = ciphertext[:len(ciphertext)-tagLen]
	}

	engine, err := c.encryptor.PrepareForDecrypt(ctx, material, c.provider)
	if err != nil {
		return nil, fmt.Errorf("preparing decryption: %w", err)
	}

	plaintext, err := engine.DecryptChunk(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decrypting body: %w", err)
	}
	final, err := engine.FinalizeDecrypt()
	if err != nil {
		return nil, fmt.Errorf("finalizing decryption: %w", err)
	}
	plaintext = append(plaintext, final...)

	c.log.Info("Fetched encrypted object",
		slog.String("op_id", opID),
		slog.String("key", objectKey),
		slog.String("scheme", material.Scheme.String()),
		slog.Int("plaintext_bytes", len(plaintext)),
		slog.Duration("duration", time.Since(start)))
	return plaintext, nil
}
