package kms

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/halcyonlabs/objstore-encryption/cryptoutils"
	"github.com/halcyonlabs/objstore-encryption/interfaces"
	"golang.org/x/crypto/hkdf"
)

// SimpleKMS protects content keys with deterministic AES key wrapping
// under a locally held master key. Suitable for deployments that manage
// their own master key material; use VaultKMS when wrapping should
// happen inside an external service.
type SimpleKMS struct {
	masterKey []byte
}

// NewSimpleKMS creates a new instance with the provided master key.
// The master key must be at least 32 bytes long; the first 32 bytes are
// used as the AES-256 key encryption key.
func NewSimpleKMS(masterKey []byte) (*SimpleKMS, error) {
	if len(masterKey) < 32 {
		return nil, errors.New("master key must be at least 32 bytes")
	}
	kek := make([]byte, 32)
	copy(kek, masterKey)
	return &SimpleKMS{masterKey: kek}, nil
}

// WithContext derives an independent wrapping key for the given context
// label with HKDF-SHA256. Objects wrapped under different contexts
// cannot be unwrapped with each other's providers.
func (k *SimpleKMS) WithContext(label string) (*SimpleKMS, error) {
	derived := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, k.masterKey, nil, []byte(label)), derived); err != nil {
		return nil, fmt.Errorf("deriving context key: %w", err)
	}
	return &SimpleKMS{masterKey: derived}, nil
}

// WrapKey wraps the content key with RFC 3394 AES key wrapping. The
// materials description is not bound into local wrapping.
func (k *SimpleKMS) WrapKey(ctx context.Context, plaintextKey []byte, desc interfaces.MaterialsDescription) ([]byte, error) {
	return cryptoutils.WrapKey(plaintextKey, k.masterKey)
}

// UnwrapKey inverts WrapKey. An integrity check mismatch surfaces as
// interfaces.ErrAuthenticationFailure with no key material returned.
func (k *SimpleKMS) UnwrapKey(ctx context.Context, wrappedKey []byte, desc interfaces.MaterialsDescription) ([]byte, error) {
	return cryptoutils.UnwrapKey(wrappedKey, k.masterKey)
}

// Algorithm reports AESWrap.
func (k *SimpleKMS) Algorithm() interfaces.KeyWrapAlgorithm {
	return interfaces.WrapAES
}
