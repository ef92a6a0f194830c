package kms

import (
	"context"
	"log/slog"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// PlaintextKMS stores content keys without wrapping. It exists so tests
// and debugging sessions can inspect persisted material; every use is
// logged loudly and the persisted wrap-algorithm field stays empty so
// readers can tell these objects apart.
type PlaintextKMS struct {
	log *slog.Logger
}

// NewPlaintextKMS creates the pass-through provider. Construction is
// warned about immediately so the configuration is visible in logs.
func NewPlaintextKMS(log *slog.Logger) *PlaintextKMS {
	log.Warn("Plaintext key provider configured - content keys will be persisted UNWRAPPED")
	return &PlaintextKMS{log: log}
}

// WrapKey returns the key unchanged.
func (k *PlaintextKMS) WrapKey(ctx context.Context, plaintextKey []byte, desc interfaces.MaterialsDescription) ([]byte, error) {
	k.log.Warn("Persisting content key without wrapping")
	return append([]byte(nil), plaintextKey...), nil
}

// UnwrapKey returns the stored key unchanged.
func (k *PlaintextKMS) UnwrapKey(ctx context.Context, wrappedKey []byte, desc interfaces.MaterialsDescription) ([]byte, error) {
	return append([]byte(nil), wrappedKey...), nil
}

// Algorithm reports WrapNone.
func (k *PlaintextKMS) Algorithm() interfaces.KeyWrapAlgorithm {
	return interfaces.WrapNone
}
