package envelope

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/halcyonlabs/objstore-encryption/cryptoutils"
	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// Encryptor produces and consumes ContentCryptoMaterial for single
// object operations. It draws content keys and IVs from a RandomSource
// and delegates key protection to a MasterKeyProvider capability.
type Encryptor struct {
	random cryptoutils.RandomSource
	log    *slog.Logger
}

// NewEncryptor creates an envelope encryptor using the given random
// source.
func NewEncryptor(random cryptoutils.RandomSource, log *slog.Logger) *Encryptor {
	return &Encryptor{random: random, log: log}
}

// PrepareForEncrypt draws a fresh 256-bit content key and a scheme-sized
// IV, wraps the key through the provider, and returns the finished
// material together with the body engine bound to that key and IV.
//
// The material and engine share one key buffer; callers release the
// plaintext key with material.Close once the body is encrypted.
func (e *Encryptor) PrepareForEncrypt(ctx context.Context, provider interfaces.MasterKeyProvider, scheme interfaces.ContentCryptoScheme, desc interfaces.MaterialsDescription) (*ContentCryptoMaterial, cryptoutils.CipherEngine, error) {
	keyBytes, err := e.random.GetBytes(cryptoutils.AESKeyLength)
	if err != nil {
		return nil, nil, fmt.Errorf("generating content key: %w", err)
	}
	key := cryptoutils.SecureBufferFrom(keyBytes)
	cryptoutils.ZeroBytes(keyBytes)

	iv, err := e.random.GetBytes(scheme.IVLength())
	if err != nil {
		key.Zero()
		return nil, nil, fmt.Errorf("generating IV: %w", err)
	}

	wrapped, err := provider.WrapKey(ctx, key.Bytes(), desc)
	if err != nil {
		key.Zero()
		return nil, nil, fmt.Errorf("wrapping content key: %w", err)
	}

	if provider.Algorithm() == interfaces.WrapNone {
		e.log.Warn("Content key stored without wrapping - never use this outside tests",
			slog.String("scheme", scheme.String()))
	}

	material := &ContentCryptoMaterial{
		ContentKey:    key,
		WrappedKey:    wrapped,
		IV:            iv,
		Scheme:        scheme,
		WrapAlgorithm: provider.Algorithm(),
		TagLengthBits: scheme.TagLengthBits(),
		Description:   desc.Clone(),
	}

	engine, err := e.engineFor(material)
	if err != nil {
		material.Close()
		return nil, nil, err
	}

	e.log.Debug("Prepared envelope encryption material",
		slog.String("scheme", scheme.String()),
		slog.String("wrap_alg", provider.Algorithm().String()))

	return material, engine, nil
}

// PrepareForDecrypt unwraps the material's content key through the
// provider and rebuilds the body engine for the recorded scheme. When
// the material carries an AEAD tag it is pre-set on the engine before
// any decrypt call is made.
//
// Integrity mismatches from the provider surface unchanged as
// authentication failures and no engine is returned.
func (e *Encryptor) PrepareForDecrypt(ctx context.Context, material *ContentCryptoMaterial, provider interfaces.MasterKeyProvider) (cryptoutils.CipherEngine, error) {
	if err := material.Validate(); err != nil {
		return nil, err
	}
	if provider.Algorithm() != material.WrapAlgorithm {
		return nil, fmt.Errorf("%w: material wrapped with %q but provider implements %q",
			interfaces.ErrInvalidFormat, material.WrapAlgorithm.String(), provider.Algorithm().String())
	}

	keyBytes, err := provider.UnwrapKey(ctx, material.WrappedKey, material.Description)
	if err != nil {
		return nil, fmt.Errorf("unwrapping content key: %w", err)
	}
	material.ContentKey = cryptoutils.SecureBufferFrom(keyBytes)
	cryptoutils.ZeroBytes(keyBytes)

	engine, err := e.engineFor(material)
	if err != nil {
		material.Close()
		return nil, err
	}
	if aead, ok := engine.(cryptoutils.AEADCipherEngine); ok && len(material.Tag) > 0 {
		if err := aead.SetTag(material.Tag); err != nil {
			material.Close()
			return nil, err
		}
	}
	return engine, nil
}

func (e *Encryptor) engineFor(m *ContentCryptoMaterial) (cryptoutils.CipherEngine, error) {
	switch m.Scheme {
	case interfaces.SchemeCBC:
		return cryptoutils.NewCBCEngine(m.ContentKey, m.IV), nil
	case interfaces.SchemeCTR:
		return cryptoutils.NewCTREngine(m.ContentKey, m.IV), nil
	case interfaces.SchemeGCM:
		return cryptoutils.NewGCMEngine(m.ContentKey, m.IV), nil
	default:
		return nil, fmt.Errorf("%w: unsupported content crypto scheme %d", interfaces.ErrInvalidFormat, m.Scheme)
	}
}
