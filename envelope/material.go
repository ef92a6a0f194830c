package envelope

import (
	"fmt"

	"github.com/halcyonlabs/objstore-encryption/cryptoutils"
	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// ContentCryptoMaterial holds everything a compatible reader needs to
// decrypt one object: the wrapped content encryption key, the IV, the
// chosen scheme and wrap algorithm, the AEAD tag length, and the
// caller's opaque materials description.
//
// The material is created once per object write, is immutable after the
// wrap step, and is reconstructed from its persisted form on every read.
// It belongs to exactly one encrypt or decrypt operation. The plaintext
// content key lives only in memory inside ContentKey and is never part
// of the persisted field set.
type ContentCryptoMaterial struct {
	// ContentKey is the plaintext content encryption key. Populated
	// during encryption and after a successful unwrap; zeroed by Close.
	ContentKey *cryptoutils.SecureBuffer

	// WrappedKey is the content key after the key wrap transform, the
	// only form in which the key is ever persisted.
	WrappedKey []byte

	// IV is the initialization vector, 16 bytes for CBC/CTR and 12 for
	// GCM.
	IV []byte

	// Scheme is the content crypto scheme used for the object body.
	Scheme interfaces.ContentCryptoScheme

	// WrapAlgorithm records how WrappedKey was produced.
	WrapAlgorithm interfaces.KeyWrapAlgorithm

	// TagLengthBits is the AEAD tag length in bits, 0 for non-AEAD
	// schemes.
	TagLengthBits int

	// Tag is the AEAD authentication tag for the object body. It is
	// carried with the ciphertext rather than the persisted field set:
	// writers fold it into the stored body, readers split it back out
	// before decryption.
	Tag []byte

	// Description carries caller-supplied annotations, persisted
	// verbatim and never interpreted by the crypto logic.
	Description interfaces.MaterialsDescription
}

// Validate checks internal consistency of a reconstructed material.
func (m *ContentCryptoMaterial) Validate() error {
	if len(m.WrappedKey) == 0 {
		return fmt.Errorf("%w: material has no wrapped key", interfaces.ErrInvalidFormat)
	}
	if len(m.IV) != m.Scheme.IVLength() {
		return fmt.Errorf("%w: scheme %s requires a %d-byte IV, material has %d",
			interfaces.ErrInvalidFormat, m.Scheme, m.Scheme.IVLength(), len(m.IV))
	}
	if m.TagLengthBits != m.Scheme.TagLengthBits() {
		return fmt.Errorf("%w: scheme %s requires tag length %d, material has %d",
			interfaces.ErrInvalidFormat, m.Scheme, m.Scheme.TagLengthBits(), m.TagLengthBits)
	}
	return nil
}

// Close zeroes the plaintext content key. Safe to call more than once.
func (m *ContentCryptoMaterial) Close() {
	if m.ContentKey != nil {
		m.ContentKey.Zero()
	}
}
