package cryptoutils

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

const (
	// GCMIVLength is the GCM nonce length in bytes.
	GCMIVLength = 12
	// GCMTagLength is the GCM authentication tag length in bytes.
	GCMTagLength = 16
	// GCMTagLengthBits is the tag length recorded in persisted material.
	GCMTagLengthBits = GCMTagLength * 8
)

// GCMEngine implements AEADCipherEngine with AES-256-GCM.
//
// Go's AEAD interface seals and opens whole messages, so the engine
// buffers chunks and produces its output at finalize. On the encrypt
// path the tag is exposed through Tag as a side output; on the decrypt
// path the expected tag must be supplied with SetTag before
// FinalizeDecrypt, and no plaintext byte leaves the engine unless the
// tag verifies.
type GCMEngine struct {
	core engineCore
	key  *SecureBuffer
	iv   []byte

	buf []byte
	tag []byte
}

// NewGCMEngine builds a GCM engine bound to key and iv. Lengths are
// validated lazily when the buffered input is sealed or opened.
func NewGCMEngine(key *SecureBuffer, iv []byte) *GCMEngine {
	return &GCMEngine{key: key, iv: append([]byte(nil), iv...)}
}

func (e *GCMEngine) aead() (cipher.AEAD, error) {
	if e.key.Len() != AESKeyLength {
		return nil, fmt.Errorf("%w: GCM requires a %d-byte key, got %d", interfaces.ErrSetupFailure, AESKeyLength, e.key.Len())
	}
	if len(e.iv) != GCMIVLength {
		return nil, fmt.Errorf("%w: GCM requires a %d-byte IV, got %d", interfaces.ErrSetupFailure, GCMIVLength, len(e.iv))
	}
	block, err := aes.NewCipher(e.key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrSetupFailure, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrSetupFailure, err)
	}
	return aead, nil
}

// EncryptChunk buffers the plaintext chunk. Ciphertext is produced by
// FinalizeEncrypt.
func (e *GCMEngine) EncryptChunk(plaintext []byte) ([]byte, error) {
	if err := e.core.beginEncrypt(); err != nil {
		return nil, err
	}
	e.buf = append(e.buf, plaintext...)
	return nil, nil
}

// FinalizeEncrypt seals the buffered plaintext and returns the full
// ciphertext. The authentication tag is retrievable through Tag and is
// not part of the returned chunk.
func (e *GCMEngine) FinalizeEncrypt() ([]byte, error) {
	if err := e.core.finishEncrypt(); err != nil {
		return nil, err
	}
	aead, err := e.aead()
	if err != nil {
		return nil, e.core.fail(err)
	}

	sealed := aead.Seal(nil, e.iv, e.buf, nil)
	ZeroBytes(e.buf)
	e.buf = nil

	split := len(sealed) - GCMTagLength
	e.tag = sealed[split:]
	return sealed[:split], nil
}

// Tag returns the authentication tag computed by FinalizeEncrypt, nil
// before finalization.
func (e *GCMEngine) Tag() []byte {
	return e.tag
}

// SetTag supplies the expected tag for the decrypt path. Must be called
// before FinalizeDecrypt.
func (e *GCMEngine) SetTag(tag []byte) error {
	if e.core.state == stateFailed {
		return e.core.failure
	}
	if e.core.state == stateEncrypting || e.core.state == stateFinalized {
		return e.core.fail(fmt.Errorf("%w: tag set on an engine not in decrypt mode", interfaces.ErrUsage))
	}
	e.tag = append([]byte(nil), tag...)
	return nil
}

// DecryptChunk buffers the ciphertext chunk. Plaintext is released only
// by a verified FinalizeDecrypt.
func (e *GCMEngine) DecryptChunk(ciphertext []byte) ([]byte, error) {
	if err := e.core.beginDecrypt(); err != nil {
		return nil, err
	}
	e.buf = append(e.buf, ciphertext...)
	return nil, nil
}

// FinalizeDecrypt verifies the tag over the buffered ciphertext and
// returns the plaintext. A missing or short tag fails before the cipher
// is ever constructed; a tag mismatch discards all computed plaintext.
func (e *GCMEngine) FinalizeDecrypt() ([]byte, error) {
	if err := e.core.finishDecrypt(); err != nil {
		return nil, err
	}
	// A short tag would weaken authentication to however many bytes the
	// attacker supplied; reject it before touching the cipher.
	if len(e.tag) < GCMTagLength {
		e.buf = nil
		return nil, e.core.fail(fmt.Errorf("%w: authentication tag missing or shorter than %d bytes", interfaces.ErrAuthenticationFailure, GCMTagLength))
	}
	aead, err := e.aead()
	if err != nil {
		return nil, e.core.fail(err)
	}

	sealed := append(e.buf, e.tag[:GCMTagLength]...)
	e.buf = nil
	plaintext, err := aead.Open(nil, e.iv, sealed, nil)
	if err != nil {
		return nil, e.core.fail(fmt.Errorf("%w: GCM tag verification failed", interfaces.ErrAuthenticationFailure))
	}
	return plaintext, nil
}

// Reset returns the engine to Idle with its key and IV intact.
func (e *GCMEngine) Reset() error {
	e.core.reset()
	ZeroBytes(e.buf)
	e.buf = nil
	e.tag = nil
	return nil
}
