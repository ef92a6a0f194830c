package cryptoutils

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// CTREngine implements CipherEngine with AES-256-CTR. The mode is a
// stream cipher: every chunk's output has exactly the input's length and
// finalize flushes nothing.
type CTREngine struct {
	core engineCore
	key  *SecureBuffer
	iv   []byte

	stream cipher.Stream
}

// NewCTREngine builds a CTR engine bound to key and initial counter
// block iv. Lengths are validated lazily on the first chunk call.
func NewCTREngine(key *SecureBuffer, iv []byte) *CTREngine {
	return &CTREngine{key: key, iv: append([]byte(nil), iv...)}
}

func (e *CTREngine) setup() error {
	if e.stream != nil {
		return nil
	}
	if e.key.Len() != AESKeyLength {
		return fmt.Errorf("%w: CTR requires a %d-byte key, got %d", interfaces.ErrSetupFailure, AESKeyLength, e.key.Len())
	}
	if len(e.iv) != aes.BlockSize {
		return fmt.Errorf("%w: CTR requires a %d-byte initial counter block, got %d", interfaces.ErrSetupFailure, aes.BlockSize, len(e.iv))
	}
	block, err := aes.NewCipher(e.key.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrSetupFailure, err)
	}
	e.stream = cipher.NewCTR(block, e.iv)
	return nil
}

func (e *CTREngine) xorChunk(in []byte) []byte {
	out := make([]byte, len(in))
	e.stream.XORKeyStream(out, in)
	return out
}

// EncryptChunk encrypts the chunk in place in the keystream.
func (e *CTREngine) EncryptChunk(plaintext []byte) ([]byte, error) {
	if err := e.core.beginEncrypt(); err != nil {
		return nil, err
	}
	if err := e.setup(); err != nil {
		return nil, e.core.fail(err)
	}
	return e.xorChunk(plaintext), nil
}

// FinalizeEncrypt completes the operation; CTR buffers nothing.
func (e *CTREngine) FinalizeEncrypt() ([]byte, error) {
	if err := e.core.finishEncrypt(); err != nil {
		return nil, err
	}
	return nil, nil
}

// DecryptChunk decrypts the chunk; identical keystream to encryption.
func (e *CTREngine) DecryptChunk(ciphertext []byte) ([]byte, error) {
	if err := e.core.beginDecrypt(); err != nil {
		return nil, err
	}
	if err := e.setup(); err != nil {
		return nil, e.core.fail(err)
	}
	return e.xorChunk(ciphertext), nil
}

// FinalizeDecrypt completes the operation; CTR buffers nothing.
func (e *CTREngine) FinalizeDecrypt() ([]byte, error) {
	if err := e.core.finishDecrypt(); err != nil {
		return nil, err
	}
	return nil, nil
}

// Reset returns the engine to Idle. The keystream restarts from the
// original counter block.
func (e *CTREngine) Reset() error {
	e.core.reset()
	e.stream = nil
	return nil
}
