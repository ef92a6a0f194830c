package cryptoutils

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// AESKeyLength is the content encryption key length in bytes (AES-256).
const AESKeyLength = 32

// CBCEngine implements CipherEngine with AES-256-CBC and PKCS#7 padding.
// Decrypt withholds the trailing block until finalize so the padding
// block is never released as plaintext.
type CBCEngine struct {
	core engineCore
	key  *SecureBuffer
	iv   []byte

	mode    cipher.BlockMode
	pending []byte
}

// NewCBCEngine builds a CBC engine bound to key and iv. Lengths are
// validated lazily on the first chunk call.
func NewCBCEngine(key *SecureBuffer, iv []byte) *CBCEngine {
	return &CBCEngine{key: key, iv: append([]byte(nil), iv...)}
}

func (e *CBCEngine) setup(decrypt bool) error {
	if e.mode != nil {
		return nil
	}
	if e.key.Len() != AESKeyLength {
		return fmt.Errorf("%w: CBC requires a %d-byte key, got %d", interfaces.ErrSetupFailure, AESKeyLength, e.key.Len())
	}
	if len(e.iv) != aes.BlockSize {
		return fmt.Errorf("%w: CBC requires a %d-byte IV, got %d", interfaces.ErrSetupFailure, aes.BlockSize, len(e.iv))
	}
	block, err := aes.NewCipher(e.key.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrSetupFailure, err)
	}
	if decrypt {
		e.mode = cipher.NewCBCDecrypter(block, e.iv)
	} else {
		e.mode = cipher.NewCBCEncrypter(block, e.iv)
	}
	return nil
}

// EncryptChunk encrypts all complete blocks accumulated so far and
// buffers the remainder.
func (e *CBCEngine) EncryptChunk(plaintext []byte) ([]byte, error) {
	if err := e.core.beginEncrypt(); err != nil {
		return nil, err
	}
	if err := e.setup(false); err != nil {
		return nil, e.core.fail(err)
	}

	e.pending = append(e.pending, plaintext...)
	n := len(e.pending) &^ (aes.BlockSize - 1)
	if n == 0 {
		return nil, nil
	}
	out := make([]byte, n)
	e.mode.CryptBlocks(out, e.pending[:n])
	e.pending = e.pending[:copy(e.pending, e.pending[n:])]
	return out, nil
}

// FinalizeEncrypt pads the buffered remainder and returns the final
// ciphertext block.
func (e *CBCEngine) FinalizeEncrypt() ([]byte, error) {
	if err := e.core.finishEncrypt(); err != nil {
		return nil, err
	}
	if err := e.setup(false); err != nil {
		return nil, e.core.fail(err)
	}

	pad := aes.BlockSize - len(e.pending)%aes.BlockSize
	for i := 0; i < pad; i++ {
		e.pending = append(e.pending, byte(pad))
	}
	out := make([]byte, len(e.pending))
	e.mode.CryptBlocks(out, e.pending)
	e.pending = nil
	return out, nil
}

// DecryptChunk decrypts complete blocks, always holding back the last
// block for unpadding at finalize.
func (e *CBCEngine) DecryptChunk(ciphertext []byte) ([]byte, error) {
	if err := e.core.beginDecrypt(); err != nil {
		return nil, err
	}
	if err := e.setup(true); err != nil {
		return nil, e.core.fail(err)
	}

	e.pending = append(e.pending, ciphertext...)
	n := len(e.pending) - aes.BlockSize
	if n <= 0 {
		return nil, nil
	}
	n &^= aes.BlockSize - 1
	if n == 0 {
		return nil, nil
	}
	out := make([]byte, n)
	e.mode.CryptBlocks(out, e.pending[:n])
	e.pending = e.pending[:copy(e.pending, e.pending[n:])]
	return out, nil
}

// FinalizeDecrypt decrypts the held-back block and strips the PKCS#7
// padding. Inputs that are not a block multiple are a format error.
func (e *CBCEngine) FinalizeDecrypt() ([]byte, error) {
	if err := e.core.finishDecrypt(); err != nil {
		return nil, err
	}
	if err := e.setup(true); err != nil {
		return nil, e.core.fail(err)
	}

	if len(e.pending) != aes.BlockSize {
		e.pending = nil
		return nil, e.core.fail(fmt.Errorf("%w: CBC ciphertext length is not a multiple of the block size", interfaces.ErrInvalidFormat))
	}
	block := make([]byte, aes.BlockSize)
	e.mode.CryptBlocks(block, e.pending)
	e.pending = nil

	pad := int(block[aes.BlockSize-1])
	if pad < 1 || pad > aes.BlockSize {
		return nil, e.core.fail(fmt.Errorf("%w: invalid CBC padding", interfaces.ErrInvalidFormat))
	}
	for _, b := range block[aes.BlockSize-pad:] {
		if int(b) != pad {
			return nil, e.core.fail(fmt.Errorf("%w: invalid CBC padding", interfaces.ErrInvalidFormat))
		}
	}
	return block[:aes.BlockSize-pad], nil
}

// Reset returns the engine to Idle with its key and IV intact.
func (e *CBCEngine) Reset() error {
	e.core.reset()
	e.mode = nil
	ZeroBytes(e.pending)
	e.pending = nil
	return nil
}
