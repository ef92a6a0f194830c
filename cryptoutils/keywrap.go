package cryptoutils

import (
	"crypto/aes"
	"encoding/binary"
	"fmt"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// integrityCheckValue is the fixed RFC 3394 initial value. Unwrap must
// recover it exactly or the wrapped key is rejected.
const integrityCheckValue = 0xA6A6A6A6A6A6A6A6

// WrapKey wraps plaintextKey under kek with deterministic AES key
// wrapping (RFC 3394). The key material must be a multiple of 8 bytes
// and at least 16 bytes; the output is 8 bytes longer than the input.
//
// Unlike the streaming engines this transform takes its whole input in
// one call; key material is small by construction.
func WrapKey(plaintextKey, kek []byte) ([]byte, error) {
	if len(plaintextKey) < 16 || len(plaintextKey)%8 != 0 {
		return nil, fmt.Errorf("%w: key material must be a multiple of 8 bytes and at least 16 bytes, got %d", interfaces.ErrInvalidFormat, len(plaintextKey))
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrSetupFailure, err)
	}

	n := len(plaintextKey) / 8
	a := uint64(integrityCheckValue)
	r := make([]uint64, n)
	for i := range r {
		r[i] = binary.BigEndian.Uint64(plaintextKey[i*8:])
	}

	var b [aes.BlockSize]byte
	for j := 0; j <= 5; j++ {
		for i := 1; i <= n; i++ {
			binary.BigEndian.PutUint64(b[:8], a)
			binary.BigEndian.PutUint64(b[8:], r[i-1])
			block.Encrypt(b[:], b[:])
			a = binary.BigEndian.Uint64(b[:8]) ^ uint64(n*j+i)
			r[i-1] = binary.BigEndian.Uint64(b[8:])
		}
	}

	out := make([]byte, (n+1)*8)
	binary.BigEndian.PutUint64(out, a)
	for i, w := range r {
		binary.BigEndian.PutUint64(out[(i+1)*8:], w)
	}
	return out, nil
}

// UnwrapKey inverts WrapKey. A recovered integrity value that does not
// match the RFC constant means the wrapped key was corrupted or wrapped
// under a different key encryption key; no key material is returned.
func UnwrapKey(wrappedKey, kek []byte) ([]byte, error) {
	if len(wrappedKey) < 24 || len(wrappedKey)%8 != 0 {
		return nil, fmt.Errorf("%w: wrapped key must be a multiple of 8 bytes and at least 24 bytes, got %d", interfaces.ErrInvalidFormat, len(wrappedKey))
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrSetupFailure, err)
	}

	n := len(wrappedKey)/8 - 1
	a := binary.BigEndian.Uint64(wrappedKey)
	r := make([]uint64, n)
	for i := range r {
		r[i] = binary.BigEndian.Uint64(wrappedKey[(i+1)*8:])
	}

	var b [aes.BlockSize]byte
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			binary.BigEndian.PutUint64(b[:8], a^uint64(n*j+i))
			binary.BigEndian.PutUint64(b[8:], r[i-1])
			block.Decrypt(b[:], b[:])
			a = binary.BigEndian.Uint64(b[:8])
			r[i-1] = binary.BigEndian.Uint64(b[8:])
		}
	}

	if a != integrityCheckValue {
		return nil, fmt.Errorf("%w: key wrap integrity check mismatch", interfaces.ErrAuthenticationFailure)
	}

	out := make([]byte, n*8)
	for i, w := range r {
		binary.BigEndian.PutUint64(out[i*8:], w)
	}
	return out, nil
}
