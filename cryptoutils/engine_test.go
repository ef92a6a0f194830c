package cryptoutils

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"testing"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() *SecureBuffer {
	key := make([]byte, AESKeyLength)
	for i := range key {
		key[i] = byte(i)
	}
	return SecureBufferFrom(key)
}

func testIV(n int) []byte {
	iv := make([]byte, n)
	for i := range iv {
		iv[i] = byte(0xf0 - i)
	}
	return iv
}

func testMessage(n int) []byte {
	msg := make([]byte, n)
	for i := range msg {
		msg[i] = byte(i * 7)
	}
	return msg
}

// encryptChunked splits msg at the given boundaries and returns the
// concatenated engine output including the finalize chunk.
func encryptChunked(t *testing.T, e CipherEngine, msg []byte, chunkSizes []int) []byte {
	t.Helper()
	var out []byte
	rest := msg
	for _, n := range chunkSizes {
		if n > len(rest) {
			n = len(rest)
		}
		chunk, err := e.EncryptChunk(rest[:n])
		require.NoError(t, err)
		out = append(out, chunk...)
		rest = rest[n:]
	}
	if len(rest) > 0 {
		chunk, err := e.EncryptChunk(rest)
		require.NoError(t, err)
		out = append(out, chunk...)
	}
	final, err := e.FinalizeEncrypt()
	require.NoError(t, err)
	return append(out, final...)
}

func decryptChunked(t *testing.T, e CipherEngine, ct []byte, chunkSizes []int) []byte {
	t.Helper()
	var out []byte
	rest := ct
	for _, n := range chunkSizes {
		if n > len(rest) {
			n = len(rest)
		}
		chunk, err := e.DecryptChunk(rest[:n])
		require.NoError(t, err)
		out = append(out, chunk...)
		rest = rest[n:]
	}
	if len(rest) > 0 {
		chunk, err := e.DecryptChunk(rest)
		require.NoError(t, err)
		out = append(out, chunk...)
	}
	final, err := e.FinalizeDecrypt()
	require.NoError(t, err)
	return append(out, final...)
}

func TestEnginesRoundTripChunked(t *testing.T) {
	engines := map[string]func() CipherEngine{
		"cbc": func() CipherEngine { return NewCBCEngine(testKey(), testIV(16)) },
		"ctr": func() CipherEngine { return NewCTREngine(testKey(), testIV(16)) },
		"gcm": func() CipherEngine { return NewGCMEngine(testKey(), testIV(12)) },
	}
	msgSizes := []int{0, 1, 15, 16, 17, 31, 32, 33, 1000}
	splits := [][]int{nil, {1, 1, 1}, {5}, {16, 16}, {7, 13, 256}, {1000}}

	for name, mk := range engines {
		t.Run(name, func(t *testing.T) {
			for _, size := range msgSizes {
				msg := testMessage(size)

				reference := encryptChunked(t, mk(), msg, nil)
				for _, split := range splits {
					enc := mk()
					ct := encryptChunked(t, enc, msg, split)
					assert.Equal(t, reference, ct, "size %d split %v: chunked output differs from one-shot", size, split)

					if gcm, ok := enc.(AEADCipherEngine); ok {
						dec := mk().(AEADCipherEngine)
						require.NoError(t, dec.SetTag(gcm.Tag()))
						pt := decryptChunked(t, dec, ct, split)
						assert.Equal(t, msg, pt, "size %d split %v", size, split)
					} else {
						pt := decryptChunked(t, mk(), ct, split)
						assert.Equal(t, msg, pt, "size %d split %v", size, split)
					}
				}
			}
		})
	}
}

func TestCTRLengthAndCompatibility(t *testing.T) {
	e := NewCTREngine(testKey(), testIV(16))
	msg := testMessage(1234)

	var ct []byte
	for _, n := range []int{1, 15, 16, 100, 1102} {
		chunk, err := e.EncryptChunk(msg[len(ct) : len(ct)+n])
		require.NoError(t, err)
		assert.Len(t, chunk, n, "CTR ciphertext chunk length equals plaintext chunk length")
		ct = append(ct, chunk...)
	}
	final, err := e.FinalizeEncrypt()
	require.NoError(t, err)
	assert.Empty(t, final)

	// Byte-exact against the standard library's stream.
	block, err := aes.NewCipher(testKey().Bytes())
	require.NoError(t, err)
	want := make([]byte, len(msg))
	cipher.NewCTR(block, testIV(16)).XORKeyStream(want, msg)
	assert.Equal(t, want, ct)
}

func TestCBCCiphertextLength(t *testing.T) {
	for _, size := range []int{0, 1, 15, 16, 17, 48} {
		e := NewCBCEngine(testKey(), testIV(16))
		ct := encryptChunked(t, e, testMessage(size), nil)
		want := (size/aes.BlockSize + 1) * aes.BlockSize
		assert.Len(t, ct, want, "plaintext size %d", size)
	}
}

func TestCBCDecryptRejectsPartialBlock(t *testing.T) {
	e := NewCBCEngine(testKey(), testIV(16))
	_, err := e.DecryptChunk(testMessage(17))
	require.NoError(t, err)

	_, err = e.FinalizeDecrypt()
	assert.ErrorIs(t, err, interfaces.ErrInvalidFormat)

	// Failure is sticky.
	_, err = e.DecryptChunk([]byte{1})
	assert.ErrorIs(t, err, interfaces.ErrInvalidFormat)
}

func TestGCMCompatibleWithStdlibSeal(t *testing.T) {
	msg := testMessage(333)

	e := NewGCMEngine(testKey(), testIV(12))
	ct := encryptChunked(t, e, msg, []int{100, 100})

	block, err := aes.NewCipher(testKey().Bytes())
	require.NoError(t, err)
	aead, err := cipher.NewGCM(block)
	require.NoError(t, err)
	sealed := aead.Seal(nil, testIV(12), msg, nil)

	assert.Equal(t, sealed[:len(sealed)-GCMTagLength], ct)
	assert.Equal(t, sealed[len(sealed)-GCMTagLength:], e.Tag())
}

func TestGCMBitFlipFailsAuthentication(t *testing.T) {
	msg := testMessage(64)

	enc := NewGCMEngine(testKey(), testIV(12))
	ct := encryptChunked(t, enc, msg, nil)
	tag := enc.Tag()

	flip := func(t *testing.T, ct, tag []byte) {
		t.Helper()
		dec := NewGCMEngine(testKey(), testIV(12))
		require.NoError(t, dec.SetTag(tag))
		_, err := dec.DecryptChunk(ct)
		require.NoError(t, err)
		pt, err := dec.FinalizeDecrypt()
		assert.ErrorIs(t, err, interfaces.ErrAuthenticationFailure)
		assert.Nil(t, pt, "no plaintext on authentication failure")
	}

	for bit := 0; bit < len(ct)*8; bit += 17 {
		corrupted := append([]byte(nil), ct...)
		corrupted[bit/8] ^= 1 << (bit % 8)
		flip(t, corrupted, tag)
	}
	for bit := 0; bit < len(tag)*8; bit++ {
		corrupted := append([]byte(nil), tag...)
		corrupted[bit/8] ^= 1 << (bit % 8)
		flip(t, ct, corrupted)
	}
}

func TestGCMDecryptRequiresTag(t *testing.T) {
	t.Run("missing tag", func(t *testing.T) {
		dec := NewGCMEngine(testKey(), testIV(12))
		_, err := dec.DecryptChunk(testMessage(32))
		require.NoError(t, err)
		_, err = dec.FinalizeDecrypt()
		assert.ErrorIs(t, err, interfaces.ErrAuthenticationFailure)
	})

	t.Run("short tag", func(t *testing.T) {
		dec := NewGCMEngine(testKey(), testIV(12))
		require.NoError(t, dec.SetTag(make([]byte, GCMTagLength-1)))
		_, err := dec.DecryptChunk(testMessage(32))
		require.NoError(t, err)
		_, err = dec.FinalizeDecrypt()
		assert.ErrorIs(t, err, interfaces.ErrAuthenticationFailure)
	})
}

func TestEngineModeExclusivity(t *testing.T) {
	for name, mk := range map[string]func() CipherEngine{
		"cbc": func() CipherEngine { return NewCBCEngine(testKey(), testIV(16)) },
		"ctr": func() CipherEngine { return NewCTREngine(testKey(), testIV(16)) },
		"gcm": func() CipherEngine { return NewGCMEngine(testKey(), testIV(12)) },
	} {
		t.Run(name, func(t *testing.T) {
			e := mk()
			_, err := e.DecryptChunk(testMessage(16))
			require.NoError(t, err)

			out, err := e.EncryptChunk(testMessage(16))
			assert.ErrorIs(t, err, interfaces.ErrUsage)
			assert.Nil(t, out)

			// Sticky until reset.
			_, err = e.DecryptChunk(testMessage(16))
			assert.ErrorIs(t, err, interfaces.ErrUsage)

			require.NoError(t, e.Reset())
			_, err = e.EncryptChunk(testMessage(16))
			assert.NoError(t, err)
		})
	}
}

func TestEngineFinalizeTwice(t *testing.T) {
	e := NewCBCEngine(testKey(), testIV(16))
	_, err := e.EncryptChunk(testMessage(20))
	require.NoError(t, err)
	_, err = e.FinalizeEncrypt()
	require.NoError(t, err)

	_, err = e.FinalizeEncrypt()
	assert.ErrorIs(t, err, interfaces.ErrUsage)

	_, err = e.EncryptChunk(testMessage(4))
	assert.ErrorIs(t, err, interfaces.ErrUsage)
}

func TestEngineSetupErrors(t *testing.T) {
	shortKey := SecureBufferFrom(make([]byte, 16))

	_, err := NewCBCEngine(shortKey, testIV(16)).EncryptChunk([]byte("x"))
	assert.ErrorIs(t, err, interfaces.ErrSetupFailure)

	_, err = NewCTREngine(testKey(), testIV(8)).EncryptChunk([]byte("x"))
	assert.ErrorIs(t, err, interfaces.ErrSetupFailure)

	e := NewGCMEngine(testKey(), testIV(16))
	_, err = e.EncryptChunk([]byte("x"))
	require.NoError(t, err)
	_, err = e.FinalizeEncrypt()
	assert.ErrorIs(t, err, interfaces.ErrSetupFailure)
}

func TestEngineResetRestartsStream(t *testing.T) {
	e := NewCTREngine(testKey(), testIV(16))
	first, err := e.EncryptChunk(testMessage(40))
	require.NoError(t, err)
	_, err = e.FinalizeEncrypt()
	require.NoError(t, err)

	require.NoError(t, e.Reset())
	second, err := e.EncryptChunk(testMessage(40))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "reset restarts the keystream from the original counter")
}
