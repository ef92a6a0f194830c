package cryptoutils

import (
	"fmt"

	"github.com/halcyonlabs/objstore-encryption/interfaces"
)

// CipherEngine is a stateful symmetric transform over byte chunks.
//
// An engine moves Idle -> encrypting -> finalized or Idle -> decrypting
// -> finalized; the first chunk call runs mode-specific setup lazily.
// Encrypt and decrypt are mutually exclusive for one instance unless
// Reset returns it to Idle. Any failure is sticky: every later call
// reports the recorded error without side effects until Reset.
//
// Chunked calls produce output byte-identical to a single call over the
// concatenated input; block modes may withhold up to one block per chunk
// and flush it on finalize. The GCM variant withholds everything until
// finalize, since plaintext must never leave an unverified engine.
//
// Engines are owned by exactly one logical operation and are not safe
// for concurrent use.
type CipherEngine interface {
	// EncryptChunk consumes the next plaintext chunk and returns the
	// ciphertext produced so far.
	EncryptChunk(plaintext []byte) ([]byte, error)

	// FinalizeEncrypt flushes buffered input and returns the final
	// ciphertext chunk.
	FinalizeEncrypt() ([]byte, error)

	// DecryptChunk consumes the next ciphertext chunk and returns the
	// plaintext produced so far.
	DecryptChunk(ciphertext []byte) ([]byte, error)

	// FinalizeDecrypt flushes buffered input and returns the final
	// plaintext chunk.
	FinalizeDecrypt() ([]byte, error)

	// Reset returns the engine to Idle, clearing buffered state and any
	// recorded failure.
	Reset() error
}

// AEADCipherEngine is implemented by authenticated modes. The tag is a
// side output of encryption and a required side input of decryption; it
// is never part of the ciphertext chunk stream.
type AEADCipherEngine interface {
	CipherEngine

	// SetTag supplies the expected authentication tag before
	// FinalizeDecrypt is called.
	SetTag(tag []byte) error

	// Tag returns the authentication tag computed by FinalizeEncrypt,
	// or nil before finalization.
	Tag() []byte
}

type engineState int

const (
	stateIdle engineState = iota
	stateEncrypting
	stateDecrypting
	stateFinalized
	stateFailed
)

// engineCore carries the state machine shared by all engine variants.
// Each variant embeds its own instance; there is no shared mutable
// state across engines.
type engineCore struct {
	state   engineState
	failure error
}

// fail records err, moves the engine to the terminal Failed state and
// returns the recorded error.
func (c *engineCore) fail(err error) error {
	c.state = stateFailed
	c.failure = err
	return err
}

// beginEncrypt validates an EncryptChunk call, lazily entering
// encrypting from Idle.
func (c *engineCore) beginEncrypt() error {
	switch c.state {
	case stateFailed:
		return c.failure
	case stateIdle:
		c.state = stateEncrypting
		return nil
	case stateEncrypting:
		return nil
	case stateDecrypting:
		return c.fail(fmt.Errorf("%w: encrypt called on an engine in decrypt mode", interfaces.ErrUsage))
	default:
		return c.fail(fmt.Errorf("%w: encrypt called after finalize without reset", interfaces.ErrUsage))
	}
}

// beginDecrypt validates a DecryptChunk call.
func (c *engineCore) beginDecrypt() error {
	switch c.state {
	case stateFailed:
		return c.failure
	case stateIdle:
		c.state = stateDecrypting
		return nil
	case stateDecrypting:
		return nil
	case stateEncrypting:
		return c.fail(fmt.Errorf("%w: decrypt called on an engine in encrypt mode", interfaces.ErrUsage))
	default:
		return c.fail(fmt.Errorf("%w: decrypt called after finalize without reset", interfaces.ErrUsage))
	}
}

// finishEncrypt validates a FinalizeEncrypt call. Finalizing an Idle
// engine encrypts the empty message.
func (c *engineCore) finishEncrypt() error {
	switch c.state {
	case stateFailed:
		return c.failure
	case stateIdle, stateEncrypting:
		c.state = stateFinalized
		return nil
	case stateDecrypting:
		return c.fail(fmt.Errorf("%w: finalize encrypt called on an engine in decrypt mode", interfaces.ErrUsage))
	default:
		return c.fail(fmt.Errorf("%w: engine already finalized", interfaces.ErrUsage))
	}
}

// finishDecrypt validates a FinalizeDecrypt call.
func (c *engineCore) finishDecrypt() error {
	switch c.state {
	case stateFailed:
		return c.failure
	case stateIdle, stateDecrypting:
		c.state = stateFinalized
		return nil
	case stateEncrypting:
		return c.fail(fmt.Errorf("%w: finalize decrypt called on an engine in encrypt mode", interfaces.ErrUsage))
	default:
		return c.fail(fmt.Errorf("%w: engine already finalized", interfaces.ErrUsage))
	}
}

// reset returns the state machine to Idle and clears any failure.
func (c *engineCore) reset() {
	c.state = stateIdle
	c.failure = nil
}

// mode reports whether the engine is currently decrypting. Used by
// variants that keep one lazily built stream per direction.
func (c *engineCore) decrypting() bool {
	return c.state == stateDecrypting
}
