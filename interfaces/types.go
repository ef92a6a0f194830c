package interfaces

import (
	"errors"
	"fmt"
)

// ContentCryptoScheme selects the symmetric mode used for object bodies.
type ContentCryptoScheme int

const (
	// SchemeCBC is AES-256 in CBC mode with PKCS#7 padding.
	SchemeCBC ContentCryptoScheme = iota
	// SchemeCTR is AES-256 in counter mode, no padding.
	SchemeCTR
	// SchemeGCM is AES-256-GCM authenticated encryption.
	SchemeGCM
)

// String returns the persisted short name for the scheme.
func (s ContentCryptoScheme) String() string {
	switch s {
	case SchemeCBC:
		return "AES/CBC"
	case SchemeCTR:
		return "AES/CTR"
	case SchemeGCM:
		return "AES/GCM"
	default:
		return "unknown"
	}
}

// IVLength returns the initialization vector length in bytes for the scheme.
func (s ContentCryptoScheme) IVLength() int {
	if s == SchemeGCM {
		return 12
	}
	return 16
}

// TagLengthBits returns the authentication tag length in bits, 0 for
// non-AEAD schemes.
func (s ContentCryptoScheme) TagLengthBits() int {
	if s == SchemeGCM {
		return 128
	}
	return 0
}

// ParseContentCryptoScheme maps a persisted short name back to a scheme.
func ParseContentCryptoScheme(name string) (ContentCryptoScheme, error) {
	switch name {
	case "AES/CBC":
		return SchemeCBC, nil
	case "AES/CTR":
		return SchemeCTR, nil
	case "AES/GCM":
		return SchemeGCM, nil
	default:
		return 0, fmt.Errorf("%w: unknown content crypto scheme %q", ErrInvalidFormat, name)
	}
}

// KeyWrapAlgorithm identifies how the content key is protected at rest.
type KeyWrapAlgorithm int

const (
	// WrapNone stores the content key without wrapping. Intended for
	// tests and debugging only; providers flag its use at the boundary.
	WrapNone KeyWrapAlgorithm = iota
	// WrapAES is deterministic AES key wrapping (RFC 3394) under a
	// locally held master key.
	WrapAES
	// WrapKMS delegates wrapping to an external key management service.
	WrapKMS
)

// String returns the persisted short name for the wrap algorithm. The
// empty string marks unwrapped storage.
func (a KeyWrapAlgorithm) String() string {
	switch a {
	case WrapAES:
		return "AESWrap"
	case WrapKMS:
		return "kms"
	default:
		return ""
	}
}

// ParseKeyWrapAlgorithm maps a persisted short name back to an algorithm.
func ParseKeyWrapAlgorithm(name string) (KeyWrapAlgorithm, error) {
	switch name {
	case "AESWrap":
		return WrapAES, nil
	case "kms":
		return WrapKMS, nil
	case "":
		return WrapNone, nil
	default:
		return 0, fmt.Errorf("%w: unknown key wrap algorithm %q", ErrInvalidFormat, name)
	}
}

// MaterialsDescription carries caller-supplied annotations alongside
// crypto material. The core treats it as opaque and persists it verbatim.
type MaterialsDescription map[string]string

// Clone returns an independent copy so callers cannot mutate persisted
// material after the wrap step.
func (d MaterialsDescription) Clone() MaterialsDescription {
	if d == nil {
		return nil
	}
	out := make(MaterialsDescription, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

var (
	// ErrSetupFailure indicates a cipher or runtime could not be
	// constructed: bad key or IV length, uninitialized runtime.
	ErrSetupFailure = errors.New("crypto setup failure")

	// ErrAuthenticationFailure indicates an AEAD tag mismatch or a
	// key-wrap integrity check mismatch. No plaintext or key material is
	// released when this is returned.
	ErrAuthenticationFailure = errors.New("authentication failure")

	// ErrInvalidFormat indicates malformed ciphertext or persisted
	// material: wrong block alignment, missing fields, inconsistent
	// scheme parameters.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUsage indicates the caller violated an engine contract, such as
	// mixing encrypt and decrypt on one instance or finalizing twice.
	ErrUsage = errors.New("usage error")

	// ErrContentNotFound is returned when the requested object or its
	// instruction file does not exist in the store.
	ErrContentNotFound = errors.New("content not found")

	// ErrInvalidLocationURI is returned for malformed store URIs.
	ErrInvalidLocationURI = errors.New("invalid storage location URI")
)
