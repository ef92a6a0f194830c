package interfaces

import "context"

// MasterKeyProvider is the opaque capability used to protect content
// encryption keys. Implementations may hold a local master key or reach
// out to an external KMS; the core never sees the master key itself.
type MasterKeyProvider interface {
	// WrapKey protects a plaintext content key. The materials
	// description is available for providers that bind wrapping context
	// (for example a KMS encryption context); local providers ignore it.
	WrapKey(ctx context.Context, plaintextKey []byte, desc MaterialsDescription) ([]byte, error)

	// UnwrapKey recovers the plaintext content key from its wrapped
	// form. Integrity mismatches surface as ErrAuthenticationFailure and
	// return no key material.
	UnwrapKey(ctx context.Context, wrappedKey []byte, desc MaterialsDescription) ([]byte, error)

	// Algorithm reports which wrap algorithm this provider implements.
	// Recorded in persisted material and checked again on decrypt.
	Algorithm() KeyWrapAlgorithm
}
