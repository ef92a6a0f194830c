// Package interfaces defines the shared types and capability interfaces
// of the envelope encryption client.
//
// The package is intentionally dependency-free. It holds:
//
//   - ContentCryptoScheme and KeyWrapAlgorithm enums with their persisted
//     short names (AES/CBC, AES/CTR, AES/GCM; AESWrap, kms)
//   - MaterialsDescription, the caller-opaque annotation map carried with
//     crypto material
//   - ObjectStore, the narrow put/get capability to the external store
//   - MasterKeyProvider, the opaque master key capability used to wrap
//     and unwrap content encryption keys
//   - the sentinel error taxonomy shared by all packages
//
// # Error Taxonomy
//
// Errors fall into four classes, matched with errors.Is:
//
//	ErrSetupFailure          bad key/IV length, uninitialized runtime
//	ErrAuthenticationFailure AEAD tag or key-wrap integrity mismatch
//	ErrInvalidFormat         malformed ciphertext or persisted material
//	ErrUsage                 engine contract violations
//
// Authentication failures are always distinct from format and setup
// failures so callers can tell tampering apart from corruption.
package interfaces
