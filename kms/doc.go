// Package kms provides master key capabilities for envelope encryption.
//
// Each provider implements interfaces.MasterKeyProvider: wrap a content
// encryption key for persistence, unwrap it on read, and report the wrap
// algorithm recorded in persisted material.
//
// Three providers are available:
//
//   - SimpleKMS: deterministic AES key wrapping (RFC 3394) under a
//     locally held 32-byte master key, with optional HKDF context
//     derivation for key separation between applications.
//   - VaultKMS: delegates wrapping to HashiCorp Vault's transit engine;
//     the master key never leaves Vault.
//   - PlaintextKMS: no wrapping at all. Test and debug use only; its
//     construction and every wrap are logged as warnings.
//
// Unwrap failures caused by corruption or a mismatched master key are
// reported as interfaces.ErrAuthenticationFailure and never return key
// material.
package kms
