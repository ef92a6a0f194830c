// Package cryptoutils implements the symmetric cipher layer of the
// envelope encryption client.
//
// It provides the CipherEngine abstraction with three AES-256 body
// modes (CBC with PKCS#7 padding, CTR, GCM) plus deterministic AES key
// wrapping (RFC 3394) for content encryption keys, a CSPRNG-backed
// RandomSource, the SecureBuffer type for secret material, and the
// process-wide runtime guard.
//
// # Engine State Machine
//
// Every engine runs Idle -> encrypting|decrypting -> finalized with a
// terminal sticky Failed state. Mixing encrypt and decrypt on one
// instance, or finalizing twice, is a usage error; any setup, format or
// authentication failure is recorded and repeated by all later calls
// until Reset. Engines belong to exactly one operation and carry no
// internal locking.
//
// # Runtime
//
// InitRuntime and ShutdownRuntime bracket all use of this package in a
// process. Init is reference counted and idempotent; it probes the
// system entropy source once so operational failures surface at startup.
// RandomSource refuses to produce bytes before the runtime is live.
package cryptoutils
