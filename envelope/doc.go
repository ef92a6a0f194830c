// Package envelope implements the envelope encryption material pipeline.
//
// One object write produces one ContentCryptoMaterial: a fresh content
// encryption key and IV drawn from the random source, the key wrapped
// under the master key capability, and the scheme parameters a reader
// needs. One object read reconstructs the material from its persisted
// form, unwraps the key and rebuilds the matching cipher engine.
//
// The plaintext content key exists only in memory for the duration of a
// single operation; persisted output carries it exclusively in wrapped
// form. Materials are never shared across concurrent operations.
package envelope
