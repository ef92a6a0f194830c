// Package client provides the encrypting object client. It composes a
// backing store, a master key provider, and a material persistence
// strategy into put and get operations that never let plaintext bodies
// reach the store.
package client
