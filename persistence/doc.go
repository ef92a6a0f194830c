// Package persistence serializes envelope crypto material to and from
// the external object store.
//
// Two interchangeable strategies exist, selected by configuration:
//
//   - MetadataHandler embeds the field set in the encrypted object's own
//     metadata entries.
//   - InstructionFileHandler writes the field set as a JSON side object
//     at <key>.instruction, marked by a constant header.
//
// Both strategies persist the same six fields: wrapped content key and
// IV (base64), materials description (JSON map), scheme and wrap
// algorithm short names, and the AEAD tag length in bits. The wrapped
// key is the only form in which the content key ever reaches a store.
//
// The strategies are alternative encodings, not wire-compatible with
// each other; a given strategy reads exactly what it writes.
package persistence
