// Package storage provides object store backends behind the
// interfaces.ObjectStore capability.
//
// Available backends:
//
//   - MemoryStore for tests and dry runs
//   - FileStore for local development, with metadata in JSON sidecars
//   - S3Store for Amazon S3 and compatible services, with metadata in
//     S3 user metadata
//
// Stores are selected by URI through StoreFactory:
//
//	memory:
//	file:///var/data/objects
//	s3://bucket/prefix?region=us-west-2
//
// The crypto core only ever calls PutObject and GetObject; everything
// else (credentials, retries, transport) is the backend's concern.
package storage
