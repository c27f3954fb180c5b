// Package flat provides an exact, brute-force vector index per tenant.
//
// Every stored vector is L2-normalised, so the squared Euclidean distance d
// between two slots lies in [0, 4] and maps to cosine similarity as 1 - d/2.
// Search scans every slot; ties are broken by ascending slot.
//
// # Persistence
//
// A tenant directory holds generations of the index triple:
//
//	CURRENT                      name of the live generation
//	gen-000042/index.msgpack     dimension and normalised vectors
//	gen-000042/metadata.msgpack  one ChunkRecord per slot
//	gen-000042/documents.msgpack one chunk text per slot
//
// A mutation stages a complete generation in gen-N.tmp, fsyncs it, renames
// it into place and only then swaps CURRENT. A crash at any point leaves
// the previous generation live.
//
// # Deletion
//
// Removing a document rebuilds the index from the surviving slots and writes
// a new generation. This costs O(n) in the size of the tenant index, so
// callers should not delete in a hot path.
package flat
