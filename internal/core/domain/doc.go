// Package domain defines the core business entities for campusrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TenantID: The isolated owner (a college) of a corpus and its index
//   - Document: A loaded source document before chunking
//   - Chunk: The unit of embedding and retrieval
//   - ChunkRecord: The per-slot metadata kept alongside each vector
//   - RetrievedChunk: A ranked search hit with its similarity
//   - Image: An image attached to a tenant, matched by text
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
