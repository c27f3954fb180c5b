// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Turns text into fixed-length vectors
//   - VectorStoreRegistry: Opens the per-tenant VectorStore
//   - NormaliserRegistry: Loads a source into a Document by format
//   - PostProcessorPipeline: Splits a Document into Chunks with metadata
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ChunkStore: Relational ledger of ingested chunks
//   - ImageStore: Image lookup. Without it, retrieval returns no images.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
