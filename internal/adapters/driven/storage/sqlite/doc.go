// Package sqlite provides the SQLite-backed collaborators of the retrieval
// engine: the tenant image catalogue and the chunk ledger.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Both stores share one database connection:
//
//   - ImageStore: images matched to queries by title, description and tags
//   - ChunkStore: a listing of every ingested chunk, per tenant and document
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
