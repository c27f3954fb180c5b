package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	db *sql.DB
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveChunks upserts chunks in one transaction.
func (s *chunkStore) SaveChunks(ctx context.Context, tenant domain.TenantID, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, tenant_id, document_id, position, content, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			document_id = excluded.document_id,
			position = excluded.position,
			content = excluded.content,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, chunk.ID, string(tenant), chunk.DocumentID, chunk.Position,
			chunk.Content, float32SliceToBytes(chunk.Embedding), string(metadataJSON)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks returns a document's chunks ordered by position.
func (s *chunkStore) GetChunks(ctx context.Context, tenant domain.TenantID, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, position, content, embedding, metadata
		FROM chunks WHERE tenant_id = ? AND document_id = ?
		ORDER BY position
	`, string(tenant), documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := []domain.Chunk{}
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// DeleteDocument removes all chunks of a document.
func (s *chunkStore) DeleteDocument(ctx context.Context, tenant domain.TenantID, documentID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE tenant_id = ? AND document_id = ?", string(tenant), documentID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// DeleteTenant removes all chunks of a tenant.
func (s *chunkStore) DeleteTenant(ctx context.Context, tenant domain.TenantID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE tenant_id = ?", string(tenant)); err != nil {
		return fmt.Errorf("deleting tenant chunks: %w", err)
	}
	return nil
}

// ListDocuments returns the distinct document IDs of a tenant, sorted.
func (s *chunkStore) ListDocuments(ctx context.Context, tenant domain.TenantID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT document_id FROM chunks WHERE tenant_id = ? ORDER BY document_id", string(tenant))
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning document id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return ids, nil
}

func scanChunk(row scanner) (*domain.Chunk, error) {
	var (
		chunk        domain.Chunk
		blob         []byte
		metadataJSON string
	)
	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position,
		&chunk.Content, &blob, &metadataJSON); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	chunk.Embedding = bytesToFloat32Slice(blob)

	if metadataJSON != "" && metadataJSON != "null" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling chunk metadata: %w", err)
		}
	}
	return &chunk, nil
}

// float32SliceToBytes packs floats little-endian.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
