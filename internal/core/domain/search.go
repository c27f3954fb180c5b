package domain

import "time"

// ChunkRecord is the metadata kept for one slot of a tenant index.
// It is positionally aligned with the slot's vector and chunk text.
type ChunkRecord struct {
	DocumentID string         `msgpack:"document_id"`
	ChunkIndex int            `msgpack:"chunk_index"`
	Source     string         `msgpack:"source"`
	Title      string         `msgpack:"title"`
	Timestamp  time.Time      `msgpack:"timestamp"`
	Extra      map[string]any `msgpack:"extra,omitempty"`
}

// NewChunkRecord builds the slot record for a chunk.
// Metadata keys other than the typed fields pass through in Extra.
func NewChunkRecord(chunk Chunk, now time.Time) ChunkRecord {
	rec := ChunkRecord{
		DocumentID: chunk.DocumentID,
		ChunkIndex: chunk.Position,
		Source:     chunk.StringMeta(MetaSource, "unknown"),
		Title:      chunk.StringMeta(MetaTitle, ""),
		Timestamp:  now.UTC(),
	}
	if rec.DocumentID == "" {
		rec.DocumentID = chunk.StringMeta(MetaDocumentID, "unknown")
	}
	for k, v := range chunk.Metadata {
		switch k {
		case MetaDocumentID, MetaChunkIndex, MetaSource, MetaTitle, MetaTimestamp:
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]any)
		}
		rec.Extra[k] = v
	}
	return rec
}

// Metadata flattens the record into a display map.
func (r ChunkRecord) Metadata() map[string]any {
	m := make(map[string]any, len(r.Extra)+5)
	for k, v := range r.Extra {
		m[k] = v
	}
	m[MetaDocumentID] = r.DocumentID
	m[MetaChunkIndex] = r.ChunkIndex
	m[MetaSource] = r.Source
	m[MetaTitle] = r.Title
	m[MetaTimestamp] = r.Timestamp.Format(time.RFC3339)
	return m
}

// RetrievedChunk is a single ranked retrieval hit.
type RetrievedChunk struct {
	// Content is the chunk text.
	Content string

	// Record is the slot's metadata record.
	Record ChunkRecord

	// Similarity is 1 - d/2 for squared L2 distance d on unit vectors, in [-1, 1].
	Similarity float64

	// Distance is the squared L2 distance between the normalised vectors.
	Distance float64

	// Slot is the position of the hit in the tenant index.
	Slot int
}

// RetrievalRequest configures a retrieval with optional image augmentation.
type RetrievalRequest struct {
	TenantID TenantID
	Query    string

	// TopK is the number of chunks to return. Zero uses the configured default.
	TopK int

	// MinSimilarity drops hits scoring below it. Zero disables the filter.
	MinSimilarity float64

	// IncludeImages enables the substring image lookup.
	IncludeImages bool
}

// SourceRef attributes a retrieved chunk for display.
type SourceRef struct {
	Title      string  `json:"title"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}

// RetrievalResult is the output of a retrieval with images.
type RetrievalResult struct {
	Chunks []RetrievedChunk
	Images []Image

	// Degraded is set when no context could be produced because the
	// embedding service failed. Warning carries the reason.
	Degraded bool
	Warning  string
}

// Sources summarises the chunks for attribution.
func (r *RetrievalResult) Sources() []SourceRef {
	refs := make([]SourceRef, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		title := c.Record.Title
		if title == "" {
			title = "Unknown"
		}
		refs = append(refs, SourceRef{
			Title:      title,
			Source:     c.Record.Source,
			Similarity: c.Similarity,
		})
	}
	return refs
}

// IndexStats describes a tenant index.
type IndexStats struct {
	TenantID  TenantID
	Slots     int
	Dimension int
	Documents int
}

// IngestRequest is the inbound ingestion call.
// Exactly one of Path and Text must be set.
type IngestRequest struct {
	TenantID   TenantID
	DocumentID string
	Title      string
	Path       string
	Text       string

	// Replace removes existing slots of DocumentID before adding.
	Replace bool

	// Metadata is merged into every chunk's metadata.
	Metadata map[string]any
}

// IngestResult reports what an ingestion produced.
type IngestResult struct {
	DocumentID string
	Format     DocumentFormat
	Chunks     int
	Dimension  int
	Replaced   int
}
