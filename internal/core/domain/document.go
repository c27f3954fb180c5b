package domain

import "time"

// Metadata keys shared by chunks, slot records and retrieval results.
const (
	MetaDocumentID = "document_id"
	MetaChunkIndex = "chunk_index"
	MetaSource     = "source"
	MetaTitle      = "title"
	MetaCollegeID  = "college_id"
	MetaTimestamp  = "timestamp"
	MetaFormat     = "format"
	MetaSections   = "sections"
	MetaDates      = "dates"
	MetaEmails     = "emails"
	MetaPhones     = "phones"
	MetaURLs       = "urls"
)

// Document represents a loaded source document.
// It is the canonical representation after normalisation and before chunking.
type Document struct {
	// ID is the caller-assigned identifier of the document.
	ID string

	// TenantID is the tenant owning the document.
	TenantID TenantID

	// URI is the original location (file path, or "text" for inline input).
	URI string

	// Title is the human-readable title.
	Title string

	// Format is the detected document format.
	Format DocumentFormat

	// Content is the full text content after normalisation.
	// Markdown keeps its markup so headings can drive splitting.
	Content string

	// Metadata contains arbitrary key-value pairs applied to every chunk.
	Metadata map[string]any

	// CreatedAt is when the document was loaded.
	CreatedAt time.Time
}

// Chunk represents a searchable unit within a document.
// Documents are split into chunks for granular retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the 0-based chunk_index within the document.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// StringMeta returns a string metadata value, or fallback when absent.
func (c Chunk) StringMeta(key, fallback string) string {
	if c.Metadata == nil {
		return fallback
	}
	if v, ok := c.Metadata[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// CopyMetadata creates a shallow copy of metadata.
func CopyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
