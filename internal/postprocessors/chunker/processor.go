// Package chunker provides a recursive, separator-aware text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// DefaultSeparators are tried in order, coarsest first. The empty
// separator splits into single characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// MarkdownSeparators put heading boundaries ahead of the defaults so
// sections are not split mid-heading.
var MarkdownSeparators = []string{"\n## ", "\n### ", "\n#### ", "\n\n", "\n", ". ", " ", ""}

// Processor splits document content into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must stay strictly below the chunk size.
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
// Every chunk carries a copy of the document metadata plus its document_id,
// chunk_index, source, title and format.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	separators := DefaultSeparators
	if doc.Format.IsMarkup() {
		separators = MarkdownSeparators
	}
	texts := p.Split(doc.Content, separators)

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		meta := domain.CopyMetadata(doc.Metadata)
		meta[domain.MetaDocumentID] = doc.ID
		meta[domain.MetaChunkIndex] = i
		if _, ok := meta[domain.MetaSource]; !ok && doc.URI != "" {
			meta[domain.MetaSource] = doc.URI
		}
		if doc.Title != "" {
			meta[domain.MetaTitle] = doc.Title
		}
		if doc.Format != "" {
			meta[domain.MetaFormat] = doc.Format.String()
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    text,
			Position:   i,
			Metadata:   meta,
		})
	}

	return chunks, nil
}
