package driven

import (
	"context"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// Normaliser turns the raw bytes of one document format into text.
type Normaliser interface {
	// Format returns the document format this normaliser handles.
	Format() domain.DocumentFormat

	// Normalise transforms a raw document into a document with Content set.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: Normalisation only produces a Document with Content.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Document is the normalised document with Content field populated.
	Document domain.Document
}
