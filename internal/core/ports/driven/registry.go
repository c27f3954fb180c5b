package driven

import (
	"context"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// NormaliserRegistry selects the normaliser for a document by its format.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the normaliser for raw.Format.
	// Returns domain.ErrUnsupportedFormat for formats without a normaliser.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// LoadFile reads path, detects its format from the extension and normalises it.
	// Unknown extensions fail with *domain.UnsupportedFormatError.
	LoadFile(ctx context.Context, path string) (*NormaliseResult, error)

	// SupportedFormats returns the formats that can be normalised.
	SupportedFormats() []domain.DocumentFormat
}
