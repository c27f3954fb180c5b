package normalisers

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
	"github.com/custodia-labs/campusrag/internal/logger"
	csvnorm "github.com/custodia-labs/campusrag/internal/normalisers/csv"
	"github.com/custodia-labs/campusrag/internal/normalisers/docx"
	"github.com/custodia-labs/campusrag/internal/normalisers/html"
	"github.com/custodia-labs/campusrag/internal/normalisers/markdown"
	"github.com/custodia-labs/campusrag/internal/normalisers/pdf"
	"github.com/custodia-labs/campusrag/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry holds one normaliser per supported format.
type Registry struct {
	text     driven.Normaliser
	markdown driven.Normaliser
	html     driven.Normaliser
	docx     driven.Normaliser
	pdf      driven.Normaliser
	csv      driven.Normaliser
}

// NewRegistry creates a registry with the built-in normalisers.
func NewRegistry() *Registry {
	return &Registry{
		text:     plaintext.New(),
		markdown: markdown.New(),
		html:     html.New(),
		docx:     docx.New(),
		pdf:      pdf.New(),
		csv:      csvnorm.New(),
	}
}

// For returns the normaliser for format.
func (r *Registry) For(format domain.DocumentFormat) (driven.Normaliser, error) {
	switch format {
	case domain.FormatPlainText:
		return r.text, nil
	case domain.FormatMarkdown:
		return r.markdown, nil
	case domain.FormatHTML:
		return r.html, nil
	case domain.FormatDOCX:
		return r.docx, nil
	case domain.FormatPDF:
		return r.pdf, nil
	case domain.FormatCSV:
		return r.csv, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

// Normalise transforms raw with the normaliser for raw.Format.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	n, err := r.For(raw.Format)
	if err != nil {
		return nil, err
	}
	return n.Normalise(ctx, raw)
}

// LoadFile reads path and normalises it according to its extension.
// The extension is checked before the file is read, so an unsupported
// file never costs a read.
func (r *Registry) LoadFile(ctx context.Context, path string) (*driven.NormaliseResult, error) {
	format, err := domain.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	logger.Debug("loading %s as %s (%d bytes)", path, format, len(content))

	return r.Normalise(ctx, &domain.RawDocument{
		URI:     path,
		Format:  format,
		Content: content,
	})
}

// SupportedFormats returns the formats that can be normalised.
func (r *Registry) SupportedFormats() []domain.DocumentFormat {
	return domain.AllFormats()
}
