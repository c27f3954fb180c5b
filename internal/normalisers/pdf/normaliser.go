package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MetaPages is the metadata key holding the page count of a PDF.
const MetaPages = "pages"

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.DocumentFormat {
	return domain.FormatPDF
}

// Normalise extracts the text layer of every page. Pages are separated by
// blank lines. Scanned PDFs without a text layer produce empty content.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (result *driven.NormaliseResult, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("parse pdf %s: %v: %w", raw.URI, r, domain.ErrInvalidInput)
		}
	}()

	rdr, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %v: %w", raw.URI, err, domain.ErrInvalidInput)
	}

	pages := make([]string, 0, rdr.NumPage())
	for i := 1; i <= rdr.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := rdr.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read pdf %s page %d: %v: %w", raw.URI, i, err, domain.ErrInvalidInput)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	doc := raw.ToDocument(infoTitle(rdr), strings.Join(pages, "\n\n"))
	doc.Metadata[MetaPages] = rdr.NumPage()

	return &driven.NormaliseResult{Document: doc}, nil
}

// infoTitle reads /Title from the document information dictionary.
func infoTitle(rdr *pdf.Reader) string {
	return strings.TrimSpace(rdr.Trailer().Key("Info").Key("Title").Text())
}
