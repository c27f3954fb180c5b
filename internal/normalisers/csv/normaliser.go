package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MetaRows is the metadata key holding the number of data rows.
const MetaRows = "rows"

// Normaliser handles CSV files with a header row.
type Normaliser struct{}

// New creates a new CSV normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.DocumentFormat {
	return domain.FormatCSV
}

// Normalise renders every data row as a block of "column: value" lines.
// Blocks are separated by blank lines so a row is never split while it
// fits in one chunk.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw.Content, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		doc := raw.ToDocument("", "")
		doc.Metadata[MetaRows] = 0
		return &driven.NormaliseResult{Document: doc}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header %s: %v: %w", raw.URI, err, domain.ErrInvalidInput)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var blocks []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %v: %w", raw.URI, err, domain.ErrInvalidInput)
		}
		blocks = append(blocks, renderRow(header, record))
	}

	doc := raw.ToDocument("", strings.Join(blocks, "\n\n"))
	doc.Metadata[MetaRows] = len(blocks)

	return &driven.NormaliseResult{Document: doc}, nil
}

// renderRow pairs values with their column names. Values beyond the
// header are keyed by their 1-based column number.
func renderRow(header, record []string) string {
	lines := make([]string, len(record))
	for i, value := range record {
		name := fmt.Sprintf("column_%d", i+1)
		if i < len(header) && header[i] != "" {
			name = header[i]
		}
		lines[i] = name + ": " + strings.TrimSpace(value)
	}
	return strings.Join(lines, "\n")
}
