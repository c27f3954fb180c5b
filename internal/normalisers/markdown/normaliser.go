package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var firstHeading = regexp.MustCompile(`(?m)^#[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.DocumentFormat {
	return domain.FormatMarkdown
}

// Normalise converts a markdown document to a normalised document.
// The markup is kept: heading separators and front matter are consumed
// later by the chunker and the markdown post-processor.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")

	return &driven.NormaliseResult{
		Document: raw.ToDocument(extractTitle(content), content),
	}, nil
}

// extractTitle returns the text of the first H1 heading, or "".
func extractTitle(content string) string {
	m := firstHeading.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
