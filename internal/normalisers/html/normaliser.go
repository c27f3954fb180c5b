package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.DocumentFormat {
	return domain.FormatHTML
}

// Normalise strips markup from an HTML page and keeps its readable text,
// one block element per line.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	page := string(raw.Content)

	return &driven.NormaliseResult{
		Document: raw.ToDocument(extractTitle(page), stripHTML(page)),
	}, nil
}

var titleTag = regexp.MustCompile(`(?is)<title(\s[^>]*)?>(.*?)</title>`)

// rule is one rewrite step of the tag stripper.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// stripRules run in order: invisible elements go first so their text never
// leaks, block boundaries become newlines, then every remaining tag is dropped.
var stripRules = []rule{
	{regexp.MustCompile(`(?is)<(script|style|noscript|head|svg|template)(\s[^>]*)?>.*?</(script|style|noscript|head|svg|template)>`), ""},
	{regexp.MustCompile(`(?s)<!--.*?-->`), ""},
	{regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|header|footer|nav|main)(\s[^>]*)?>`), "\n"},
	{regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|header|footer|nav|main)>`), "\n"},
	{regexp.MustCompile(`(?i)<(br|hr)\s*/?>`), "\n"},
	{regexp.MustCompile(`<[^>]+>`), ""},
}

var horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)

// extractTitle returns the decoded <title> text, or "".
func extractTitle(page string) string {
	m := titleTag.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[2]))
}

// stripHTML removes tags and returns the non-empty text lines.
func stripHTML(page string) string {
	for _, r := range stripRules {
		page = r.pattern.ReplaceAllString(page, r.replacement)
	}
	page = html.UnescapeString(page)

	lines := strings.Split(page, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
