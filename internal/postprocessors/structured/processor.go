// Package structured extracts dates, emails, phone numbers and URLs from chunk text.
package structured

import (
	"context"
	"regexp"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

var patterns = []struct {
	key string
	re  *regexp.Regexp
}{
	// MM/DD/YYYY or "Month DD, YYYY".
	{domain.MetaDates, regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2}, \d{4}`)},
	{domain.MetaEmails, regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
	// Optional +CC prefix, optional parentheses and separators.
	{domain.MetaPhones, regexp.MustCompile(`(\+\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)},
	{domain.MetaURLs, regexp.MustCompile(`https?://[^\s]+`)},
}

// Processor adds extracted structured data to every chunk.
type Processor struct{}

// New creates a structured-data processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "structured"
}

// Process merges Extract of each chunk into its metadata.
func (p *Processor) Process(ctx context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for i := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found := Extract(chunks[i].Content)
		if len(found) == 0 {
			continue
		}
		meta := domain.CopyMetadata(chunks[i].Metadata)
		for k, v := range found {
			meta[k] = v
		}
		chunks[i].Metadata = meta
	}
	return chunks, nil
}

// Extract returns every non-empty match category in text, in order of
// appearance. Keys are dates, emails, phones and urls.
func Extract(text string) map[string][]string {
	found := make(map[string][]string)
	for _, p := range patterns {
		if matches := p.re.FindAllString(text, -1); len(matches) > 0 {
			found[p.key] = matches
		}
	}
	return found
}
