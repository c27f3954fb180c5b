// Package markdown enriches markdown chunks with heading and front-matter metadata.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

var (
	h1Pattern          = regexp.MustCompile(`(?m)^# (.+)$`)
	h2Pattern          = regexp.MustCompile(`(?m)^## (.+)$`)
	frontMatterPattern = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---`)
)

// reservedKeys are never overwritten by front matter.
var reservedKeys = map[string]bool{
	domain.MetaDocumentID: true,
	domain.MetaChunkIndex: true,
	domain.MetaCollegeID:  true,
}

// Processor scans each chunk of a markdown document for a top-level
// heading, second-level headings and a leading front-matter block.
// Chunks of other formats pass through unchanged.
type Processor struct{}

// New creates a markdown metadata processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "markdown"
}

// Process merges ExtractHeaders of every chunk into its metadata.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if !doc.Format.IsMarkup() {
		return chunks, nil
	}
	for i := range chunks {
		headers := ExtractHeaders(chunks[i].Content)
		if len(headers) == 0 {
			continue
		}
		meta := domain.CopyMetadata(chunks[i].Metadata)
		for k, v := range headers {
			meta[k] = v
		}
		chunks[i].Metadata = meta
	}
	return chunks, nil
}

// ExtractHeaders returns the heading and front-matter fields found in text.
//
// The first "# " line becomes "title" and every "## " line is collected in
// "sections". A front-matter block delimited by "---" lines at the very
// start of text is parsed as YAML; when that fails, each "key: value" line
// is taken literally.
func ExtractHeaders(text string) map[string]any {
	info := make(map[string]any)

	if m := h1Pattern.FindStringSubmatch(text); m != nil {
		info[domain.MetaTitle] = strings.TrimSpace(m[1])
	}

	if matches := h2Pattern.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		sections := make([]string, 0, len(matches))
		for _, m := range matches {
			sections = append(sections, strings.TrimSpace(m[1]))
		}
		info[domain.MetaSections] = sections
	}

	if m := frontMatterPattern.FindStringSubmatch(text); m != nil {
		for k, v := range parseFrontMatter(m[1]) {
			if !reservedKeys[k] {
				info[k] = v
			}
		}
	}

	return info
}

func parseFrontMatter(block string) map[string]any {
	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(block), &parsed); err == nil && len(parsed) > 0 {
		return parsed
	}

	fields := make(map[string]any)
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}
