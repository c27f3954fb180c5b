package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

func TestExtractHeaders_Headings(t *testing.T) {
	text := "# Admissions Guide\nWelcome.\n## Deadlines\nSoon.\n## Fees \nSome.\n### Not collected"

	info := ExtractHeaders(text)

	assert.Equal(t, "Admissions Guide", info[domain.MetaTitle])
	assert.Equal(t, []string{"Deadlines", "Fees"}, info[domain.MetaSections])
}

func TestExtractHeaders_FirstTitleWins(t *testing.T) {
	info := ExtractHeaders("# One\n# Two")
	assert.Equal(t, "One", info[domain.MetaTitle])
}

func TestExtractHeaders_NoHeadings(t *testing.T) {
	assert.Empty(t, ExtractHeaders("plain paragraph\nwith #hashtag"))
}

func TestExtractHeaders_YAMLFrontMatter(t *testing.T) {
	text := "---\nauthor: Registrar\nyear: 2025\ntags:\n  - fees\n  - aid\n---\n# Fees"

	info := ExtractHeaders(text)

	assert.Equal(t, "Registrar", info["author"])
	assert.Equal(t, 2025, info["year"])
	assert.Equal(t, []any{"fees", "aid"}, info["tags"])
	assert.Equal(t, "Fees", info[domain.MetaTitle])
}

func TestExtractHeaders_FallbackFrontMatter(t *testing.T) {
	// Unbalanced quote makes this invalid YAML.
	text := "---\nauthor: \"Dean\nnote: a: b\n---\nbody"

	info := ExtractHeaders(text)

	assert.Equal(t, "\"Dean", info["author"])
	assert.Equal(t, "a: b", info["note"])
}

func TestExtractHeaders_FrontMatterMustLead(t *testing.T) {
	info := ExtractHeaders("intro\n---\nauthor: x\n---")
	assert.NotContains(t, info, "author")
}

func TestExtractHeaders_ReservedKeysIgnored(t *testing.T) {
	info := ExtractHeaders("---\ndocument_id: other\ncollege_id: 9\nowner: me\n---")

	assert.NotContains(t, info, domain.MetaDocumentID)
	assert.NotContains(t, info, domain.MetaCollegeID)
	assert.Equal(t, "me", info["owner"])
}

func TestProcessor_Process(t *testing.T) {
	p := New()
	assert.Equal(t, "markdown", p.Name())

	doc := &domain.Document{Format: domain.FormatMarkdown}
	chunks := []domain.Chunk{
		{Content: "# Handbook\nhello", Metadata: map[string]any{domain.MetaTitle: "given", "k": "v"}},
		{Content: "## Housing\nrooms", Metadata: map[string]any{}},
		{Content: "no headings", Metadata: map[string]any{"k": "v"}},
	}

	out, err := p.Process(context.Background(), doc, chunks)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Handbook", out[0].Metadata[domain.MetaTitle])
	assert.Equal(t, "v", out[0].Metadata["k"])
	assert.Equal(t, []string{"Housing"}, out[1].Metadata[domain.MetaSections])
	assert.Equal(t, map[string]any{"k": "v"}, out[2].Metadata)
}

func TestProcessor_Process_SkipsOtherFormats(t *testing.T) {
	doc := &domain.Document{Format: domain.FormatPlainText}
	chunks := []domain.Chunk{{Content: "# Looks like a heading", Metadata: map[string]any{}}}

	out, err := New().Process(context.Background(), doc, chunks)
	require.NoError(t, err)
	assert.Empty(t, out[0].Metadata)
}
