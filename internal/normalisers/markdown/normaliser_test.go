package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, domain.FormatMarkdown, New().Format())
}

func TestNormalise_KeepsMarkup(t *testing.T) {
	input := "---\ndept: physics\n---\n# Physics Lab\n\n## Safety\n\nWear **goggles**.\n"
	raw := &domain.RawDocument{
		URI:     "/docs/lab.md",
		Format:  domain.FormatMarkdown,
		Content: []byte(input),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "Physics Lab", doc.Title)
	assert.Equal(t, input, doc.Content)
	assert.Equal(t, "markdown", doc.Metadata["format"])
}

func TestNormalise_NormalisesLineEndings(t *testing.T) {
	raw := &domain.RawDocument{
		URI:     "notes.md",
		Format:  domain.FormatMarkdown,
		Content: []byte("# Notes\r\n\r\nline one\r\n"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n\nline one\n", result.Document.Content)
	assert.Equal(t, "Notes", result.Document.Title)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"h1", "# Hello World\ntext", "Hello World"},
		{"closing hashes", "# Hello #\n", "Hello"},
		{"trailing sharp", "# Learn C#\n", "Learn C#"},
		{"h2 only", "## Section\ntext", ""},
		{"h1 after h2", "## Section\n# Title\n", "Title"},
		{"no heading", "plain", ""},
		{"hash without space", "#tag\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTitle(tt.content))
		})
	}
}

func TestNormalise_FallbackTitle(t *testing.T) {
	raw := &domain.RawDocument{
		URI:     "/docs/exam-policy.markdown",
		Format:  domain.FormatMarkdown,
		Content: []byte("no heading here"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "exam policy", result.Document.Title)
}

func TestNormalise_NilInput(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
