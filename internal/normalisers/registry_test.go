package normalisers

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRegistry_ForEveryFormat(t *testing.T) {
	r := NewRegistry()
	for _, format := range r.SupportedFormats() {
		n, err := r.For(format)
		require.NoError(t, err, format)
		assert.Equal(t, format, n.Format())
	}
}

func TestRegistry_ForUnknownFormat(t *testing.T) {
	_, err := NewRegistry().For("rtf")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_LoadFile(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		wantFormat  domain.DocumentFormat
		wantContent string
	}{
		{"text", "notes.txt", "plain words", domain.FormatPlainText, "plain words"},
		{"markdown", "guide.md", "# Guide\n\nbody", domain.FormatMarkdown, "# Guide\n\nbody"},
		{"markdown long ext", "guide.markdown", "text", domain.FormatMarkdown, "text"},
		{"html", "page.htm", "<p>Hi</p>", domain.FormatHTML, "Hi"},
		{"csv", "list.csv", "a,b\n1,2\n", domain.FormatCSV, "a: 1\nb: 2"},
		{"upper case extension", "LOUD.TXT", "x", domain.FormatPlainText, "x"},
	}

	r := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			result, err := r.LoadFile(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, result.Document.Format)
			assert.Equal(t, tt.wantContent, result.Document.Content)
			assert.Equal(t, path, result.Document.URI)
		})
	}
}

func TestRegistry_LoadFile_Unsupported(t *testing.T) {
	path := writeFile(t, "legacy.doc", "binary")

	_, err := NewRegistry().LoadFile(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	var ufe *domain.UnsupportedFormatError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, ".doc", ufe.Extension)
	assert.Equal(t, "unsupported file type: .doc", err.Error())
}

func TestRegistry_LoadFile_Missing(t *testing.T) {
	_, err := NewRegistry().LoadFile(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_NormaliseNil(t *testing.T) {
	_, err := NewRegistry().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
