package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// DocumentFormat identifies a supported document type.
// The set is closed: every loader dispatch switches over these values.
type DocumentFormat string

// Supported document formats.
const (
	FormatPlainText DocumentFormat = "text"
	FormatMarkdown  DocumentFormat = "markdown"
	FormatHTML      DocumentFormat = "html"
	FormatDOCX      DocumentFormat = "docx"
	FormatPDF       DocumentFormat = "pdf"
	FormatCSV       DocumentFormat = "csv"
)

var extensionFormats = map[string]DocumentFormat{
	".txt":      FormatPlainText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".docx":     FormatDOCX,
	".pdf":      FormatPDF,
	".csv":      FormatCSV,
}

// FormatFromPath detects the document format from the file extension.
// Returns an *UnsupportedFormatError for unknown extensions.
func FormatFromPath(path string) (DocumentFormat, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extensionFormats[ext]
	if !ok {
		return "", &UnsupportedFormatError{Extension: ext}
	}
	return format, nil
}

// IsValid returns true if the format is recognised.
func (f DocumentFormat) IsValid() bool {
	switch f {
	case FormatPlainText, FormatMarkdown, FormatHTML, FormatDOCX, FormatPDF, FormatCSV:
		return true
	default:
		return false
	}
}

// IsMarkup returns true for formats whose headings drive chunk boundaries.
func (f DocumentFormat) IsMarkup() bool {
	return f == FormatMarkdown
}

// String returns the string representation.
func (f DocumentFormat) String() string {
	return string(f)
}

// SupportedExtensions returns every file extension with a loader, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionFormats))
	for ext := range extensionFormats {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// AllFormats returns all supported formats.
func AllFormats() []DocumentFormat {
	return []DocumentFormat{
		FormatPlainText,
		FormatMarkdown,
		FormatHTML,
		FormatDOCX,
		FormatPDF,
		FormatCSV,
	}
}

// TitleFromPath derives a human-readable title from a file path:
// the base name without extension, with underscores and dashes as spaces.
func TitleFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
