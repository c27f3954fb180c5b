package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawDocument represents the bytes of a source document before loading.
type RawDocument struct {
	// URI is the original location (file path, URL, etc).
	URI string

	// Format is the document format, detected from the URI extension.
	Format DocumentFormat

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-supplied key-value pairs.
	Metadata map[string]any
}

// MetaTitle returns the caller-supplied title, or "" when none was given.
func (r *RawDocument) MetaTitle() string {
	if r.Metadata == nil {
		return ""
	}
	title, _ := r.Metadata[MetaTitle].(string)
	return title
}

// ToDocument builds the loaded document for r. A caller-supplied title
// wins over the extracted one; an empty extracted title falls back to
// the file name.
func (r *RawDocument) ToDocument(extractedTitle, content string) Document {
	title := r.MetaTitle()
	if title == "" {
		title = extractedTitle
	}
	if title == "" {
		title = TitleFromPath(r.URI)
	}

	meta := CopyMetadata(r.Metadata)
	meta[MetaFormat] = r.Format.String()

	id, _ := meta[MetaDocumentID].(string)
	if id == "" {
		id = uuid.New().String()
	}

	return Document{
		ID:        id,
		URI:       r.URI,
		Title:     title,
		Format:    r.Format,
		Content:   content,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}
}
