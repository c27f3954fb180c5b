package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Image is an image attached to a tenant.
// Images are matched to queries by plain substring search, not by vectors.
type Image struct {
	ID          string
	TenantID    TenantID
	Title       string
	FilePath    string
	Description string
	// Tags is a comma-separated tag list.
	Tags      string
	CreatedAt time.Time
}

// SupportedImageExtensions returns the accepted image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif"}
}

// IsSupportedImage reports whether path has an accepted image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedImageExtensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// Matches reports whether term occurs in the title, description or tags,
// ignoring case.
func (i Image) Matches(term string) bool {
	term = strings.ToLower(term)
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(i.Title), term) ||
		strings.Contains(strings.ToLower(i.Description), term) ||
		strings.Contains(strings.ToLower(i.Tags), term)
}

// TagList returns the trimmed, non-empty tags.
func (i Image) TagList() []string {
	var tags []string
	for _, t := range strings.Split(i.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasTag reports whether tag is one of the image's tags, ignoring case.
func (i Image) HasTag(tag string) bool {
	for _, t := range i.TagList() {
		if strings.EqualFold(t, strings.TrimSpace(tag)) {
			return true
		}
	}
	return false
}
