// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// SearchCompleted carries a retrieval result back to the model.
type SearchCompleted struct {
	Query  string
	Result *domain.RetrievalResult
	Err    error
}

// ChunkSelected is sent when a retrieved chunk is opened.
type ChunkSelected struct {
	Chunk domain.RetrievedChunk
}

// StatsLoaded carries the tenant's index statistics.
type StatsLoaded struct {
	Stats domain.IndexStats
	Err   error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and results view.
	ViewSearch ViewType = iota
	// ViewChunk shows one retrieved chunk in full.
	ViewChunk
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewChunk:
		return "chunk"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
