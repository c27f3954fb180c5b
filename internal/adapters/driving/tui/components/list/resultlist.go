// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// linesPerChunk is the height of one rendered entry.
const linesPerChunk = 3

// ResultList displays retrieved chunks in a navigable list.
type ResultList struct {
	chunks   []domain.RetrievedChunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.chunks) == 0 {
		return r.styles.Muted.Render("No matching passages")
	}

	lines := make([]string, 0, len(r.chunks)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Passages (%d)", len(r.chunks))), "")

	visible := max((r.height-4)/linesPerChunk, 1)
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.chunks))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderChunk(i, &r.chunks[i]))
	}
	return strings.Join(lines, "\n")
}

// renderChunk formats one entry: title and similarity, source and
// position, then a one-line preview.
func (r *ResultList) renderChunk(index int, c *domain.RetrievedChunk) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := c.Record.Title
	if title == "" {
		title = c.Record.DocumentID
	}
	if title == "" {
		title = "(untitled)"
	}
	titleWidth := max(r.width-20, 10)
	title = Truncate(title, titleWidth)
	similarity := fmt.Sprintf("%.3f", c.Similarity)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, titleWidth, title, similarity))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, titleWidth, title)) +
			r.styles.Score.Render(similarity)
	}

	source := fmt.Sprintf("    %s #%d", c.Record.Source, c.Record.ChunkIndex)
	preview := Truncate(strings.Join(strings.Fields(c.Content), " "), max(r.width-6, 20))

	return titleLine + "\n" +
		r.styles.Subtitle.Render(source) + "\n" +
		r.styles.Muted.Render("    "+preview)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetChunks replaces the listed chunks and resets the cursor.
func (r *ResultList) SetChunks(chunks []domain.RetrievedChunk) {
	r.chunks = chunks
	r.selected = 0
}

// Chunks returns the listed chunks.
func (r *ResultList) Chunks() []domain.RetrievedChunk {
	return r.chunks
}

// Selected returns the index of the selected chunk.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.chunks) {
		r.selected = index
	}
}

// SelectedChunk returns the chunk under the cursor, or nil if none.
func (r *ResultList) SelectedChunk() *domain.RetrievedChunk {
	if r.selected < 0 || r.selected >= len(r.chunks) {
		return nil
	}
	return &r.chunks[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.chunks)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of chunks.
func (r *ResultList) Count() int {
	return len(r.chunks)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.chunks) == 0
}
