// Package chunk provides the view that shows one retrieved chunk in full.
package chunk

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// View shows a chunk's text followed by its slot record, scrollable.
type View struct {
	styles *styles.Styles

	chunk        *domain.RetrievedChunk
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new chunk view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// SetChunk shows c from the top.
func (v *View) SetChunk(c domain.RetrievedChunk) {
	v.chunk = &c
	v.scrollOffset = 0
	v.wrapContent()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the chunk view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc", "q":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}
	return v, nil
}

// wrapContent lays out the chunk text and record as display lines.
func (v *View) wrapContent() {
	v.lines = nil
	if v.chunk == nil {
		return
	}

	width := max(v.width-4, 20)
	for _, raw := range strings.Split(v.chunk.Content, "\n") {
		v.lines = append(v.lines, wrapLine(raw, width)...)
	}
	v.lines = append(v.lines, "", "── record ──")
	for _, field := range recordFields(v.chunk) {
		v.lines = append(v.lines, wrapLine(field, width)...)
	}
}

// recordFields renders the slot record one "key: value" per line, typed
// fields first and extra metadata sorted by key.
func recordFields(c *domain.RetrievedChunk) []string {
	r := c.Record
	fields := []string{
		fmt.Sprintf("document: %s", r.DocumentID),
		fmt.Sprintf("source: %s", r.Source),
		fmt.Sprintf("chunk: %d", r.ChunkIndex),
		fmt.Sprintf("similarity: %.4f", c.Similarity),
		fmt.Sprintf("distance: %.4f", c.Distance),
	}
	if !r.Timestamp.IsZero() {
		fields = append(fields, "indexed: "+r.Timestamp.Format(time.RFC3339))
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s: %v", k, r.Extra[k]))
	}
	return fields
}

// wrapLine hard-wraps s at width runes.
func wrapLine(s string, width int) []string {
	runes := []rune(s)
	if len(runes) <= width {
		return []string{s}
	}
	var out []string
	for len(runes) > width {
		out = append(out, string(runes[:width]))
		runes = runes[width:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Title, separator, scroll indicator and help.
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the chunk view.
func (v *View) View() string {
	var b strings.Builder

	title := "Passage"
	if v.chunk != nil {
		switch {
		case v.chunk.Record.Title != "":
			title = v.chunk.Record.Title
		case v.chunk.Record.DocumentID != "":
			title = v.chunk.Record.DocumentID
		}
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 0)))
	b.WriteString("\n\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(No content)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(v.lines))
	for _, line := range v.lines[v.scrollOffset:end] {
		b.WriteString(v.styles.Normal.Render(line))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		percentage := 0
		if m := v.maxScrollOffset(); m > 0 {
			percentage = v.scrollOffset * 100 / m
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage, v.scrollOffset+1, end, len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// Chunk returns the chunk on display.
func (v *View) Chunk() *domain.RetrievedChunk {
	return v.chunk
}

// Lines returns the wrapped display lines.
func (v *View) Lines() []string {
	return v.lines
}

// ScrollOffset returns the index of the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
