// Package search provides the query and results view for the TUI.
package search

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driving"
)

// maxImages is the number of related images listed under the passages.
const maxImages = 5

// View is the search view: a query input, the retrieved passages, any
// related images and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	tenant    domain.TenantID
	ctx       context.Context

	images        []domain.Image
	warning       string
	includeImages bool

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a query, false = navigating results
}

// NewView creates a new search view for one tenant.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrieval driving.RetrievalService,
	tenant domain.TenantID,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s, "Ask"),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		retrieval:     retrieval,
		tenant:        tenant,
		ctx:           context.Background(),
		includeImages: true,
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context queries run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.StatsLoaded:
		if msg.Err == nil && v.statusbar.State() == status.StateReady {
			v.statusbar.SetMessage(statsLine(msg.Stats))
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}

	switch {
	case msg.Type == tea.KeyEnter:
		c := v.list.SelectedChunk()
		if c == nil {
			return v, nil
		}
		chunk := *c
		return v, func() tea.Msg { return messages.ChunkSelected{Chunk: chunk} }
	case msg.Type == tea.KeyEsc, keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(msg.String(), v.keymap.Images):
		v.includeImages = !v.includeImages
		if v.includeImages {
			v.statusbar.SetMessage("images on")
		} else {
			v.statusbar.SetMessage("images off")
		}
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case msg.String() == "q":
		return v, func() tea.Msg { return messages.Quit{} }
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// handleInputKey handles keys while the query input has focus.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateSearching)
		v.focusInput = false
		v.input.Blur()
		return v, v.performSearch(query)
	case tea.KeyEsc:
		// Back to the previous results when there are any.
		if !v.list.IsEmpty() {
			v.focusInput = false
			v.input.Blur()
			return v, nil
		}
		return v, func() tea.Msg { return messages.Quit{} }
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// performSearch runs the query against the tenant's index.
func (v *View) performSearch(query string) tea.Cmd {
	req := domain.RetrievalRequest{
		TenantID:      v.tenant,
		Query:         query,
		IncludeImages: v.includeImages,
	}
	return func() tea.Msg {
		if v.retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		result, err := v.retrieval.RetrieveContext(v.ctx, req)
		return messages.SearchCompleted{Query: query, Result: result, Err: err}
	}
}

// handleSearchCompleted shows a retrieval result.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.warning = ""
	v.images = nil
	v.statusbar.SetMessage("")

	result := msg.Result
	if result == nil {
		result = &domain.RetrievalResult{}
	}
	v.list.SetChunks(result.Chunks)
	v.images = result.Images
	v.statusbar.SetCounts(len(result.Chunks), len(result.Images))

	if result.Degraded {
		v.warning = result.Warning
		v.statusbar.SetState(status.StateDegraded)
	} else {
		v.statusbar.SetState(status.StateResults)
	}
	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	if err == nil {
		return
	}
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
	// Let the user retype the query.
	v.focusInput = true
	v.input.Focus()
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections,
		v.styles.Title.Render("campusrag")+"  "+v.styles.Muted.Render("college "+v.tenant.String()),
		"",
		v.input.View(),
		"",
	)

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	if v.warning != "" {
		sections = append(sections, v.styles.Warning.Render("Warning: "+v.warning), "")
	}

	sections = append(sections, v.list.View())

	if len(v.images) > 0 {
		sections = append(sections, "", v.renderImages())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderImages lists the first related images.
func (v *View) renderImages() string {
	lines := []string{v.styles.Subtitle.Render("Images")}
	for i, img := range v.images {
		if i == maxImages {
			lines = append(lines, v.styles.Muted.Render("  ..."))
			break
		}
		lines = append(lines, "  "+v.styles.Normal.Render(img.Title)+"  "+v.styles.Muted.Render(img.FilePath))
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the query text.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Chunks returns the retrieved passages.
func (v *View) Chunks() []domain.RetrievedChunk {
	return v.list.Chunks()
}

// Images returns the related images of the last result.
func (v *View) Images() []domain.Image {
	return v.images
}

// Warning returns the degradation warning of the last result, if any.
func (v *View) Warning() string {
	return v.warning
}

// IncludeImages reports whether queries ask for related images.
func (v *View) IncludeImages() bool {
	return v.includeImages
}

// SelectedIndex returns the index of the selected passage.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Reset returns the view to an empty query.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetChunks(nil)
	v.images = nil
	v.warning = ""
	v.err = nil
	v.statusbar.Clear()
}

func statsLine(s domain.IndexStats) string {
	if s.Slots == 0 {
		return "index is empty"
	}
	return fmt.Sprintf("%d chunks from %d documents", s.Slots, s.Documents)
}
