package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/views/chunk"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView *search.View
	chunkView  *chunk.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is where esc leaves the help view to.
	previousView messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrInvalidPorts)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		searchView:  search.NewView(s, km, ports.Retrieval, ports.Tenant),
		chunkView:   chunk.NewView(s),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context queries run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("campusrag - college "+a.ports.Tenant.String()),
		a.searchView.Init(),
		a.loadStats(),
	)
}

// loadStats fetches the index statistics shown before the first query.
func (a *App) loadStats() tea.Cmd {
	if a.ports.Ingest == nil {
		return nil
	}
	ctx, ingest, tenant := a.ctx, a.ports.Ingest, a.ports.Tenant
	return func() tea.Msg {
		stats, err := ingest.Stats(ctx, tenant)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
			a.err = a.searchView.Err()
		case messages.ViewChunk:
			a.chunkView, cmd = a.chunkView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "q" {
				a.currentView = a.previousView
			}
		}
		return a, cmd

	case messages.SearchCompleted, messages.StatsLoaded:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ChunkSelected:
		a.chunkView.SetChunk(msg.Chunk)
		a.currentView = messages.ViewChunk
		return a, nil

	case messages.ViewChanged:
		if msg.View == messages.ViewHelp {
			a.previousView = a.currentView
		}
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewSearch {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChunk:
		return a.chunkView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.searchView.View()
	}
}

// viewHelp renders every keybinding group.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back  [ctrl+c] quit"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Chunks returns the passages of the last result.
func (a *App) Chunks() []domain.RetrievedChunk {
	return a.searchView.Chunks()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.chunkView.SetDimensions(width, height)
}
