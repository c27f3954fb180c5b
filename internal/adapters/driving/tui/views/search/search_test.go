package search

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// mockRetrieval implements driving.RetrievalService for testing.
type mockRetrieval struct {
	result *domain.RetrievalResult
	err    error
	last   domain.RetrievalRequest
}

func (m *mockRetrieval) Retrieve(
	context.Context, domain.TenantID, string, int,
) ([]domain.RetrievedChunk, error) {
	return nil, errors.New("not used")
}

func (m *mockRetrieval) RetrieveContext(_ context.Context, req domain.RetrievalRequest) (*domain.RetrievalResult, error) {
	m.last = req
	return m.result, m.err
}

func testResult() *domain.RetrievalResult {
	return &domain.RetrievalResult{
		Chunks: []domain.RetrievedChunk{
			{
				Content:    "The library opens at 8am.",
				Record:     domain.ChunkRecord{DocumentID: "handbook.md", Title: "Student Handbook", Source: "handbook.md"},
				Similarity: 0.9,
			},
			{
				Content:    "Late returns are fined.",
				Record:     domain.ChunkRecord{DocumentID: "fines.md", Title: "Library Fines", Source: "fines.md"},
				Similarity: 0.7,
			},
		},
		Images: []domain.Image{
			{ID: "img-1", Title: "library entrance", FilePath: "/img/library.jpg"},
		},
	}
}

func newTestView(m *mockRetrieval) *View {
	v := NewView(nil, nil, m, "7")
	v.SetDimensions(100, 40)
	return v
}

func typeQuery(v *View, q string) *View {
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(q)})
	return v
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// submit types q, presses enter and feeds the resulting message back.
func submit(t *testing.T, v *View, q string) *View {
	t.Helper()
	v = typeQuery(v, q)
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &mockRetrieval{}, "7")

	require.NotNil(t, v)
	assert.True(t, v.InputFocused())
	assert.True(t, v.IncludeImages())
	assert.False(t, v.Ready())
	assert.Equal(t, "Initialising...", v.View())
	assert.NotNil(t, v.Init())
}

func TestView_WithContext(t *testing.T) {
	v := NewView(nil, nil, &mockRetrieval{}, "7")

	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("k"), "v")

	assert.Equal(t, v, v.WithContext(ctx))
	assert.Equal(t, ctx, v.ctx)
}

func TestView_TypingUpdatesQuery(t *testing.T) {
	v := newTestView(&mockRetrieval{})

	v = typeQuery(v, "library")

	assert.Equal(t, "library", v.Query())
}

func TestView_EnterWithEmptyQueryDoesNothing(t *testing.T) {
	v := newTestView(&mockRetrieval{})
	v.SetQuery("   ")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, v.InputFocused())
}

func TestView_SearchShowsResults(t *testing.T) {
	m := &mockRetrieval{result: testResult()}
	v := newTestView(m)

	v = submit(t, v, "library hours")

	assert.Equal(t, domain.TenantID("7"), m.last.TenantID)
	assert.Equal(t, "library hours", m.last.Query)
	assert.True(t, m.last.IncludeImages)

	assert.False(t, v.InputFocused())
	assert.Len(t, v.Chunks(), 2)
	assert.Len(t, v.Images(), 1)
	assert.Equal(t, status.StateResults, v.Status())

	out := v.View()
	assert.Contains(t, out, "college 7")
	assert.Contains(t, out, "Student Handbook")
	assert.Contains(t, out, "library entrance")
	assert.Contains(t, out, "2 passages, 1 images")
}

func TestView_SearchingState(t *testing.T) {
	v := newTestView(&mockRetrieval{result: testResult()})
	v = typeQuery(v, "gym")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, status.StateSearching, v.Status())
}

func TestView_DegradedResult(t *testing.T) {
	m := &mockRetrieval{result: &domain.RetrievalResult{
		Degraded: true,
		Warning:  "embedding service unavailable: connection refused",
	}}
	v := newTestView(m)

	v = submit(t, v, "library")

	assert.Equal(t, status.StateDegraded, v.Status())
	assert.Equal(t, "embedding service unavailable: connection refused", v.Warning())
	assert.Empty(t, v.Chunks())
	assert.Contains(t, v.View(), "Warning: embedding service unavailable")
}

func TestView_SearchError(t *testing.T) {
	m := &mockRetrieval{err: domain.ErrInvalidInput}
	v := newTestView(m)

	v = submit(t, v, "library")

	assert.ErrorIs(t, v.Err(), domain.ErrInvalidInput)
	assert.Equal(t, status.StateError, v.Status())
	assert.True(t, v.InputFocused())
	assert.Contains(t, v.View(), "Error:")
}

func TestView_NilServiceReportsError(t *testing.T) {
	v := NewView(nil, nil, nil, "7")
	v.SetDimensions(100, 40)

	v = submit(t, v, "library")

	assert.ErrorIs(t, v.Err(), ErrNoRetrievalService)
}

func TestView_NilResultIsEmpty(t *testing.T) {
	v := newTestView(&mockRetrieval{})

	v = submit(t, v, "library")

	assert.Empty(t, v.Chunks())
	assert.Equal(t, status.StateResults, v.Status())
}

func TestView_NavigateAndOpen(t *testing.T) {
	v := newTestView(&mockRetrieval{result: testResult()})
	v = submit(t, v, "library")

	v, _ = v.Update(runes("j"))
	assert.Equal(t, 1, v.SelectedIndex())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ChunkSelected)
	require.True(t, ok)
	assert.Equal(t, "fines.md", msg.Chunk.Record.DocumentID)
}

func TestView_EnterOnEmptyResults(t *testing.T) {
	v := newTestView(&mockRetrieval{})
	v = submit(t, v, "library")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_NewSearch(t *testing.T) {
	v := newTestView(&mockRetrieval{result: testResult()})
	v = submit(t, v, "library")

	v, _ = v.Update(runes("n"))

	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Query())
	// Previous results stay visible until the next query.
	assert.Len(t, v.Chunks(), 2)
}

func TestView_EscInInputReturnsToResults(t *testing.T) {
	v := newTestView(&mockRetrieval{result: testResult()})
	v = submit(t, v, "library")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, v.InputFocused())

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, v.InputFocused())
}

func TestView_EscWithoutResultsQuits(t *testing.T) {
	v := newTestView(&mockRetrieval{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestView_QuitFromResults(t *testing.T) {
	v := newTestView(&mockRetrieval{result: testResult()})
	v = submit(t, v, "library")

	_, cmd := v.Update(runes("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestView_HelpFromResults(t *testing.T) {
	v := newTestView(&mockRetrieval{result: testResult()})
	v = submit(t, v, "library")

	_, cmd := v.Update(runes("?"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHelp}, cmd())
}

func TestView_ToggleImages(t *testing.T) {
	m := &mockRetrieval{result: testResult()}
	v := newTestView(m)
	v = submit(t, v, "library")

	v, _ = v.Update(runes("i"))
	assert.False(t, v.IncludeImages())

	v, _ = v.Update(runes("n"))
	v = submit(t, v, "fines")

	assert.False(t, m.last.IncludeImages)
}

func TestView_StatsLoaded(t *testing.T) {
	v := newTestView(&mockRetrieval{})

	v, _ = v.Update(messages.StatsLoaded{Stats: domain.IndexStats{TenantID: "7", Slots: 42, Documents: 3}})

	assert.Contains(t, v.View(), "42 chunks from 3 documents")
}

func TestView_StatsLoadedEmptyIndex(t *testing.T) {
	v := newTestView(&mockRetrieval{})

	v, _ = v.Update(messages.StatsLoaded{Stats: domain.IndexStats{TenantID: "7"}})

	assert.Contains(t, v.View(), "index is empty")
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newTestView(&mockRetrieval{})

	v, _ = v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, v.Err(), "boom")
}

func TestView_Reset(t *testing.T) {
	v := newTestView(&mockRetrieval{result: testResult()})
	v = submit(t, v, "library")

	v.Reset()

	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Query())
	assert.Empty(t, v.Chunks())
	assert.Empty(t, v.Images())
	assert.NoError(t, v.Err())
	assert.Equal(t, status.StateReady, v.Status())
}

func TestView_ManyImagesAreCapped(t *testing.T) {
	result := testResult()
	result.Images = nil
	for i := range 7 {
		result.Images = append(result.Images, domain.Image{ID: string(rune('a' + i)), Title: "pic"})
	}
	v := newTestView(&mockRetrieval{result: result})

	v = submit(t, v, "pictures")

	assert.Contains(t, v.View(), "...")
}
