package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.ChunkCount())
	assert.Zero(t, bar.ImageCount())
}

func TestNewBar_NilDependencies(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.Nil(t, bar.Init())
}

func TestBar_UpdateIsPassive(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Bar)
		want    []string
		notWant []string
	}{
		{
			name:  "ready",
			setup: func(*Bar) {},
			want:  []string{"Ready", "enter: search"},
		},
		{
			name:  "ready with message",
			setup: func(b *Bar) { b.SetMessage("college 7: 42 chunks") },
			want:  []string{"college 7: 42 chunks"},
		},
		{
			name:  "searching",
			setup: func(b *Bar) { b.SetState(StateSearching) },
			want:  []string{"Retrieving..."},
		},
		{
			name: "results",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetCounts(3, 0)
			},
			want:    []string{"3 passages", "n: new search"},
			notWant: []string{"images,"},
		},
		{
			name: "results with images",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetCounts(2, 1)
			},
			want: []string{"2 passages, 1 images"},
		},
		{
			name:  "degraded",
			setup: func(b *Bar) { b.SetState(StateDegraded) },
			want:  []string{"Degraded"},
		},
		{
			name: "error",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("index missing")
			},
			want: []string{"Error: index missing"},
		},
		{
			name:  "error without message",
			setup: func(b *Bar) { b.SetState(StateError) },
			want:  []string{"Error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			tt.setup(bar)

			view := bar.View()

			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, view, w)
			}
		})
	}
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateResults)
	bar.SetMessage("images on")
	bar.SetCounts(4, 2)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.ChunkCount())
	assert.Zero(t, bar.ImageCount())
}

func TestBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}
