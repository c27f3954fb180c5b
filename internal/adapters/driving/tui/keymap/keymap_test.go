package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
	assert.Contains(t, km.Quit.Keys(), "q")
	assert.Contains(t, km.Quit.Keys(), "ctrl+c")
	assert.Contains(t, km.Back.Keys(), "esc")
	assert.Contains(t, km.Open.Keys(), "enter")
	assert.Contains(t, km.NewSearch.Keys(), "n")
	assert.Contains(t, km.Images.Keys(), "i")
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	require.Len(t, help, 2)
	assert.Equal(t, "search", help[0].Help().Desc)
}

func TestKeyMap_ResultsHelp(t *testing.T) {
	km := DefaultKeyMap()

	descs := make([]string, 0)
	for _, b := range km.ResultsHelp() {
		descs = append(descs, b.Help().Desc)
	}

	assert.Equal(t, []string{"new search", "up", "open", "images", "quit"}, descs)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()

	require.Len(t, groups, 3)
	for _, g := range groups {
		assert.NotEmpty(t, g)
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		key     string
		binding key.Binding
		want    bool
	}{
		{"k", km.Up, true},
		{"up", km.Up, true},
		{"j", km.Up, false},
		{"i", km.Images, true},
		{"enter", km.Open, true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.key, tt.binding))
		})
	}
}
