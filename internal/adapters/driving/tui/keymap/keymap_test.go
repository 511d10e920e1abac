package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		key     string
	}{
		{"quit", km.Quit, "ctrl+c"},
		{"back", km.Back, "esc"},
		{"send", km.Send, "enter"},
		{"up arrow", km.Up, "up"},
		{"up vim", km.Up, "k"},
		{"down vim", km.Down, "j"},
		{"scroll up", km.ScrollUp, "pgup"},
		{"scroll down", km.ScrollDown, "pgdown"},
		{"clear", km.Clear, "ctrl+l"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Matches(tt.key, tt.binding))
		})
	}
}

func TestQuitDoesNotUseLetterKeys(t *testing.T) {
	// Letters must reach the prompt.
	km := DefaultKeyMap()
	assert.False(t, Matches("q", km.Quit))
}

func TestHelpSets(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 3)
	assert.Contains(t, km.ChatHelp(), km.ScrollUp)
	assert.Contains(t, km.ResultsHelp(), km.Down)

	for _, b := range km.ChatHelp() {
		assert.NotEmpty(t, b.Help().Key)
		assert.NotEmpty(t, b.Help().Desc)
	}
}

func TestMatches_Unbound(t *testing.T) {
	assert.False(t, Matches("x", DefaultKeyMap().Send))
	assert.False(t, Matches("enter", key.NewBinding()))
}
