package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBar_Defaults(t *testing.T) {
	b := NewBar(nil, nil)

	assert.Equal(t, StateReady, b.State())
	assert.Equal(t, ModeMenu, b.Mode())
	assert.Equal(t, 80, b.Width())
	assert.Contains(t, b.View(), "Ready")
}

func TestBar_StatesRender(t *testing.T) {
	tests := []struct {
		state State
		msg   string
		want  string
	}{
		{StateThinking, "", "Thinking..."},
		{StateIndexing, "", "Indexing..."},
		{StateError, "boom", "Error: boom"},
		{StateError, "", "Error"},
		{StateReady, "Embedded 3 new chunks", "Embedded 3 new chunks"},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			b := NewBar(nil, nil)
			b.SetWidth(200)
			b.SetState(tt.state)
			b.SetMessage(tt.msg)

			assert.Contains(t, b.View(), tt.want)
		})
	}
}

func TestBar_ResultCount(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetWidth(200)
	b.SetState(StateResults)
	b.SetResultCount(4)

	assert.Equal(t, 4, b.ResultCount())
	assert.Contains(t, b.View(), "4 results")
}

func TestBar_ModeSelectsHints(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetWidth(200)

	b.SetMode(ModeChat)
	assert.Contains(t, b.View(), "pgup")

	b.SetMode(ModeResults)
	assert.Contains(t, b.View(), "↑/k")
}

func TestBar_ClearKeepsMode(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetMode(ModeChat)
	b.SetState(StateError)
	b.SetMessage("x")
	b.SetResultCount(2)

	b.Clear()

	assert.Equal(t, StateReady, b.State())
	assert.Empty(t, b.Message())
	assert.Zero(t, b.ResultCount())
	assert.Equal(t, ModeChat, b.Mode())
}
