// Package transcript renders the scrolling chat history.
package transcript

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragline/internal/core/domain"
)

// Turn is one question and its outcome.
type Turn struct {
	Question string
	Answer   string
	Sources  []domain.Citation
	Err      error
	Pending  bool
}

// Transcript holds chat turns inside a scrollable viewport.
type Transcript struct {
	viewport viewport.Model
	styles   *styles.Styles
	turns    []Turn
}

// New creates an empty transcript.
func New(s *styles.Styles, width, height int) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	t := &Transcript{
		viewport: viewport.New(width, height),
		styles:   s,
	}
	t.refresh()
	return t
}

// Update forwards scroll keys and mouse events to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// Ask appends a pending turn for question.
func (t *Transcript) Ask(question string) {
	t.turns = append(t.turns, Turn{Question: question, Pending: true})
	t.refresh()
}

// Resolve completes the most recent pending turn. If none is pending a new
// turn is appended.
func (t *Transcript) Resolve(question string, env *domain.AnswerEnvelope, err error) {
	turn := Turn{Question: question, Err: err}
	if env != nil {
		turn.Answer = env.Answer
		turn.Sources = env.Sources
	}

	if n := len(t.turns); n > 0 && t.turns[n-1].Pending {
		t.turns[n-1] = turn
	} else {
		t.turns = append(t.turns, turn)
	}
	t.refresh()
}

// Turns returns the recorded turns.
func (t *Transcript) Turns() []Turn {
	return t.turns
}

// Clear removes all turns.
func (t *Transcript) Clear() {
	t.turns = nil
	t.refresh()
}

// SetDimensions resizes the viewport and re-wraps the content.
func (t *Transcript) SetDimensions(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(t.render())
	t.viewport.GotoBottom()
}

func (t *Transcript) render() string {
	if len(t.turns) == 0 {
		return t.styles.Muted.Render("Ask a question about your uploaded documents.")
	}

	// Leave room for the "You: " label.
	width := max(t.viewport.Width-6, 20)
	wrap := lipgloss.NewStyle().Width(width)

	blocks := make([]string, 0, len(t.turns))
	for i := range t.turns {
		blocks = append(blocks, t.renderTurn(&t.turns[i], wrap))
	}
	return strings.Join(blocks, "\n\n")
}

func (t *Transcript) renderTurn(turn *Turn, wrap lipgloss.Style) string {
	var b strings.Builder

	b.WriteString(t.styles.UserTurn.Render("You: "))
	b.WriteString(wrap.Render(turn.Question))
	b.WriteString("\n")

	switch {
	case turn.Pending:
		b.WriteString(t.styles.Muted.Render("Thinking..."))
		return b.String()
	case turn.Err != nil:
		b.WriteString(t.styles.Error.Render("Error: " + turn.Err.Error()))
		return b.String()
	}

	b.WriteString(t.styles.AssistantTurn.Render("Assistant:"))
	b.WriteString("\n")
	b.WriteString(wrap.Render(turn.Answer))

	if len(turn.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(t.styles.Subtitle.Render("Sources:"))
		for i, src := range turn.Sources {
			b.WriteString("\n")
			b.WriteString(t.styles.CitationIndex.Render(fmt.Sprintf("[%d]", i+1)))
			b.WriteString(" ")
			b.WriteString(t.styles.Normal.Render(filepath.Base(src.DocID)))
			b.WriteString(t.styles.Muted.Render(fmt.Sprintf(" (%.3f)", src.Score)))
			if snippet := strings.Join(strings.Fields(src.Snippet), " "); snippet != "" {
				b.WriteString("\n    ")
				b.WriteString(t.styles.Muted.Render(snippet))
			}
		}
	}
	return b.String()
}
