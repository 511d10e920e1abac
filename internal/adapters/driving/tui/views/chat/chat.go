// Package chat provides the question-answering view for the TUI.
package chat

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
)

// View is a prompt above a scrolling transcript of answers.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	prompt     *input.Prompt
	transcript *transcript.Transcript
	statusbar  *status.Bar

	chatService driving.ChatService
	ctx         context.Context
	topK        int

	width  int
	height int
	ready  bool
	busy   bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetMode(status.ModeChat)

	return &View{
		styles:      s,
		keymap:      km,
		prompt:      input.NewPrompt(s, "Ask", "Ask about your documents..."),
		transcript:  transcript.New(s, 80, 16),
		statusbar:   bar,
		chatService: chatService,
		ctx:         context.Background(),
		topK:        domain.DefaultTopK,
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for chat calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithTopK sets how many chunks ground each answer.
func (v *View) WithTopK(k int) *View {
	v.topK = k
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.prompt.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd

	case messages.AnswerCompleted:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.busy = false
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	s := msg.String()
	switch {
	case keymap.Matches(s, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(s, v.keymap.Send):
		return v, v.submit()

	case keymap.Matches(s, v.keymap.Clear):
		v.transcript.Clear()
		v.statusbar.Clear()
		return v, nil

	case keymap.Matches(s, v.keymap.ScrollUp), keymap.Matches(s, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.prompt.Value())
	if question == "" || v.busy {
		return nil
	}

	v.busy = true
	v.prompt.Reset()
	v.transcript.Ask(question)
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")

	return v.ask(question)
}

func (v *View) ask(question string) tea.Cmd {
	svc, ctx, topK := v.chatService, v.ctx, v.topK
	return func() tea.Msg {
		if svc == nil {
			return messages.AnswerCompleted{Question: question, Err: ErrNoChatService}
		}
		env, err := svc.Answer(ctx, question, topK)
		return messages.AnswerCompleted{Question: question, Envelope: env, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerCompleted) {
	v.busy = false
	v.transcript.Resolve(msg.Question, msg.Envelope, msg.Err)

	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}
	v.statusbar.Clear()
	if msg.Envelope != nil {
		v.statusbar.SetResultCount(len(msg.Envelope.Sources))
	}
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("Ragline"),
		"",
		v.transcript.View(),
		"",
		v.prompt.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Title, spacers, bordered prompt and status bar take 7 rows.
	v.transcript.SetDimensions(width, max(height-7, 3))
	v.prompt.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Ready reports whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// Busy reports whether a question is awaiting its answer.
func (v *View) Busy() bool {
	return v.busy
}

// Turns returns the transcript turns.
func (v *View) Turns() []transcript.Turn {
	return v.transcript.Turns()
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}
