// Package retrieve provides a view listing raw retrieval hits for a query.
package retrieve

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
)

// View represents the retrieval view with input, hit list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	prompt    *input.Prompt
	list      *list.HitList
	statusbar *status.Bar

	retrievalService driving.RetrievalService
	ctx              context.Context
	topK             int

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a query, false = navigating hits
	expanded   bool
}

// NewView creates a new retrieval view.
func NewView(s *styles.Styles, km *keymap.KeyMap, retrievalService driving.RetrievalService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:           s,
		keymap:           km,
		prompt:           input.NewPrompt(s, "Query", "Find matching chunks..."),
		list:             list.NewHitList(s),
		statusbar:        status.NewBar(s, km),
		retrievalService: retrievalService,
		ctx:              context.Background(),
		topK:             domain.DefaultTopK,
		width:            80,
		height:           24,
		focusInput:       true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithTopK sets how many hits each query returns.
func (v *View) WithTopK(k int) *View {
	v.topK = k
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.prompt.Init()
}

// Update handles messages for the retrieval view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RetrieveCompleted:
		v.handleRetrieveCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			return v, v.submit()
		}
		var cmd tea.Cmd
		v.prompt, cmd = v.prompt.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "enter":
		v.expanded = !v.expanded
	case "n", "/":
		v.focusInput = true
		v.expanded = false
		v.prompt.SetValue("")
		v.statusbar.SetMode(status.ModeMenu)
		return v, v.prompt.Focus()
	default:
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

func (v *View) submit() tea.Cmd {
	query := strings.TrimSpace(v.prompt.Value())
	if query == "" {
		return nil
	}
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")
	return v.retrieve(query)
}

func (v *View) retrieve(query string) tea.Cmd {
	svc, ctx, topK := v.retrievalService, v.ctx, v.topK
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		hits, err := svc.Retrieve(ctx, query, topK)
		return messages.RetrieveCompleted{Query: query, Hits: hits, Err: err}
	}
}

func (v *View) handleRetrieveCompleted(msg messages.RetrieveCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.expanded = false
	v.list.SetHits(msg.Hits)
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Hits))

	if len(msg.Hits) > 0 {
		v.focusInput = false
		v.prompt.Blur()
		v.statusbar.SetMode(status.ModeResults)
	}
}

// View renders the retrieval view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Ragline"), "", v.prompt.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View())

	if hit := v.list.SelectedHit(); v.expanded && hit != nil {
		detail := lipgloss.NewStyle().Width(max(v.width-4, 20)).Render(hit.Text)
		sections = append(sections, "", v.styles.Border.Padding(0, 1).Render(detail))
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.prompt.SetWidth(width)
	v.list.SetDimensions(width, max(height-8, 3))
	v.statusbar.SetWidth(width)
}

// Ready reports whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// InputFocused reports whether the query prompt has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Hits returns the displayed hits.
func (v *View) Hits() []domain.RetrievalHit {
	return v.list.Hits()
}

// Err returns the last retrieval error.
func (v *View) Err() error {
	return v.err
}
