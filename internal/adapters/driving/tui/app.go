package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/ragline/internal/adapters/driving/tui/views/retrieve"
	"github.com/custodia-labs/ragline/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	chatView     *chat.View
	retrieveView *retrieve.View

	currentView messages.ViewType

	// notice is shown under the menu after an index run.
	notice   string
	indexing bool
	err      error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s),
		chatView:     chat.NewView(s, km, ports.Chat),
		retrieveView: retrieve.NewView(s, km, ports.Retrieval),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.retrieveView.WithContext(ctx)
	return a
}

// WithTopK sets how many chunks the chat and retrieve views request.
func (a *App) WithTopK(k int) *App {
	a.chatView.WithTopK(k)
	a.retrieveView.WithTopK(k)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("ragline"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewChat:
			return a, a.chatView.Init()
		case messages.ViewRetrieve:
			return a, a.retrieveView.Init()
		case messages.ViewMenu:
		}
		return a, nil

	case messages.IndexRequested:
		return a, a.startIndex()

	case messages.IndexCompleted:
		a.handleIndexCompleted(msg)
		return a, nil

	case messages.AnswerCompleted:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.RetrieveCompleted:
		a.retrieveView, cmd = a.retrieveView.Update(msg)
		a.err = a.retrieveView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
	}

	return a, a.forward(msg)
}

// forward sends msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewRetrieve:
		a.retrieveView, cmd = a.retrieveView.Update(msg)
	}
	return cmd
}

func (a *App) startIndex() tea.Cmd {
	if a.indexing {
		return nil
	}
	if a.ports.Index == nil {
		a.err = ErrIndexUnavailable
		a.notice = ""
		return nil
	}

	a.indexing = true
	a.err = nil
	a.notice = "Indexing..."

	svc, ctx := a.ports.Index, a.ctx
	return func() tea.Msg {
		stats, err := svc.Index(ctx)
		return messages.IndexCompleted{Stats: stats, Err: err}
	}
}

func (a *App) handleIndexCompleted(msg messages.IndexCompleted) {
	a.indexing = false
	if msg.Err != nil {
		a.err = msg.Err
		a.notice = ""
		return
	}
	a.err = nil
	a.notice = indexNotice(msg.Stats)
}

func indexNotice(stats *domain.IndexStats) string {
	if stats == nil {
		return domain.MessageNothingToEmbed
	}
	return fmt.Sprintf("%s (read %d, skipped %d, new %d)",
		stats.Message, stats.TotalRead, stats.Skipped, stats.NewFound)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewRetrieve:
		return a.retrieveView.View()
	case messages.ViewMenu:
	}

	sections := []string{a.menuView.View()}
	if a.err != nil {
		sections = append(sections, "", a.styles.Error.Render("Error: "+a.err.Error()))
	} else if a.notice != "" {
		sections = append(sections, "", a.styles.Success.Render(a.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Notice returns the last index summary.
func (a *App) Notice() string {
	return a.notice
}

// Indexing reports whether an index run is in flight.
func (a *App) Indexing() bool {
	return a.indexing
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.retrieveView.SetDimensions(width, height)
}
