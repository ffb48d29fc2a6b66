package tui

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/srynk/pulse/internal/models"
	"github.com/srynk/pulse/internal/render"
	"github.com/srynk/pulse/internal/turn"
)

// Animation tick message
type animationTickMsg time.Time

// turnDoneMsg carries the backend result of a turn back to Update
type turnDoneMsg struct {
	turn  *turn.Turn
	reply string
	err   error
}

// Model represents the TUI state
type Model struct {
	ctx        context.Context
	controller *turn.Controller
	modelName  string
	logger     *slog.Logger

	// UI components
	viewport   viewport.Model
	textarea   textarea.Model
	spinner    spinner.Model
	filepicker filepicker.Model
	st         styles

	// State
	ui             UIState
	ready          bool
	lastErr        error
	animationFrame int // Frame counter for loading animation

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model. Turns started from the model
// derive their context from ctx.
func NewChatModel(ctx context.Context, controller *turn.Controller, modelName, theme string, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ui := NewUIState(theme)
	render.SetTUITheme(ui.Theme)
	st := currentStyles()

	// Create textarea for input
	ta := textarea.New()
	ta.Placeholder = "Ask " + models.AssistantName + " anything..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()
	st.styleTextarea(&ta)

	// Create spinner
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = st.loading

	fp := filepicker.New()
	fp.CurrentDirectory = "."

	return Model{
		ctx:        ctx,
		controller: controller,
		modelName:  modelName,
		logger:     logger.With("component", "tui"),
		textarea:   ta,
		spinner:    s,
		filepicker: fp,
		st:         st,
		ui:         ui,
	}
}

func (s styles) styleTextarea(ta *textarea.Model) {
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = fg(s.theme.Text)
	ta.FocusedStyle.Placeholder = fg(s.theme.TextDim)
	ta.BlurredStyle = ta.FocusedStyle
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// busy reports whether a reply is outstanding
func (m Model) busy() bool {
	return m.controller.Busy()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	// Turn results and animation run regardless of which overlay is open
	switch msg := msg.(type) {
	case turnDoneMsg:
		m.completeTurn(msg)
		return m, nil

	case spinner.TickMsg:
		if m.busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case animationTickMsg:
		if m.busy() {
			m.animationFrame++
			m.updateViewport()
			return m, animationTick()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)
		if m.ui.PickingFile {
			m.filepicker, cmd = m.filepicker.Update(msg)
		}
		return m, cmd
	}

	switch {
	case m.ui.PickingFile:
		return m.updateFilePicker(msg)
	case m.ui.ConfirmReset:
		return m.updateResetConfirm(msg)
	case m.ui.ToolsOpen:
		return m.updateTools(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+n":
			m.ui = m.ui.Apply(Event{Kind: EventRequestReset})
			return m, nil

		case "ctrl+t":
			m.apply(Event{Kind: EventToggleTheme})
			return m, nil

		case "ctrl+o":
			m.ui = m.ui.Apply(Event{Kind: EventToggleTools})
			return m, nil

		case "ctrl+f":
			m.ui = m.ui.Apply(Event{Kind: EventOpenFilePicker})
			return m, m.filepicker.Init()

		case "ctrl+h":
			m.ui = m.ui.Apply(Event{Kind: EventShowNotice, Text: historyNotice})
			return m, nil

		case "ctrl+l":
			m.ui = m.ui.Apply(Event{Kind: EventShowNotice, Text: libraryNotice})
			return m, nil

		case "enter":
			return m.send()
		}

		// Only pass KeyMsg to textarea to prevent escape sequence leaks
		if !m.busy() {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// resize lays the panels out for the new terminal size
func (m *Model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	// Calculate component heights
	headerHeight := 4 // Header panel with border
	inputHeight := 6  // Input panel with border
	statusHeight := 2 // Notice line and status bar
	padding := 2      // Extra spacing

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.width - 4

	// Initialize viewport on first size message
	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.updateViewport()
}

// send starts a turn for the current input. It does nothing while a turn is
// outstanding or when the input is blank.
func (m Model) send() (tea.Model, tea.Cmd) {
	if m.busy() {
		return m, nil
	}

	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}
	switch input {
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	}

	t, err := m.controller.Begin(m.ctx, input)
	if err != nil {
		m.logger.Debug("turn not started", "error", err)
		return m, nil
	}

	m.textarea.Reset()
	m.ui = m.ui.Apply(Event{Kind: EventDismissNotice})
	m.lastErr = nil
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.runTurn(t),
		m.spinner.Tick,
		animationTick(),
	)
}

// runTurn performs the backend call off the update loop
func (m Model) runTurn(t *turn.Turn) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		reply, err := controller.Run(t)
		return turnDoneMsg{turn: t, reply: reply, err: err}
	}
}

func (m *Model) completeTurn(msg turnDoneMsg) {
	out := m.controller.Complete(msg.turn, msg.reply, msg.err)
	if out.Stale {
		m.logger.Debug("dropped reply for discarded conversation", "turn", out.TurnID)
		return
	}
	if out.Failed() {
		m.lastErr = out.Err
	}
	m.updateViewport()
	m.viewport.GotoBottom()
}

// apply transitions the UI state and refreshes whatever depends on it
func (m *Model) apply(e Event) {
	prev := m.ui.Theme
	m.ui = m.ui.Apply(e)
	if m.ui.Theme != prev {
		render.SetTUITheme(m.ui.Theme)
		m.st = currentStyles()
		m.st.styleTextarea(&m.textarea)
		m.spinner.Style = m.st.loading
		m.updateViewport()
	}
}

func (m Model) updateResetConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "y", "Y", "enter":
		epoch := m.controller.Reset()
		m.logger.Info("new chat", "epoch", epoch)
		m.ui = m.ui.Apply(Event{Kind: EventConfirmReset})
		m.textarea.Reset()
		m.lastErr = nil
		m.animationFrame = 0
		m.updateViewport()
	case "n", "N", "esc":
		m.ui = m.ui.Apply(Event{Kind: EventCancelReset})
	}
	return m, nil
}

func (m Model) updateTools(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k", "shift+tab":
		m.ui = m.ui.Apply(Event{Kind: EventMoveToolCursor, Delta: -1})
	case "down", "j", "tab":
		m.ui = m.ui.Apply(Event{Kind: EventMoveToolCursor, Delta: 1})
	case "enter":
		m.ui = m.ui.Apply(Event{Kind: EventChooseTool})
		m.logger.Debug("tool chosen", "notice", m.ui.Notice)
	case "esc", "ctrl+o":
		m.ui = m.ui.Apply(Event{Kind: EventCloseTools})
	}
	return m, nil
}

func (m Model) updateFilePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "ctrl+f":
			m.ui = m.ui.Apply(Event{Kind: EventCloseFilePicker})
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if ok, path := m.filepicker.DidSelectFile(msg); ok {
		m.ui = m.ui.Apply(Event{Kind: EventFileChosen, Text: filepath.Base(path)})
		m.logger.Debug("file selected", "path", path)
	}
	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return m.st.loading.Render("  Initializing...")
	}

	contentWidth := m.width - 4

	if m.ui.PickingFile {
		return m.renderFilePicker(contentWidth)
	}

	var sections []string

	// Header
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		m.st.title.Render("✦ "+models.AssistantName),
		m.st.hint.Render("  •  "),
		m.st.subtitle.Render(m.modelName),
		m.st.hint.Render("  •  "),
		m.st.subtitle.Render(m.ui.Theme),
	)
	sections = append(sections, m.st.header.Width(contentWidth).Render(headerContent))

	// Messages area
	var messagesContent string
	if m.controller.Store().Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, m.st.messages.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input area, or the overlay that replaces it
	switch {
	case m.ui.ConfirmReset:
		sections = append(sections, m.renderResetConfirm(contentWidth))
	case m.ui.ToolsOpen:
		sections = append(sections, m.renderTools(contentWidth))
	default:
		label := m.st.inputLabel.Render("You")
		if m.busy() {
			label = m.st.hint.Render(models.AssistantName + " is replying...")
		}
		inputContent := lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
		sections = append(sections, m.st.inputPanel.Width(contentWidth).Render(inputContent))
	}

	if m.ui.Notice != "" {
		sections = append(sections, m.st.notice.Width(contentWidth).Render(m.ui.Notice))
	}

	if m.lastErr != nil {
		sections = append(sections, m.formatError(m.lastErr))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := m.st.welcomeIcon.Width(width).Render("✦")
	title := m.st.welcomeTitle.Width(width).Render("Meet " + models.AssistantName + ", your personal AI assistant")
	subtitle := m.st.welcome.Width(width).Render("Start a conversation by typing a message below")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	// Center vertically
	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"^N", "New chat"},
		{"^O", "Tools"},
		{"^F", "File"},
		{"^T", "Theme"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, m.st.statusKey.Render(s.key)+m.st.statusDesc.Render(" "+s.desc))
	}

	return m.st.statusBar.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

func (m Model) renderResetConfirm(width int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.st.warning.Render(resetPrompt),
		m.st.hint.Render("y confirm  •  n cancel"),
	)
	return m.st.overlay.Width(width).Render(content)
}

func (m Model) renderTools(width int) string {
	var content strings.Builder
	content.WriteString(m.st.overlayTitle.Render("Tools"))
	for i, tool := range Tools {
		content.WriteString("\n")
		if i == m.ui.ToolCursor {
			content.WriteString(m.st.menuCursor.Render("▸ ") + m.st.menuSelected.Render(tool))
		} else {
			content.WriteString(m.st.menuItem.Render(tool))
		}
	}
	return m.st.overlay.Width(width).Render(content.String())
}

func (m Model) renderFilePicker(width int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.st.overlayTitle.Render("Select a file"),
		m.filepicker.View(),
		m.st.statusKey.Render("Enter")+m.st.statusDesc.Render(" Select")+"  │  "+
			m.st.statusKey.Render("Esc")+m.st.statusDesc.Render(" Cancel"),
	)
	return m.st.overlay.Width(width).Render(content)
}

// updateViewport refreshes the viewport content from the conversation
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.controller.Store().Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch msg.Sender {
		case models.SenderUser:
			label := m.st.userLabel.Render("⬤ You")
			bubble := m.st.userBubble.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)

		case models.SenderPending:
			label := m.st.assistantLabel.Render("✦ " + models.AssistantName)
			bubble := m.st.assistantBubble.Width(bubbleWidth).Render(m.st.loadingFrame(m.animationFrame, models.LoadingText))
			content.WriteString(label + "\n" + bubble)

		default:
			label := m.st.assistantLabel.Render("✦ " + models.AssistantName)
			rendered, err := render.MarkdownWithWidth(msg.Text, bubbleWidth-4)
			if err != nil {
				rendered = msg.Text
			}
			rendered = strings.TrimRight(rendered, "\n")
			bubble := m.st.assistantBubble.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// formatError renders the hint shown under a failed turn
func (m Model) formatError(err error) string {
	hint := errorHint(err)
	if hint == "" {
		return ""
	}
	return m.st.dim.PaddingLeft(2).Render("💡 " + hint)
}

// RunChat starts the chat TUI
func RunChat(ctx context.Context, controller *turn.Controller, modelName, theme string, logger *slog.Logger) error {
	m := NewChatModel(ctx, controller, modelName, theme, logger)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
