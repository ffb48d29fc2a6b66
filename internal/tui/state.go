package tui

import "github.com/srynk/pulse/internal/render"

// Tools lists the entries of the tools popup in display order
var Tools = []string{"Brainstorming", "Code Garage", "Explain It", "Ideas", "Placements"}

// Notices shown for features that are not wired to anything yet
const (
	resetPrompt      = "Start a new chat? Your current conversation will be cleared."
	historyNotice    = "History is coming soon"
	libraryNotice    = "Library is coming soon"
	fileNoticePrefix = "File selected: "
	toolNoticeSuffix = " clicked"
)

// EventKind names a UI transition
type EventKind int

const (
	EventToggleTheme EventKind = iota
	EventToggleTools
	EventCloseTools
	EventMoveToolCursor
	EventChooseTool
	EventRequestReset
	EventConfirmReset
	EventCancelReset
	EventOpenFilePicker
	EventCloseFilePicker
	EventFileChosen
	EventShowNotice
	EventDismissNotice
)

// Event is a discrete UI input. Delta is used by EventMoveToolCursor and
// Text by EventFileChosen and EventShowNotice.
type Event struct {
	Kind  EventKind
	Delta int
	Text  string
}

// UIState holds the chat window's presentation state. It is a value: Apply
// returns a new state and never mutates the receiver.
type UIState struct {
	Theme        string
	ToolsOpen    bool
	ToolCursor   int
	ConfirmReset bool
	PickingFile  bool
	Notice       string
}

// NewUIState returns the initial state for theme
func NewUIState(theme string) UIState {
	if _, ok := render.GetTUIThemeByName(theme); !ok {
		theme = render.DarkTheme.Name
	}
	return UIState{Theme: theme}
}

// Modal reports whether an overlay is capturing keys
func (s UIState) Modal() bool {
	return s.ToolsOpen || s.ConfirmReset || s.PickingFile
}

// Apply returns the state after e
func (s UIState) Apply(e Event) UIState {
	switch e.Kind {
	case EventToggleTheme:
		s.Theme = render.OppositeTheme(s.Theme)

	case EventToggleTools:
		s.ToolsOpen = !s.ToolsOpen
		s.ToolCursor = 0

	case EventCloseTools:
		s.ToolsOpen = false
		s.ToolCursor = 0

	case EventMoveToolCursor:
		if s.ToolsOpen {
			n := len(Tools)
			s.ToolCursor = ((s.ToolCursor+e.Delta)%n + n) % n
		}

	case EventChooseTool:
		if s.ToolsOpen {
			s.Notice = Tools[s.ToolCursor] + toolNoticeSuffix
			s.ToolsOpen = false
			s.ToolCursor = 0
		}

	case EventRequestReset:
		s.ConfirmReset = true
		s.ToolsOpen = false
		s.Notice = ""

	case EventConfirmReset:
		s.ConfirmReset = false
		s.ToolsOpen = false
		s.ToolCursor = 0
		s.Notice = ""

	case EventCancelReset:
		s.ConfirmReset = false

	case EventOpenFilePicker:
		s.PickingFile = true
		s.ToolsOpen = false

	case EventCloseFilePicker:
		s.PickingFile = false

	case EventFileChosen:
		s.PickingFile = false
		s.Notice = fileNoticePrefix + e.Text

	case EventShowNotice:
		s.Notice = e.Text

	case EventDismissNotice:
		s.Notice = ""
	}
	return s
}
