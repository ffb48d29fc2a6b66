// Package tui provides the terminal chat window.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/srynk/pulse/internal/errors"
	"github.com/srynk/pulse/internal/models"
	"github.com/srynk/pulse/internal/render"
)

// loadingGlyphs and loadingColors drive the reply placeholder animation.
// The gradient is the same in both themes.
var (
	loadingGlyphs = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	loadingColors = []lipgloss.Color{
		"#ff6b6b", "#feca57", "#48dbfb", "#ff9ff3",
		"#54a0ff", "#5f27cd", "#00d2d3", "#1dd1a1",
	}
)

// styles is every lipgloss style the window uses, derived from one theme
type styles struct {
	theme render.TUITheme

	header   lipgloss.Style
	title    lipgloss.Style
	subtitle lipgloss.Style
	hint     lipgloss.Style

	messages        lipgloss.Style
	userLabel       lipgloss.Style
	userBubble      lipgloss.Style
	assistantLabel  lipgloss.Style
	assistantBubble lipgloss.Style
	loading         lipgloss.Style

	inputPanel lipgloss.Style
	inputLabel lipgloss.Style
	notice     lipgloss.Style
	warning    lipgloss.Style
	errText    lipgloss.Style
	dim        lipgloss.Style
	success    lipgloss.Style

	statusBar  lipgloss.Style
	statusKey  lipgloss.Style
	statusDesc lipgloss.Style

	welcome      lipgloss.Style
	welcomeTitle lipgloss.Style
	welcomeIcon  lipgloss.Style

	overlay      lipgloss.Style
	overlayTitle lipgloss.Style
	menuItem     lipgloss.Style
	menuSelected lipgloss.Style
	menuCursor   lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func panel(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

func newStyles(t render.TUITheme) styles {
	return styles{
		theme: t,

		header:   panel(t.Border).Padding(0, 2).MarginBottom(1),
		title:    fg(t.Primary).Bold(true),
		subtitle: fg(t.TextDim),
		hint:     fg(t.TextMute).Italic(true),

		messages:        panel(t.Border).Padding(1),
		userLabel:       fg(t.Secondary).Bold(true).MarginLeft(4),
		userBubble:      panel(t.Secondary).Padding(0, 1).MarginLeft(4),
		assistantLabel:  fg(t.Primary).Bold(true),
		assistantBubble: panel(t.Primary).Foreground(t.Text).Padding(0, 1).MarginRight(4),
		loading:         fg(t.Accent).Bold(true),

		inputPanel: panel(t.Border).Padding(0, 1).MarginTop(1),
		inputLabel: fg(t.Primary).Bold(true).MarginRight(1),
		notice:     fg(t.Accent).Italic(true).PaddingLeft(2),
		warning:    fg(t.Warning).Bold(true),
		errText:    fg(t.Error),
		dim:        fg(t.TextDim),
		success:    fg(t.Success),

		statusBar:  fg(t.TextMute),
		statusKey:  fg(t.TextDim).Bold(true),
		statusDesc: fg(t.TextMute),

		welcome:      fg(t.TextDim).Align(lipgloss.Center),
		welcomeTitle: fg(t.Primary).Bold(true).Align(lipgloss.Center),
		welcomeIcon:  fg(t.Accent).Align(lipgloss.Center),

		overlay:      panel(t.Primary).Background(t.Surface).Padding(0, 2).MarginTop(1),
		overlayTitle: fg(t.Text).Bold(true).MarginBottom(1),
		menuItem:     fg(t.Text).PaddingLeft(2),
		menuSelected: fg(t.Accent).Bold(true),
		menuCursor:   fg(t.Accent),
	}
}

// currentStyles builds styles for the active theme
func currentStyles() styles {
	return newStyles(render.GetTUITheme())
}

// loadingFrame draws one frame of the placeholder animation: a spinning
// glyph, the text, and up to three filling dots.
func (s styles) loadingFrame(frame int, text string) string {
	spin := fg(loadingColors[frame%len(loadingColors)]).Bold(true).
		Render(loadingGlyphs[frame%len(loadingGlyphs)])

	var dots strings.Builder
	filled := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < filled {
			dots.WriteString(fg(loadingColors[(frame+i)%len(loadingColors)]).Render("●"))
		} else {
			dots.WriteString(fg(s.theme.TextMute).Render("○"))
		}
	}

	return fmt.Sprintf("%s %s %s", spin, fg(s.theme.Text).Render(text), dots.String())
}

// LoadingFrame renders frame n of the loading animation in the active theme
func LoadingFrame(n int, text string) string {
	return currentStyles().loadingFrame(n, text)
}

// ReplyHeader is the label printed above an assistant reply
func ReplyHeader() string {
	return currentStyles().assistantLabel.Render("✦ " + models.AssistantName)
}

// ReplyBubble frames already rendered reply text at width
func ReplyBubble(content string, width int) string {
	return currentStyles().assistantBubble.
		MarginRight(0).
		MarginTop(1).
		MarginBottom(1).
		Width(width).
		Render(content)
}

// Success renders a confirmation line such as "✓ Copied to clipboard"
func Success(msg string) string {
	return currentStyles().success.Render("✓ " + msg)
}

// Warn renders a non-fatal problem
func Warn(msg string) string {
	return currentStyles().errText.Render("⚠ " + msg)
}

// errorHint suggests a fix for a failed turn, or "" when there is nothing useful to say
func errorHint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.IsAuthError(err):
		return fmt.Sprintf("Check that %s holds a valid API key", models.APIKeyEnv)
	case errors.IsRateLimitError(err):
		return "Quota reached. Wait a moment or lower requests_per_minute"
	case errors.IsTimeoutError(err):
		return "Request timed out. Try again or raise timeout_seconds"
	case errors.IsMalformedResponse(err):
		return "The model returned no text. Try rephrasing"
	case errors.IsNetworkError(err):
		return "Check your internet connection"
	}
	return ""
}

// FormatError returns a styled error message with the HTTP status and a hint
// when one applies.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	s := currentStyles()

	var sb strings.Builder
	sb.WriteString(s.errText.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(s.dim.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if hint := errorHint(err); hint != "" {
		sb.WriteString(s.dim.Render("\n  Hint: " + hint))
	}
	return sb.String()
}
