package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/balancebuddy/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left, a
// message on the right. Error messages render in red.
func RenderStatusBar(width int, hints, message string, isErr bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)
	msgStyle := lipgloss.NewStyle().Foreground(t.Accent)
	if isErr {
		msgStyle = lipgloss.NewStyle().Foreground(t.Red)
	}

	left := " " + hints
	right := ""
	if message != "" {
		right = msgStyle.Render(message) + " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
