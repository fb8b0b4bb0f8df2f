package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/balancebuddy/internal/tui/theme"
)

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // rendered value, e.g. a formatted amount
}

// HorizontalBars renders labeled bars scaled to the largest value.
func HorizontalBars(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		textW = max(textW, lipgloss.Width(b.Text))
		peak = max(peak, b.Value)
	}
	if peak <= 0 {
		peak = 1
	}
	barW := width - labelW - textW - 2
	if barW < 5 {
		barW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	lines := make([]string, len(bars))
	for i, b := range bars {
		n := int(b.Value / peak * float64(barW))
		if n < 0 {
			n = 0
		}
		if n == 0 && b.Value > 0 {
			n = 1
		}
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, b.Label)) + " " +
			barStyle.Render(strings.Repeat("█", n)) +
			strings.Repeat(" ", barW-n) + " " +
			textStyle.Render(fmt.Sprintf("%*s", textW, b.Text))
	}
	return strings.Join(lines, "\n")
}
