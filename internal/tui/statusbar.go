package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/altin/gh-browse/internal/ui"
)

// RenderStatusBar shows the app status on the left and key hints on the
// right. Error and warning statuses are colored so a failed fetch stays
// visible while the active view keeps showing already-loaded items.
func RenderStatusBar(status, hints string, width int) string {
	style := ui.StyleMuted
	switch {
	case strings.HasPrefix(status, "Error"):
		style = ui.StyleFailure
	case strings.HasPrefix(status, "Warning"), strings.HasPrefix(status, "Clear cache"):
		style = ui.StyleWarning
	}

	help := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(hints + " ")

	// Hints keep their space; a long status is truncated to fit.
	if avail := width - lipgloss.Width(help) - 3; avail > 0 {
		if r := []rune(status); len(r) > avail {
			status = string(r[:avail-1]) + "…"
		}
	}
	left := style.Render("  " + status)

	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		Render(left + padding + help)
}
