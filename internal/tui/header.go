package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/altin/gh-browse/internal/ui"
)

func RenderHeader(repo string, loggedIn bool, rateRemaining, rateLimit, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" gh-browse | %s", repo))

	authed := ui.StyleMuted.Render("anonymous ")
	if loggedIn {
		authed = ui.StyleSuccess.Render("authenticated ")
	}

	rate := ""
	if rateLimit > 0 {
		color := ui.ColorSuccess
		if rateRemaining < 10 {
			color = ui.ColorFailure
		} else if rateRemaining < 100 {
			color = ui.ColorWarning
		}
		rate = lipgloss.NewStyle().Foreground(color).
			Render(fmt.Sprintf("API: %d/%d  ", rateRemaining, rateLimit))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(rate) - lipgloss.Width(authed)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#1F2937")).
		Width(width).
		Render(left + padding + rate + authed)
}
