package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// StateStyle colors an issue or pull request state.
func StateStyle(state string, merged bool) lipgloss.Style {
	if merged {
		return lipgloss.NewStyle().Foreground(ColorPrimary)
	}
	switch state {
	case "open":
		return StyleSuccess
	case "closed":
		return StyleFailure
	default:
		return StyleMuted
	}
}

// StateIcon renders the state glyph for a list row.
func StateIcon(state string, merged bool) string {
	if merged {
		return StateStyle(state, true).Render("M")
	}
	switch state {
	case "open":
		return StyleSuccess.Render("o")
	case "closed":
		return StyleFailure.Render("x")
	default:
		return StyleMuted.Render("?")
	}
}
