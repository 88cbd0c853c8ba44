package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#2D95CA")
	ColorTextMuted = lipgloss.Color("#6B7280")
	ColorText      = lipgloss.Color("#F9FAFB")
	ColorSelected  = lipgloss.Color("#F59E0B")

	AddressStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			PaddingLeft(1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().Foreground(ColorTextMuted)

	ItemStyle = lipgloss.NewStyle().PaddingLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(ColorSelected).
				Bold(true)

	BodyStyle = lipgloss.NewStyle().Padding(1, 1)

	// DrawerStyle frames the side drawer; the animated variant is used once
	// the transition bundle is loaded.
	DrawerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorTextMuted).
			Padding(0, 1)

	AnimatedDrawerStyle = DrawerStyle.
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorSelected).
			Italic(true).
			PaddingLeft(1)
)

// headerStyle applies the host's header colour.
func headerStyle(color string) lipgloss.Style {
	if color == "" {
		return HeaderStyle
	}
	return HeaderStyle.Background(lipgloss.Color(color))
}
