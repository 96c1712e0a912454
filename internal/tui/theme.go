package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#00D4FF")
	colorMuted   = lipgloss.Color("#8892A2")
	colorSuccess = lipgloss.Color("#00E676")
	colorWarning = lipgloss.Color("#FFAB00")
	colorError   = lipgloss.Color("#FF5252")
)

// styles holds the lipgloss styles used by the views.
type styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Group    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	KeyHint  lipgloss.Style
	Box      lipgloss.Style
	Risk     map[string]lipgloss.Style
}

func newStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Subtitle: lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Group:    lipgloss.NewStyle().Bold(true).Underline(true),
		Success:  lipgloss.NewStyle().Foreground(colorSuccess),
		Error:    lipgloss.NewStyle().Foreground(colorError),
		KeyHint:  lipgloss.NewStyle().Foreground(colorMuted),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),
		Risk: map[string]lipgloss.Style{
			"low":    lipgloss.NewStyle().Foreground(colorSuccess),
			"medium": lipgloss.NewStyle().Foreground(colorWarning),
			"high":   lipgloss.NewStyle().Foreground(colorError),
		},
	}
}
