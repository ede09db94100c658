package output

import "github.com/charmbracelet/lipgloss"

// Console styles shared by the CLI.
var (
	BannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)
	SubtitleStyle = lipgloss.NewStyle().Faint(true)
	InfoStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	SuccessStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	WarnStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	HintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Banner renders the run banner with an optional subtitle line beneath it.
func Banner(title, subtitle string) string {
	box := BannerStyle.Render(title)
	if subtitle == "" {
		return box
	}
	return lipgloss.JoinVertical(lipgloss.Left, box, SubtitleStyle.Render(subtitle))
}
