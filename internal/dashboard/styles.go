package dashboard

import "github.com/charmbracelet/lipgloss"

// Semantic colors (same in both modes)
var (
	Destructive = lipgloss.Color("#e53935") // Red
	Success     = lipgloss.Color("#8BC34A") // Lime Green
	Warning     = lipgloss.Color("#FFC107") // Yellow
	Info        = lipgloss.Color("#2196F3") // Blue
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Accent     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#101F38"),
		Muted:      lipgloss.Color("#6b7380"),
		Border:     lipgloss.Color("#dce0e5"),
		Accent:     lipgloss.Color("#101F38"),
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#f2f2f2"),
		Muted:      lipgloss.Color("#8a94a6"),
		Border:     lipgloss.Color("#2a3850"),
		Accent:     lipgloss.Color("#8BC34A"),
		IsDark:     true,
	}
}

// ThemeByName resolves the dashboard.theme setting. "auto" asks the terminal.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		if lipgloss.HasDarkBackground() {
			return DarkTheme()
		}
		return LightTheme()
	}
}

// Styles are the rendered lipgloss styles for one theme.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Hint     lipgloss.Style
	FieldErr lipgloss.Style
	Banner   lipgloss.Style
	HighRisk lipgloss.Style
	LowRisk  lipgloss.Style
	Urgent   lipgloss.Style
	Notice   lipgloss.Style
	Card     lipgloss.Style
	Divider  lipgloss.Style
	Caption  lipgloss.Style
}

// NewStyles builds styles for a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Foreground),
		Subtitle: lipgloss.NewStyle().Foreground(t.Muted),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Label:    lipgloss.NewStyle().Foreground(t.Foreground),
		Focused:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Hint:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		FieldErr: lipgloss.NewStyle().Foreground(Destructive),
		Banner: lipgloss.NewStyle().
			Foreground(Destructive).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Destructive).
			Padding(0, 1),
		HighRisk: lipgloss.NewStyle().Bold(true).Foreground(Destructive),
		LowRisk:  lipgloss.NewStyle().Bold(true).Foreground(Success),
		Urgent:   lipgloss.NewStyle().Bold(true).Foreground(Warning),
		Notice:   lipgloss.NewStyle().Bold(true).Foreground(Info),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(48),
		Divider: lipgloss.NewStyle().Foreground(t.Border),
		Caption: lipgloss.NewStyle().Foreground(t.Muted),
	}
}
