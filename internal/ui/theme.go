package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the palette for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string

	SelectionBg   string
	SelectionText string
	Border        string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles contains pre-built Lipgloss styles for a theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header    lipgloss.Style
	Footer    lipgloss.Style
	Logo      lipgloss.Style
	Selected  lipgloss.Style
	TabActive lipgloss.Style
	TabIdle   lipgloss.Style
	Panel     lipgloss.Style
	Label     lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		AccentText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
		InfoText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		TabActive: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Accent)).
			Foreground(lipgloss.Color(t.Background)).
			Bold(true).
			Padding(0, 2),
		TabIdle: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SurfaceAlt)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Width(18),
	}
}

// Availability renders an item's availability badge.
func (s Styles) Availability(available bool) string {
	if available {
		return s.SuccessText.Render("Available")
	}
	return s.DangerText.Render("Checked Out")
}

var themes = map[string]Theme{
	"Horned Frog": hornedFrogTheme(),
	"Nightfox":    nightfoxTheme(),
	"Paper":       paperTheme(),
}

var themeOrder = []string{"Horned Frog", "Nightfox", "Paper"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return hornedFrogTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

func hornedFrogTheme() Theme {
	return Theme{
		Name:          "Horned Frog",
		Background:    "#140d21",
		Surface:       "#1f1432",
		SurfaceAlt:    "#2b1d45",
		SelectionBg:   "#4d1979", // TCU purple
		SelectionText: "#f4effa",
		Border:        "#4d1979",
		Text:          "#e6e0ef",
		Muted:         "#9a8fb0",
		Accent:        "#b794f4",
		Success:       "#7ccf9b",
		Warning:       "#e9c46a",
		Danger:        "#ef6f6c",
		Info:          "#7fc8f8",
	}
}

func nightfoxTheme() Theme {
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24",
		Surface:       "#192330",
		SurfaceAlt:    "#212e3f",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		Text:          "#cdcecf",
		Muted:         "#738091",
		Accent:        "#719cd6",
		Success:       "#81b29a",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
	}
}

func paperTheme() Theme {
	return Theme{
		Name:          "Paper",
		Background:    "#fafafa",
		Surface:       "#eeeeee",
		SurfaceAlt:    "#e0e0e0",
		SelectionBg:   "#d7c8ef",
		SelectionText: "#1f1432",
		Border:        "#b0a8c0",
		Text:          "#222222",
		Muted:         "#666666",
		Accent:        "#4d1979",
		Success:       "#2e7d32",
		Warning:       "#a66900",
		Danger:        "#c62828",
		Info:          "#0277bd",
	}
}
