// Package themes holds the color schemes of the expense browser.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Selected      lipgloss.Style
	Header        lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Amount        lipgloss.Style
	Muted         lipgloss.Style
	FocusedField  lipgloss.Style
	BlurredField  lipgloss.Style
	RoundedBox    lipgloss.Style
	Primary       lipgloss.Color
}

type palette struct {
	primary, text, subtext, muted, surface, border lipgloss.Color
	amount, success, danger, info                  lipgloss.Color
}

func (p palette) theme() Theme {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return Theme{
		Primary:       p.primary,
		Title:         fg(p.text).Bold(true),
		Subtitle:      fg(p.subtext),
		Header:        fg(p.primary).Bold(true),
		Amount:        fg(p.amount),
		Muted:         fg(p.muted),
		Selected:      fg(p.surface).Background(p.primary).Bold(true),
		FocusedField:  fg(p.primary).Bold(true),
		BlurredField:  fg(p.subtext),
		RoundedBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(1, 2),
		StatusSuccess: fg(p.success).Bold(true),
		StatusError:   fg(p.danger).Bold(true),
		StatusInfo:    fg(p.info),
	}
}

var (
	// Default is the default theme.
	Default = palette{
		primary: "#2EC4B6",
		text:    "#fafafa",
		subtext: "#a3a3a3",
		muted:   "#737373",
		surface: "#1a1a1a",
		border:  "#404040",
		amount:  "#f59e0b",
		success: "#10b981",
		danger:  "#ef4444",
		info:    "#3b82f6",
	}.theme()

	// CatppuccinMocha is the Catppuccin Mocha theme.
	CatppuccinMocha = palette{
		primary: "#cba6f7",
		text:    "#cdd6f4",
		subtext: "#a6adc8",
		muted:   "#6c7086",
		surface: "#1e1e2e",
		border:  "#45475a",
		amount:  "#f9e2af",
		success: "#a6e3a1",
		danger:  "#f38ba8",
		info:    "#89dceb",
	}.theme()
)

var byName = map[string]Theme{
	"default":          Default,
	"catppuccin-mocha": CatppuccinMocha,
}

// GetTheme returns the named theme, or Default for unknown names.
func GetTheme(name string) Theme {
	if t, ok := byName[name]; ok {
		return t
	}
	return Default
}

// CategoryIcons maps categories to emoji icons.
var CategoryIcons = map[string]string{
	"Food":          "🍕",
	"Bills":         "🧾",
	"Shopping":      "🛍️",
	"Entertainment": "🎬",
	"Other":         "📦",
	"Needs":         "💊",
	"Household":     "🏠",
	"Groceries":     "🥬",
	"Unknown":       "❔",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category string) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "📦"
}
