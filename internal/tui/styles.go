package tui

import "github.com/charmbracelet/lipgloss"

// Styles for the operator screen. Output text stays unstyled so glyph art
// and patterns keep their exact columns.
type Styles struct {
	Prompt lipgloss.Style
	Echo   lipgloss.Style
	Output lipgloss.Style
	Error  lipgloss.Style
	Status lipgloss.Style
	Hint   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7CFC00")).
			Bold(true),
		Echo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")),
		Output: lipgloss.NewStyle(),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")).
			Italic(true),
		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5F87AF")),
	}
}
