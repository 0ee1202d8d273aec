package viz

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusFailed = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(12)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	GraphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49")).
			Padding(1, 0)

	// Collision verdicts in the collide command.
	Hit  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
	Miss = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
)

// Row renders a label/value line for the stats panel.
func Row(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

// Verdict renders a collision answer.
func Verdict(hit bool) string {
	if hit {
		return Hit.Render("COLLIDE")
	}
	return Miss.Render("CLEAR")
}
