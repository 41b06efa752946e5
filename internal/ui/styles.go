package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#01cdfe")
	good   = lipgloss.Color("#05ffa1")
	bad    = lipgloss.Color("#ff71ce")
	muted  = lipgloss.Color("#9ca3d8")
)

type styles struct {
	title     lipgloss.Style
	panel     lipgloss.Style
	option    lipgloss.Style
	selected  lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	state     map[string]lipgloss.Style
	status    lipgloss.Style
	errStatus lipgloss.Style
	help      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2),
		option:   lipgloss.NewStyle().PaddingLeft(2),
		selected: lipgloss.NewStyle().Foreground(good).Bold(true),
		label:    lipgloss.NewStyle().Foreground(muted).Width(10),
		value:    lipgloss.NewStyle(),
		state: map[string]lipgloss.Style{
			"listening":   lipgloss.NewStyle().Foreground(accent),
			"connecting":  lipgloss.NewStyle().Foreground(accent),
			"established": lipgloss.NewStyle().Foreground(good).Bold(true),
			"closed":      lipgloss.NewStyle().Foreground(muted),
		},
		status:    lipgloss.NewStyle().Foreground(accent),
		errStatus: lipgloss.NewStyle().Foreground(bad).Bold(true),
		help:      lipgloss.NewStyle().Foreground(muted),
	}
}
