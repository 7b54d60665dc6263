// Package ui implements the terminal front end: a closed set of views
// (login, main, user manager, stock manager, log viewers) driven by the
// presence and role of the current session.
package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title    lipgloss.Style
	Greeting lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Warning  lipgloss.Style
	Success  lipgloss.Style
	Help     lipgloss.Style
	Prompt   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BC34A")).
			MarginBottom(1),
		Greeting: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2196F3")),
		Header: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
		Cell: lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#141d2b")).
			Background(lipgloss.Color("#8BC34A")),
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e53935")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BC34A")),
		Help: lipgloss.NewStyle().
			Faint(true),
		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC107")),
	}
}
