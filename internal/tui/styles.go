// Package tui provides the Bubble Tea screens of screener: the interview
// itself and a viewer for finished reports.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fakeyudi/screener/internal/question"
)

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	easyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	hardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func difficultyBadge(d question.Difficulty) string {
	label := "[" + string(d) + "]"
	switch d {
	case question.Easy:
		return easyStyle.Render(label)
	case question.Medium:
		return mediumStyle.Render(label)
	case question.Hard:
		return hardStyle.Render(label)
	}
	return label
}

// scoreStyle colours a score by its tier.
func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 8:
		return easyStyle
	case score >= 6:
		return timeStyle
	case score >= 4:
		return mediumStyle
	}
	return hardStyle
}
