package tui

import (
	"github.com/charmbracelet/lipgloss"

	"tasker.com/tasker/internal/constants"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true).Padding(0, 1)
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	paneTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	valueMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	statusColor = map[constants.TaskStatus]lipgloss.Style{
		constants.StatusDone:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1EFB9D")),
		constants.StatusInProgress: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A187F0")),
		constants.StatusOverdue:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F06B87")),
	}
)

func renderStatus(status constants.TaskStatus) string {
	style, ok := statusColor[status]
	if !ok {
		style = lipgloss.NewStyle().Bold(true)
	}
	return style.Render(status.Label())
}
