package tui

import (
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	inactiveTabStyle = lipgloss.NewStyle().Faint(true)
	labelStyle       = lipgloss.NewStyle().Width(12).Faint(true)
	doneStyle        = lipgloss.NewStyle().Strikethrough(true).Faint(true)

	priorityStyles = map[models.Priority]lipgloss.Style{
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func priorityStyle(p models.Priority) lipgloss.Style {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
