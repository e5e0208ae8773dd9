// Package board renders ticket columns: backlog and sprint while planning,
// and the sprint board while the sprint runs.
package board

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/services/navigation"
	"github.com/riordanpawley/codeflow/internal/ui/styles"
)

// Render renders the columns side by side with evenly shared width.
// activeID marks the ticket currently being worked on, if any.
func Render(
	columns []navigation.Column,
	pos navigation.Position,
	activeID string,
	s *styles.Styles,
	width int,
	height int,
) string {
	if len(columns) == 0 {
		return ""
	}

	columnWidth := width / len(columns)

	var columnStrings []string
	for i, col := range columns {
		isActive := i == pos.Column
		cursorTicket := -1
		if isActive && pos.Valid {
			cursorTicket = pos.Ticket
		}

		columnStr := renderColumn(col, cursorTicket, isActive, activeID, columnWidth, height, s)

		// Force consistent width using lipgloss Width
		sized := lipgloss.NewStyle().Width(columnWidth).Height(height).Render(columnStr)
		columnStrings = append(columnStrings, sized)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columnStrings...)
}
