package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/services/navigation"
	"github.com/riordanpawley/codeflow/internal/ui/styles"
)

// cardHeight is the rendered height of one card including its border
const cardHeight = 4

// renderColumn renders a column header and its ticket cards. Cards that do
// not fit are summarised as "+N more", keeping the cursor card visible.
func renderColumn(
	col navigation.Column,
	cursorTicket int,
	isActive bool,
	activeID string,
	width int,
	height int,
	s *styles.Styles,
) string {
	headerStyle := s.ColumnHeader
	if isActive {
		headerStyle = s.ColumnHeaderActive
	}

	// Header with title and point total (e.g., "─ Sprint · 14 pts ─────")
	headerText := fmt.Sprintf("─ %s · %d pts ", col.Title, points(col.Tickets))
	if remaining := width - lipgloss.Width(headerText) - 2; remaining > 0 {
		headerText += strings.Repeat("─", remaining)
	}
	header := headerStyle.Render(headerText)

	visible := max((height-2)/cardHeight, 1)
	start := 0
	if cursorTicket >= visible {
		start = cursorTicket - visible + 1
	}
	end := min(start+visible, len(col.Tickets))

	cardWidth := width - 6
	var cardStrings []string
	for i := start; i < end; i++ {
		t := col.Tickets[i]
		cardStrings = append(cardStrings, renderCard(t, i == cursorTicket, t.ID == activeID, cardWidth, s))
	}
	if hidden := len(col.Tickets) - (end - start); hidden > 0 {
		cardStrings = append(cardStrings, s.TicketMeta.Render(fmt.Sprintf("  +%d more", hidden)))
	}
	if len(cardStrings) == 0 {
		cardStrings = append(cardStrings, s.TicketMeta.Render("  (empty)"))
	}

	columnStyle := s.Column
	if isActive {
		columnStyle = s.ColumnActive
	}
	content := columnStyle.Width(width - 2).Render(strings.Join(cardStrings, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

func points(tickets []domain.Ticket) int {
	total := 0
	for _, t := range tickets {
		total += t.StoryPoints
	}
	return total
}
