package board

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/ui/styles"
)

// renderCard renders a ticket card
func renderCard(t domain.Ticket, isCursor bool, isActive bool, width int, s *styles.Styles) string {
	cardStyle := s.Card
	switch {
	case t.Status == domain.StatusCompleted:
		cardStyle = s.CompletedCard
	case isCursor:
		cardStyle = s.CardSelected
	}
	cardStyle = cardStyle.Width(width)

	// Title - truncate if needed
	title := truncate(t.Title, width-4)
	cursor := ""
	if isCursor {
		cursor = "▶"
	}
	if isActive {
		title += " ●"
	}

	typeBadge := s.TypeBadge(t.Type).Render(shortType(t.Type))
	pointsBadge := s.PointsBadge.Render(fmt.Sprintf("%d pts", t.StoryPoints))
	status := s.StatusIcon(t.Status).Render(t.Status.Icon())
	meta := s.TicketMeta.Render(fmt.Sprintf(" %d×%d · %d%% locked", t.Size(), t.Size(), t.PuzzleDefinition.LockedPercent))

	titleLine := cursor + s.TicketTitle.Render(title)
	badgeLine := lipgloss.JoinHorizontal(lipgloss.Left, status, " ", typeBadge, " ", pointsBadge, meta)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleLine, badgeLine))
}

// RenderCard is the exported version for testing
func RenderCard(t domain.Ticket, isCursor bool, isActive bool, width int, s *styles.Styles) string {
	return renderCard(t, isCursor, isActive, width, s)
}

func shortType(t domain.TicketType) string {
	switch t {
	case domain.TicketNewFeature:
		return "FEAT"
	case domain.TicketBugFix:
		return "FIX"
	case domain.TicketLegacyRewrite:
		return "LEGACY"
	default:
		return "TASK"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
