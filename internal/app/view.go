package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/services/session"
	"github.com/riordanpawley/codeflow/internal/ui/board"
	"github.com/riordanpawley/codeflow/internal/ui/overlay"
	"github.com/riordanpawley/codeflow/internal/ui/statusbar"
	"github.com/riordanpawley/codeflow/internal/ui/styles"
	"github.com/riordanpawley/codeflow/internal/ui/toast"
)

const banner = `  ___         _       ___ _
 / __|___  __| |___  | __| |_____ __ __
| (__/ _ \/ _' / -_) | _|| / _ \ V  V /
 \___\___/\__,_\___| |_| |_\___/\_/\_/`

// View renders the current state as a string
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	s := m.machine.State()

	sb := statusbar.New(statusbar.Info{
		Phase:        s.GamePhase,
		Sprint:       s.SprintNumber,
		Remaining:    s.SprintTimeRemaining,
		TimerRunning: m.machine.TimerRunning(),
		Backlog:      len(s.Backlog),
		BacklogCap:   m.config.Game.MaxBacklogBeforeGameOver,
		Completed:    s.TotalTicketsCompleted,
	}, m.width, m.styles)
	statusBarView := sb.Render()

	toastView := toast.New(m.styles).Render(m.toasts, m.width)
	mainHeight := m.height - lipgloss.Height(statusBarView)
	if toastView != "" {
		mainHeight -= lipgloss.Height(toastView)
	}
	mainHeight = max(mainHeight, 1)

	var mainView string
	if current := m.overlayStack.Current(); current != nil {
		// Modal overlays replace the screen, centered
		mainView = lipgloss.Place(m.width, mainHeight, lipgloss.Center, lipgloss.Center,
			overlay.Frame(current, overlay.New()))
	} else {
		mainView = m.renderPhase(s, mainHeight)
	}
	mainView = lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(mainHeight).Render(mainView)
	mainView = lipgloss.Place(m.width, mainHeight, lipgloss.Left, lipgloss.Top, mainView)

	parts := []string{mainView}
	if toastView != "" {
		parts = append(parts, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toastView))
	}
	parts = append(parts, statusBarView)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderPhase(s session.State, height int) string {
	switch s.GamePhase {
	case domain.PhaseMainMenu:
		return m.renderMenu(height)
	case domain.PhaseSprintPlanning:
		return m.renderPlanning(s, height)
	case domain.PhaseSprintActive:
		return m.renderSprint(s, height)
	case domain.PhasePuzzleSolving:
		return m.renderPuzzle(s)
	case domain.PhaseSprintReview:
		return m.renderReview(s)
	case domain.PhaseGameOver:
		return m.renderGameOver(s, height)
	default:
		return ""
	}
}

func (m Model) renderMenu(height int) string {
	g := m.config.Game
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Banner.Render(banner),
		m.styles.Subtitle.Render("Rotate the pipes. Ship the tickets. Keep the backlog in check."),
		"",
		m.styles.TicketMeta.Render(fmt.Sprintf("Sprints start at %s and shrink by %ds. The game ends when the backlog passes %d tickets.",
			statusbar.FormatClock(g.InitialSprintDurationSeconds), g.SprintTimeReductionPerSprint, g.MaxBacklogBeforeGameOver)),
		"",
		m.styles.MenuKey.Render("Press Enter to start a new game"),
	)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderPlanning(s session.State, height int) string {
	header := m.styles.ColumnHeaderActive.Render(fmt.Sprintf(
		"Sprint %d planning · %s on the clock · %d pts planned",
		s.SprintNumber, statusbar.FormatClock(s.SprintTotalTime), s.SprintPoints()))

	columns := planningColumns(s)
	body := board.Render(columns, m.nav.GetPosition(columns), "", m.styles, m.width, height-lipgloss.Height(header))
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (m Model) renderSprint(s session.State, height int) string {
	timer := m.styles.TimerStyle(s.SprintTimeRemaining, m.machine.TimerRunning()).
		Render(statusbar.FormatClock(s.SprintTimeRemaining))
	header := m.styles.ColumnHeaderActive.Render(fmt.Sprintf("Sprint %d · %d/%d pts done · ",
		s.SprintNumber, s.CompletedPoints(), s.SprintPoints())) + timer

	columns := sprintColumns(s)
	body := board.Render(columns, m.nav.GetPosition(columns), s.ActiveTicketID, m.styles, m.width, height-lipgloss.Height(header))
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (m Model) renderPuzzle(s session.State) string {
	t, ok := s.ActiveTicket()
	if !ok || !m.bench.Loaded() {
		return ""
	}

	solved := m.bench.Solved()
	gridView := m.renderer.Render(m.bench.Puzzle(), m.grid, true, solved)

	correct, total := m.bench.Progress()
	lines := []string{
		m.styles.TicketTitle.Bold(true).Render(t.Title),
		m.styles.TypeBadge(t.Type).Render(string(t.Type)) + " " +
			m.styles.PointsBadge.Render(fmt.Sprintf("%d pts", t.StoryPoints)),
		m.styles.TicketMeta.Render(t.Description),
		"",
		fmt.Sprintf("Sprint clock   %s", m.styles.TimerStyle(s.SprintTimeRemaining, m.machine.TimerRunning()).
			Render(statusbar.FormatClock(s.SprintTimeRemaining))),
		fmt.Sprintf("On this ticket %s", statusbar.FormatClock(t.TimeSpent+m.bench.Elapsed())),
		fmt.Sprintf("Tiles in place %d/%d", correct, total),
		fmt.Sprintf("Locked         %d", t.PuzzleDefinition.LockedCount()),
		"",
		m.renderer.Legend(),
	}
	if solved {
		lines = append(lines, "", m.styles.TileSolved.Bold(true).Render("✓ Flow restored!"))
	} else if !m.machine.TimerRunning() {
		lines = append(lines, "", m.styles.TimerOff.Render("Paused · press p to resume"))
	}

	info := lipgloss.NewStyle().PaddingLeft(3).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, gridView, info)
}

func (m Model) renderReview(s session.State) string {
	var b strings.Builder
	b.WriteString(m.styles.Banner.Render(fmt.Sprintf("Sprint %d review", s.SprintNumber)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Completed %d of %d tickets · %d/%d pts\n\n",
		s.CompletedTicketsThisSprint, len(s.CurrentSprintTickets), s.CompletedPoints(), s.SprintPoints()))

	for _, t := range s.CurrentSprintTickets {
		icon := m.styles.StatusIcon(t.Status).Render(t.Status.Icon())
		note := "back to backlog"
		if t.Status == domain.StatusCompleted {
			note = "shipped in " + statusbar.FormatClock(t.TimeSpent)
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", icon, t.Title, m.styles.TicketMeta.Render(note)))
	}

	b.WriteString("\n")
	if m.config.Game.ReviewDelaySeconds > 0 {
		b.WriteString(m.spinner.View() + " Planning the next sprint…  ")
	}
	b.WriteString(m.styles.MenuKey.Render("Enter to continue"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderGameOver(s session.State, height int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Banner.Foreground(styles.Red).Render("GAME OVER"),
		fmt.Sprintf("The backlog grew to %d tickets (limit %d).", len(s.Backlog), m.config.Game.MaxBacklogBeforeGameOver),
		fmt.Sprintf("You lasted %d sprints and shipped %d tickets.", s.SprintNumber, s.TotalTicketsCompleted),
		"",
		m.styles.MenuKey.Render("n: new game   m: main menu"),
	)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}
