package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/services/navigation"
	"github.com/riordanpawley/codeflow/internal/services/session"
	"github.com/riordanpawley/codeflow/internal/ui/overlay"
)

// Confirm dialog actions
const (
	actionEndSprint   = "end-sprint"
	actionAbandon     = "abandon"
	actionResetPuzzle = "reset-puzzle:"
)

// handleKey processes keyboard input for the current phase
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.suspend()
		return tea.Quit
	case key.Matches(msg, m.keys.Suspend):
		m.suspend()
		return tea.Suspend
	case key.Matches(msg, m.keys.Redraw):
		return tea.ClearScreen
	case key.Matches(msg, m.keys.Help):
		return m.overlayStack.Push(overlay.NewHelpOverlay(m.keys.HelpSections(m.machine.Phase())))
	}

	switch m.machine.Phase() {
	case domain.PhaseMainMenu:
		return m.handleMenu(msg)
	case domain.PhaseSprintPlanning:
		return m.handlePlanning(msg)
	case domain.PhaseSprintActive:
		return m.handleSprint(msg)
	case domain.PhasePuzzleSolving:
		return m.handlePuzzle(msg)
	case domain.PhaseSprintReview:
		return m.handleReview(msg)
	case domain.PhaseGameOver:
		return m.handleGameOver(msg)
	default:
		return nil
	}
}

func (m *Model) handleMenu(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.NewGame) && !m.machine.StartGame() {
		return m.addToast(ToastError, "Could not generate a backlog")
	}
	return nil
}

// handleColumns moves the ticket cursor; it reports whether msg was a
// navigation key
func (m *Model) handleColumns(msg tea.KeyMsg, columns []navigation.Column) bool {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.nav.MoveDown(columns)
	case key.Matches(msg, m.keys.Up):
		m.nav.MoveUp(columns)
	case key.Matches(msg, m.keys.Left):
		m.nav.MoveLeft(columns)
	case key.Matches(msg, m.keys.Right):
		m.nav.MoveRight(columns)
	case key.Matches(msg, m.keys.Top):
		m.nav.GotoTop(columns)
	case key.Matches(msg, m.keys.Bottom):
		m.nav.GotoBottom(columns)
	default:
		return false
	}
	return true
}

func (m *Model) handlePlanning(msg tea.KeyMsg) tea.Cmd {
	columns := planningColumns(m.machine.State())
	if m.handleColumns(msg, columns) {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Select):
		t, ok := m.nav.CurrentTicket(columns)
		if !ok {
			return nil
		}
		if m.nav.GetPosition(columns).Column == 0 {
			m.machine.AddTicketToSprint(t.ID)
		} else {
			m.machine.RemoveTicketFromSprint(t.ID)
		}

	case key.Matches(msg, m.keys.StartSprint):
		if !m.machine.StartSprint() {
			return m.addToast(ToastWarning, "Add at least one ticket to the sprint first")
		}

	case key.Matches(msg, m.keys.Abandon):
		return m.confirmAbandon()
	}
	return nil
}

func (m *Model) handleSprint(msg tea.KeyMsg) tea.Cmd {
	columns := sprintColumns(m.machine.State())
	if m.handleColumns(msg, columns) {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Select):
		t, ok := m.nav.CurrentTicket(columns)
		if !ok {
			return nil
		}
		if !m.machine.SelectTicketToWorkOn(t.ID) {
			return m.addToast(ToastInfo, "That ticket is already done")
		}

	case key.Matches(msg, m.keys.ResetPuzzle):
		t, ok := m.nav.CurrentTicket(columns)
		if !ok || t.Status == domain.StatusCompleted {
			return nil
		}
		return m.overlayStack.Push(overlay.NewConfirmDialog(
			actionResetPuzzle+t.ID,
			"Reset puzzle",
			"Put every tile of\n"+t.Title+"\nback where it started?",
		))

	case key.Matches(msg, m.keys.EndSprint):
		return m.confirmEndSprint()

	case key.Matches(msg, m.keys.Abandon):
		return m.confirmAbandon()
	}
	return nil
}

func (m *Model) handlePuzzle(msg tea.KeyMsg) tea.Cmd {
	t, ok := m.machine.ActiveTicket()
	if !ok {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.grid.Move(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.grid.Move(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.grid.Move(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.grid.Move(0, 1)
	case key.Matches(msg, m.keys.LineStart):
		m.grid.Home()
	case key.Matches(msg, m.keys.LineEnd):
		m.grid.End()

	case key.Matches(msg, m.keys.Rotate):
		if m.bench.Rotate(m.grid.Row, m.grid.Col) && m.bench.SolvedFor(t.ID) {
			return solvedAfter(t.ID, solvedPause)
		}

	case key.Matches(msg, m.keys.Back):
		if m.bench.Solved() {
			// Completion is already on its way
			return nil
		}
		m.machine.SaveAndExitPuzzle(t.ID, m.bench.Puzzle(), m.bench.Elapsed())

	case key.Matches(msg, m.keys.Pause):
		if m.machine.TimerRunning() {
			if m.machine.PauseSprintTimer() {
				m.bench.Pause()
			}
		} else if m.machine.ResumeSprintTimer() {
			m.bench.Resume()
		}

	case key.Matches(msg, m.keys.EndSprint):
		return m.confirmEndSprint()
	}
	return nil
}

func (m *Model) handleReview(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Select) {
		m.machine.PlanSprint()
	}
	return nil
}

func (m *Model) handleGameOver(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.NewGame):
		m.machine.StartGame()
	case key.Matches(msg, m.keys.Menu):
		m.machine.ResetGame()
	}
	return nil
}

func (m *Model) confirmEndSprint() tea.Cmd {
	s := m.machine.State()
	left := len(s.CurrentSprintTickets) - s.CompletedTicketsThisSprint
	return m.overlayStack.Push(overlay.NewConfirmDialog(
		actionEndSprint,
		"End sprint early",
		pluralTickets(left)+" still open will go back to the backlog.",
	))
}

func (m *Model) confirmAbandon() tea.Cmd {
	return m.overlayStack.Push(overlay.NewConfirmDialog(
		actionAbandon,
		"Abandon game",
		"Your progress will be lost.",
	))
}

// handleSelection acts on a confirm dialog answer
func (m *Model) handleSelection(msg overlay.SelectionMsg) tea.Cmd {
	result, ok := msg.Value.(overlay.ConfirmResult)
	if !ok || !result.Confirmed {
		return nil
	}

	switch {
	case result.Action == actionEndSprint:
		m.machine.EndSprintEarly()
	case result.Action == actionAbandon:
		m.machine.ResetGame()
	case strings.HasPrefix(result.Action, actionResetPuzzle):
		id := strings.TrimPrefix(result.Action, actionResetPuzzle)
		if m.machine.ResetTicketPuzzle(id) {
			return m.addToast(ToastInfo, "Puzzle reset")
		}
	}
	return nil
}

// planningColumns lays out the backlog and the sprint being planned
func planningColumns(s session.State) []navigation.Column {
	return []navigation.Column{
		{Title: "Backlog", Tickets: s.Backlog},
		{Title: "Sprint", Tickets: s.CurrentSprintTickets},
	}
}

// sprintColumns splits the running sprint into open and done tickets
func sprintColumns(s session.State) []navigation.Column {
	var open, done []domain.Ticket
	for _, t := range s.CurrentSprintTickets {
		if t.Status == domain.StatusCompleted {
			done = append(done, t)
		} else {
			open = append(open, t)
		}
	}
	return []navigation.Column{
		{Title: "To Do", Tickets: open},
		{Title: "Done", Tickets: done},
	}
}

func pluralTickets(n int) string {
	if n == 1 {
		return "1 ticket"
	}
	return strconv.Itoa(n) + " tickets"
}
