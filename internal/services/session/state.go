// Package session implements the game session state machine: sprint
// planning, the sprint timer, puzzle work and persistence of the whole
// session as one snapshot.
package session

import "github.com/riordanpawley/codeflow/internal/domain"

// State is the full session. The machine never mutates a State it has
// handed out; every command builds a new one.
type State struct {
	GamePhase                  domain.GamePhase
	SprintNumber               int
	Backlog                    []domain.Ticket
	CurrentSprintTickets       []domain.Ticket
	ActiveTicketID             string // empty when no puzzle is open
	SprintTotalTime            int    // seconds
	SprintTimeRemaining        int    // seconds
	IsSprintTimerRunning       bool
	CompletedTicketsThisSprint int
	TotalTicketsCompleted      int
}

// Clone returns a deep copy, tickets and puzzles included
func (s State) Clone() State {
	s.Backlog = cloneTickets(s.Backlog)
	s.CurrentSprintTickets = cloneTickets(s.CurrentSprintTickets)
	return s
}

// ActiveTicket looks the active ticket up in the sprint, then the backlog
func (s State) ActiveTicket() (domain.Ticket, bool) {
	if s.ActiveTicketID == "" {
		return domain.Ticket{}, false
	}
	if i := domain.FindTicket(s.CurrentSprintTickets, s.ActiveTicketID); i >= 0 {
		return s.CurrentSprintTickets[i].Clone(), true
	}
	if i := domain.FindTicket(s.Backlog, s.ActiveTicketID); i >= 0 {
		return s.Backlog[i].Clone(), true
	}
	return domain.Ticket{}, false
}

// SprintPoints sums story points of the tickets planned for the sprint
func (s State) SprintPoints() int {
	total := 0
	for _, t := range s.CurrentSprintTickets {
		total += t.StoryPoints
	}
	return total
}

// CompletedPoints sums story points of completed sprint tickets
func (s State) CompletedPoints() int {
	total := 0
	for _, t := range s.CurrentSprintTickets {
		if t.Status == domain.StatusCompleted {
			total += t.StoryPoints
		}
	}
	return total
}

func cloneTickets(tickets []domain.Ticket) []domain.Ticket {
	if tickets == nil {
		return nil
	}
	out := make([]domain.Ticket, len(tickets))
	for i, t := range tickets {
		out[i] = t.Clone()
	}
	return out
}

// without returns a copy of tickets minus index i
func without(tickets []domain.Ticket, i int) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets)-1)
	out = append(out, tickets[:i]...)
	return append(out, tickets[i+1:]...)
}

// appended returns a copy of tickets with t added at the end
func appended(tickets []domain.Ticket, t domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets)+1)
	out = append(out, tickets...)
	return append(out, t)
}

// replaced returns a copy of tickets with index i set to t
func replaced(tickets []domain.Ticket, i int, t domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, len(tickets))
	copy(out, tickets)
	out[i] = t
	return out
}
