package navigation

import (
	"testing"

	"github.com/riordanpawley/codeflow/internal/domain"
)

func makeTestColumns() []Column {
	return []Column{
		{
			Title: "Backlog",
			Tickets: []domain.Ticket{
				{ID: "T-1", Title: "Ticket 1", Status: domain.StatusBacklog},
				{ID: "T-2", Title: "Ticket 2", Status: domain.StatusBacklog},
				{ID: "T-3", Title: "Ticket 3", Status: domain.StatusBacklog},
			},
		},
		{
			Title: "Sprint",
			Tickets: []domain.Ticket{
				{ID: "T-4", Title: "Ticket 4", Status: domain.StatusSprint},
			},
		},
	}
}

func TestNewService(t *testing.T) {
	svc := NewService()
	if svc == nil {
		t.Fatal("NewService returned nil")
	}
	if svc.GetCursor() == nil {
		t.Fatal("GetCursor returned nil")
	}
}

func TestService_GetPosition(t *testing.T) {
	svc := NewService()
	columns := makeTestColumns()

	// Initially, cursor has no ticket selected
	pos := svc.GetPosition(columns)
	if !pos.Valid {
		t.Error("Expected valid position with tickets available")
	}
	if pos.Column != 0 || pos.Ticket != 0 {
		t.Errorf("Expected (0,0), got (%d,%d)", pos.Column, pos.Ticket)
	}

	svc.SelectTicket("T-4", 1)
	pos = svc.GetPosition(columns)
	if pos.Column != 1 || pos.Ticket != 0 {
		t.Errorf("Expected (1,0), got (%d,%d)", pos.Column, pos.Ticket)
	}
}

func TestService_CurrentTicket(t *testing.T) {
	svc := NewService()
	columns := makeTestColumns()

	svc.SelectTicket("T-2", 0)
	ticket, ok := svc.CurrentTicket(columns)
	if !ok {
		t.Fatal("Expected a current ticket")
	}
	if ticket.ID != "T-2" {
		t.Errorf("Expected T-2, got %s", ticket.ID)
	}

	_, ok = svc.CurrentTicket([]Column{{Title: "Empty"}})
	if ok {
		t.Error("Expected no ticket in empty columns")
	}
}

func TestService_MoveVertical(t *testing.T) {
	svc := NewService()
	columns := makeTestColumns()

	svc.MoveDown(columns)
	if got := svc.GetCursor().TicketID; got != "T-2" {
		t.Errorf("Expected T-2 after MoveDown, got %s", got)
	}

	svc.MoveDown(columns)
	svc.MoveDown(columns)
	if got := svc.GetCursor().TicketID; got != "T-3" {
		t.Errorf("Expected cursor clamped at T-3, got %s", got)
	}

	svc.MoveUp(columns)
	if got := svc.GetCursor().TicketID; got != "T-2" {
		t.Errorf("Expected T-2 after MoveUp, got %s", got)
	}

	svc.GotoBottom(columns)
	if got := svc.GetCursor().TicketID; got != "T-3" {
		t.Errorf("Expected T-3 after GotoBottom, got %s", got)
	}

	svc.GotoTop(columns)
	if got := svc.GetCursor().TicketID; got != "T-1" {
		t.Errorf("Expected T-1 after GotoTop, got %s", got)
	}
}

func TestService_MoveHorizontal(t *testing.T) {
	svc := NewService()
	columns := makeTestColumns()

	svc.SelectTicket("T-3", 0)
	svc.MoveRight(columns)
	if got := svc.GetCursor().TicketID; got != "T-4" {
		t.Errorf("Expected row clamped to T-4, got %s", got)
	}

	svc.MoveRight(columns)
	if got := svc.GetCursor().TicketID; got != "T-4" {
		t.Errorf("Expected to stay on T-4 at the last column, got %s", got)
	}

	svc.MoveLeft(columns)
	if got := svc.GetCursor().TicketID; got != "T-1" {
		t.Errorf("Expected T-1, got %s", got)
	}

	columns[1].Tickets = nil
	svc.MoveRight(columns)
	if got := svc.GetCursor().TicketID; got != "" {
		t.Errorf("Expected empty selection in empty column, got %s", got)
	}
	if svc.GetPosition(columns).Valid {
		t.Error("Expected invalid position in empty column")
	}
}

func TestCursor_FollowsTicketBetweenColumns(t *testing.T) {
	svc := NewService()
	columns := makeTestColumns()
	svc.SelectTicket("T-2", 0)

	// T-2 moves into the sprint
	moved := columns[0].Tickets[1]
	columns[0].Tickets = append(columns[0].Tickets[:1:1], columns[0].Tickets[2])
	columns[1].Tickets = append(columns[1].Tickets, moved)

	pos := svc.GetPosition(columns)
	if pos.Column != 1 || pos.Ticket != 1 {
		t.Errorf("Expected cursor to follow ticket to (1,1), got (%d,%d)", pos.Column, pos.Ticket)
	}
}

func TestCursor_FallbackWhenTicketGone(t *testing.T) {
	svc := NewService()
	columns := makeTestColumns()
	svc.SelectTicket("T-gone", 1)

	pos := svc.GetPosition(columns)
	if !pos.Valid || pos.Column != 1 || pos.Ticket != 0 {
		t.Errorf("Expected fallback to (1,0), got %+v", pos)
	}

	svc.Reset()
	if svc.GetCursor().TicketID != "" {
		t.Error("Expected Reset to clear the selection")
	}
}

func TestGridCursor(t *testing.T) {
	g := NewGridCursor(4)

	g.Move(-1, -1)
	if !g.At(0, 0) {
		t.Errorf("Expected clamp at (0,0), got (%d,%d)", g.Row, g.Col)
	}

	g.Move(2, 10)
	if !g.At(2, 3) {
		t.Errorf("Expected (2,3), got (%d,%d)", g.Row, g.Col)
	}

	g.Home()
	if g.Col != 0 {
		t.Errorf("Expected col 0 after Home, got %d", g.Col)
	}
	g.End()
	if g.Col != 3 {
		t.Errorf("Expected col 3 after End, got %d", g.Col)
	}

	var empty GridCursor
	empty.Move(1, 1)
	if !empty.At(0, 0) {
		t.Error("Expected zero-size cursor to stay put")
	}
}
