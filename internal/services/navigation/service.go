// Package navigation provides cursor and navigation state management
package navigation

import (
	"github.com/riordanpawley/codeflow/internal/domain"
)

// Column is one titled list of tickets on screen
type Column struct {
	Title   string
	Tickets []domain.Ticket
}

// Position represents a computed position in the columns
type Position struct {
	Column int  // index into the columns
	Ticket int  // Index within the column
	Valid  bool // Whether the position is valid
}

// Cursor tracks the selected ticket by ID, so the selection follows a
// ticket when it moves between backlog and sprint
type Cursor struct {
	TicketID       string // Primary state: selected ticket ID
	FallbackColumn int    // Column to use when TicketID not found
}

// FindPosition computes the position of the cursor's ticket in the given columns
func (c *Cursor) FindPosition(columns []Column) Position {
	for colIdx, col := range columns {
		for ticketIdx, t := range col.Tickets {
			if c.TicketID != "" && t.ID == c.TicketID {
				return Position{Column: colIdx, Ticket: ticketIdx, Valid: true}
			}
		}
	}

	// Ticket not found (moved away or never set), use fallback
	col := c.FallbackColumn
	if col >= len(columns) || col < 0 {
		col = 0
	}
	if col < len(columns) && len(columns[col].Tickets) > 0 {
		return Position{Column: col, Ticket: 0, Valid: true}
	}
	return Position{Column: col, Ticket: 0, Valid: false}
}

// SetTicket updates the cursor to point to a specific ticket
func (c *Cursor) SetTicket(ticketID string, column int) {
	c.TicketID = ticketID
	c.FallbackColumn = column
}

// MoveVertical moves up or down within a column, returns new ticket ID
func (c *Cursor) MoveVertical(columns []Column, delta int) string {
	pos := c.FindPosition(columns)
	if !pos.Valid {
		return c.TicketID
	}

	tickets := columns[pos.Column].Tickets
	idx := clamp(pos.Ticket+delta, 0, len(tickets)-1)
	c.TicketID = tickets[idx].ID
	c.FallbackColumn = pos.Column
	return c.TicketID
}

// MoveHorizontal moves left or right to adjacent column, keeping the row
// where possible
func (c *Cursor) MoveHorizontal(columns []Column, delta int) string {
	if len(columns) == 0 {
		return c.TicketID
	}
	pos := c.FindPosition(columns)
	newCol := clamp(pos.Column+delta, 0, len(columns)-1)
	c.FallbackColumn = newCol

	tickets := columns[newCol].Tickets
	if len(tickets) == 0 {
		c.TicketID = "" // No ticket in new column
		return c.TicketID
	}
	c.TicketID = tickets[min(pos.Ticket, len(tickets)-1)].ID
	return c.TicketID
}

// JumpToStart moves to first ticket in current column
func (c *Cursor) JumpToStart(columns []Column) string {
	pos := c.FindPosition(columns)
	if pos.Valid {
		c.TicketID = columns[pos.Column].Tickets[0].ID
	}
	return c.TicketID
}

// JumpToEnd moves to last ticket in current column
func (c *Cursor) JumpToEnd(columns []Column) string {
	pos := c.FindPosition(columns)
	if pos.Valid {
		tickets := columns[pos.Column].Tickets
		c.TicketID = tickets[len(tickets)-1].ID
	}
	return c.TicketID
}

// Service manages navigation state
type Service struct {
	cursor Cursor
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		cursor: Cursor{},
	}
}

// GetCursor returns the current cursor (for read access)
func (s *Service) GetCursor() *Cursor {
	return &s.cursor
}

// GetPosition returns the computed position of the cursor in the given columns
func (s *Service) GetPosition(columns []Column) Position {
	return s.cursor.FindPosition(columns)
}

// CurrentTicket returns the selected ticket
func (s *Service) CurrentTicket(columns []Column) (domain.Ticket, bool) {
	pos := s.cursor.FindPosition(columns)
	if !pos.Valid {
		return domain.Ticket{}, false
	}
	return columns[pos.Column].Tickets[pos.Ticket], true
}

// MoveDown moves cursor down in current column
func (s *Service) MoveDown(columns []Column) {
	s.cursor.MoveVertical(columns, 1)
}

// MoveUp moves cursor up in current column
func (s *Service) MoveUp(columns []Column) {
	s.cursor.MoveVertical(columns, -1)
}

// MoveLeft moves cursor to left column
func (s *Service) MoveLeft(columns []Column) {
	s.cursor.MoveHorizontal(columns, -1)
}

// MoveRight moves cursor to right column
func (s *Service) MoveRight(columns []Column) {
	s.cursor.MoveHorizontal(columns, 1)
}

// GotoTop moves cursor to first ticket in column
func (s *Service) GotoTop(columns []Column) {
	s.cursor.JumpToStart(columns)
}

// GotoBottom moves cursor to last ticket in column
func (s *Service) GotoBottom(columns []Column) {
	s.cursor.JumpToEnd(columns)
}

// SelectTicket directly sets the cursor to a specific ticket
func (s *Service) SelectTicket(ticketID string, column int) {
	s.cursor.SetTicket(ticketID, column)
}

// Reset clears the selection
func (s *Service) Reset() {
	s.cursor = Cursor{}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
