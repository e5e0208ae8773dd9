package session

import "github.com/riordanpawley/codeflow/internal/domain"

// InFlight is unsaved puzzle work held by the puzzle screen
type InFlight struct {
	TicketID string
	Puzzle   domain.Puzzle
	Elapsed  int // seconds since the puzzle was loaded
}

// WorkSource exposes the puzzle screen's unsaved work so the machine can
// save it when the sprint ends or the host goes to background.
type WorkSource interface {
	InFlight() (InFlight, bool)
}
