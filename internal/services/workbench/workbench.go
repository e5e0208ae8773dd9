// Package workbench holds the puzzle a player is working on: the working
// grid, a stopwatch for time spent, and the solved flag for the loaded ticket.
package workbench

import (
	"log/slog"

	"github.com/riordanpawley/codeflow/internal/core/puzzle"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/services/session"
)

// Bench is the controller behind the puzzle screen. It is not safe for
// concurrent use.
type Bench struct {
	ticketID string
	puzzle   domain.Puzzle
	elapsed  int
	solved   bool
	timer    *session.Countdown
	logger   *slog.Logger
}

// New creates an empty bench. sched delivers the stopwatch's one-second ticks.
func New(sched session.Scheduler, logger *slog.Logger) *Bench {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bench{
		timer:  session.NewCountdown(sched),
		logger: logger,
	}
}

// Load opens the ticket's working puzzle and starts the stopwatch from zero.
// Loading the ticket that is already loaded does nothing and returns false.
func (b *Bench) Load(t domain.Ticket) bool {
	if b.ticketID != "" && b.ticketID == t.ID {
		return false
	}

	b.ticketID = t.ID
	b.puzzle = t.CurrentPuzzleState.Clone()
	b.elapsed = 0
	b.solved = puzzle.IsSolved(b.puzzle)
	if b.solved {
		b.timer.Stop()
	} else {
		b.timer.Start(b.tick)
	}

	b.logger.Debug("puzzle loaded", "ticket", t.ID, "size", b.puzzle.N, "solved", b.solved)
	return true
}

// Unload closes the puzzle and stops the stopwatch
func (b *Bench) Unload() {
	b.timer.Stop()
	b.ticketID = ""
	b.puzzle = domain.Puzzle{}
	b.elapsed = 0
	b.solved = false
}

// Loaded reports whether a puzzle is open
func (b *Bench) Loaded() bool {
	return b.ticketID != ""
}

// TicketID returns the loaded ticket's id, or ""
func (b *Bench) TicketID() string {
	return b.ticketID
}

// Puzzle returns a copy of the working puzzle
func (b *Bench) Puzzle() domain.Puzzle {
	return b.puzzle.Clone()
}

// Rotate turns tile (r, c) a quarter turn. Locked tiles, bad coordinates
// and a solved puzzle reject the rotation. Solving the puzzle stops the
// stopwatch.
func (b *Bench) Rotate(r, c int) bool {
	if !b.Loaded() || b.solved {
		return false
	}

	next, ok := puzzle.RotatePuzzle(b.puzzle, r, c)
	if !ok {
		return false
	}
	b.puzzle = next

	if puzzle.IsSolved(b.puzzle) {
		b.solved = true
		b.timer.Stop()
		b.logger.Debug("puzzle solved", "ticket", b.ticketID, "elapsed", b.elapsed)
	}
	return true
}

// Solved reports whether the loaded puzzle is solved
func (b *Bench) Solved() bool {
	return b.Loaded() && b.solved
}

// SolvedFor reports whether the puzzle of ticket id is loaded and solved.
// A solved signal for any other ticket is stale.
func (b *Bench) SolvedFor(id string) bool {
	return b.Solved() && id == b.ticketID
}

// Elapsed returns seconds spent since the puzzle was loaded
func (b *Bench) Elapsed() int {
	return b.elapsed
}

// Running reports whether the stopwatch is counting
func (b *Bench) Running() bool {
	return b.timer.Running()
}

// Pause stops the stopwatch, e.g. when the screen loses focus
func (b *Bench) Pause() {
	b.timer.Stop()
}

// Resume restarts the stopwatch for an unsolved puzzle
func (b *Bench) Resume() {
	if !b.Loaded() || b.solved {
		return
	}
	b.timer.Start(b.tick)
}

// Progress returns how many tiles sit at their correct rotation
func (b *Bench) Progress() (correct, total int) {
	return puzzle.Progress(b.puzzle)
}

// InFlight exposes unsaved work for the session machine
func (b *Bench) InFlight() (session.InFlight, bool) {
	if !b.Loaded() {
		return session.InFlight{}, false
	}
	return session.InFlight{
		TicketID: b.ticketID,
		Puzzle:   b.puzzle.Clone(),
		Elapsed:  b.elapsed,
	}, true
}

func (b *Bench) tick() {
	if b.solved || !b.Loaded() {
		return
	}
	b.elapsed++
}
