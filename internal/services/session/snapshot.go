package session

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/riordanpawley/codeflow/internal/domain"
)

// Snapshot is the persisted form of a State. The layout is versioned by
// the storage key, so any change here needs a new key.
type Snapshot struct {
	GamePhase                  domain.GamePhase `json:"gamePhase"`
	SprintNumber               int              `json:"sprintNumber"`
	Backlog                    []domain.Ticket  `json:"backlog"`
	CurrentSprintTickets       []domain.Ticket  `json:"currentSprintTickets"`
	ActiveTicketID             *string          `json:"activeTicketId"`
	SprintTotalTime            int              `json:"sprintTotalTime"`
	SprintTimeRemaining        int              `json:"sprintTimeRemaining"`
	IsSprintTimerRunning       bool             `json:"isSprintTimerRunning"`
	TotalTicketsCompleted      int              `json:"totalTicketsCompleted"`
	CompletedTicketsThisSprint int              `json:"completedTicketsThisSprint"`
	SavedAt                    int64            `json:"savedAt"` // unix milliseconds
}

// NewSnapshot captures s at the given time
func NewSnapshot(s State, savedAt time.Time) Snapshot {
	snap := Snapshot{
		GamePhase:                  s.GamePhase,
		SprintNumber:               s.SprintNumber,
		Backlog:                    nonNil(s.Backlog),
		CurrentSprintTickets:       nonNil(s.CurrentSprintTickets),
		SprintTotalTime:            s.SprintTotalTime,
		SprintTimeRemaining:        s.SprintTimeRemaining,
		IsSprintTimerRunning:       s.IsSprintTimerRunning,
		TotalTicketsCompleted:      s.TotalTicketsCompleted,
		CompletedTicketsThisSprint: s.CompletedTicketsThisSprint,
		SavedAt:                    savedAt.UnixMilli(),
	}
	if s.ActiveTicketID != "" {
		id := s.ActiveTicketID
		snap.ActiveTicketID = &id
	}
	return snap
}

// State converts the snapshot back into a State
func (s Snapshot) State() State {
	st := State{
		GamePhase:                  s.GamePhase,
		SprintNumber:               s.SprintNumber,
		Backlog:                    cloneTickets(nonNil(s.Backlog)),
		CurrentSprintTickets:       cloneTickets(nonNil(s.CurrentSprintTickets)),
		SprintTotalTime:            s.SprintTotalTime,
		SprintTimeRemaining:        s.SprintTimeRemaining,
		IsSprintTimerRunning:       s.IsSprintTimerRunning,
		TotalTicketsCompleted:      s.TotalTicketsCompleted,
		CompletedTicketsThisSprint: s.CompletedTicketsThisSprint,
	}
	if s.ActiveTicketID != nil {
		st.ActiveTicketID = *s.ActiveTicketID
	}
	return st
}

// Time returns when the snapshot was taken
func (s Snapshot) Time() time.Time {
	return time.UnixMilli(s.SavedAt)
}

// EncodeSnapshot serializes a snapshot as JSON
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses and checks a snapshot. Malformed or inconsistent
// data yields an error wrapping domain.ErrCorruptSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}
	if err := s.validate(); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}
	return s, nil
}

func (s Snapshot) validate() error {
	if !s.GamePhase.Valid() {
		return fmt.Errorf("unknown phase %q", s.GamePhase)
	}
	if s.SprintNumber < 0 {
		return fmt.Errorf("negative sprint number %d", s.SprintNumber)
	}
	if s.SprintTimeRemaining < 0 || s.SprintTotalTime < 0 {
		return fmt.Errorf("negative sprint time")
	}
	if s.TotalTicketsCompleted < 0 || s.CompletedTicketsThisSprint < 0 {
		return fmt.Errorf("negative completion counters")
	}

	seen := make(map[string]bool, len(s.Backlog)+len(s.CurrentSprintTickets))
	for _, list := range [][]domain.Ticket{s.Backlog, s.CurrentSprintTickets} {
		for _, t := range list {
			if t.ID == "" {
				return fmt.Errorf("ticket without id")
			}
			if seen[t.ID] {
				return fmt.Errorf("ticket %s appears twice", t.ID)
			}
			seen[t.ID] = true
			if err := checkPuzzle(t.PuzzleDefinition); err != nil {
				return fmt.Errorf("ticket %s definition: %w", t.ID, err)
			}
			if err := checkPuzzle(t.CurrentPuzzleState); err != nil {
				return fmt.Errorf("ticket %s working copy: %w", t.ID, err)
			}
		}
	}
	return nil
}

func checkPuzzle(p domain.Puzzle) error {
	if len(p.Grid) != p.N {
		return fmt.Errorf("grid has %d rows, want %d", len(p.Grid), p.N)
	}
	for r, row := range p.Grid {
		if len(row) != p.N {
			return fmt.Errorf("row %d has %d tiles, want %d", r, len(row), p.N)
		}
		for c, t := range row {
			if err := checkTile(t); err != nil {
				return fmt.Errorf("tile (%d,%d): %w", r, c, err)
			}
		}
	}
	return nil
}

func checkTile(t domain.Tile) error {
	switch t.Type {
	case domain.TileStraight, domain.TileCurve, domain.TileEnd:
	default:
		return fmt.Errorf("unknown tile type %q", t.Type)
	}
	if !slices.Contains(domain.Rotations, t.Rotation) {
		return fmt.Errorf("rotation %d", t.Rotation)
	}
	if !slices.Contains(domain.Rotations, t.Correct) {
		return fmt.Errorf("correct rotation %d", t.Correct)
	}
	switch t.Special {
	case domain.SpecialNone, domain.SpecialStart, domain.SpecialEnd:
	default:
		return fmt.Errorf("unknown special %q", t.Special)
	}
	if t.Locked && !t.Solved() {
		return fmt.Errorf("locked at %d, solved at %d", t.Rotation, t.Correct)
	}
	return nil
}

func nonNil(tickets []domain.Ticket) []domain.Ticket {
	if tickets == nil {
		return []domain.Ticket{}
	}
	return tickets
}
