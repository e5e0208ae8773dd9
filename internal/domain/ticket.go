package domain

// Ticket is one puzzle wrapped with game metadata
type Ticket struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Type        TicketType `json:"type"`
	Description string     `json:"description"`
	// PuzzleDefinition is the puzzle as generated; it is never modified.
	PuzzleDefinition Puzzle `json:"puzzleDefinition"`
	// CurrentPuzzleState is the player's working copy.
	CurrentPuzzleState Puzzle       `json:"currentPuzzleState"`
	Status             TicketStatus `json:"status"`
	StoryPoints        int          `json:"storyPoints"`
	TimeSpent          int          `json:"timeSpent"` // seconds, cumulative across pause/resume
	CreationSprint     int          `json:"creationSprint"`
}

// Clone returns a deep copy of the ticket, including both puzzles
func (t Ticket) Clone() Ticket {
	t.PuzzleDefinition = t.PuzzleDefinition.Clone()
	t.CurrentPuzzleState = t.CurrentPuzzleState.Clone()
	return t
}

// Size returns the edge length of the ticket's puzzle
func (t Ticket) Size() int {
	return t.PuzzleDefinition.N
}

// FindTicket returns the index of the ticket with the given id, or -1
func FindTicket(tickets []Ticket, id string) int {
	for i := range tickets {
		if tickets[i].ID == id {
			return i
		}
	}
	return -1
}
