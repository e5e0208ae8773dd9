// Package domain contains core game types for codeflow.
package domain

// GamePhase is the lifecycle phase of a play session
type GamePhase string

const (
	PhaseMainMenu       GamePhase = "MAIN_MENU"
	PhaseSprintPlanning GamePhase = "SPRINT_PLANNING"
	PhaseSprintActive   GamePhase = "SPRINT_ACTIVE" // Viewing the sprint board
	PhasePuzzleSolving  GamePhase = "PUZZLE_SOLVING"
	PhaseSprintReview   GamePhase = "SPRINT_REVIEW"
	PhaseGameOver       GamePhase = "GAME_OVER"
)

// String returns the raw phase name
func (p GamePhase) String() string {
	return string(p)
}

// Label returns a short display label for the phase
func (p GamePhase) Label() string {
	switch p {
	case PhaseMainMenu:
		return "MENU"
	case PhaseSprintPlanning:
		return "PLANNING"
	case PhaseSprintActive:
		return "SPRINT"
	case PhasePuzzleSolving:
		return "SOLVING"
	case PhaseSprintReview:
		return "REVIEW"
	case PhaseGameOver:
		return "GAME OVER"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether p is one of the known phases
func (p GamePhase) Valid() bool {
	switch p {
	case PhaseMainMenu, PhaseSprintPlanning, PhaseSprintActive,
		PhasePuzzleSolving, PhaseSprintReview, PhaseGameOver:
		return true
	}
	return false
}

// SprintRunning reports whether the phase belongs to a sprint in progress
func (p GamePhase) SprintRunning() bool {
	return p == PhaseSprintActive || p == PhasePuzzleSolving
}

// TicketType categorizes the kind of work a ticket represents
type TicketType string

const (
	TicketNewFeature    TicketType = "New Feature"
	TicketBugFix        TicketType = "Bug Fix"
	TicketLegacyRewrite TicketType = "Legacy Rewrite"
)

// TicketTypes lists every ticket type in catalogue order
var TicketTypes = []TicketType{TicketNewFeature, TicketBugFix, TicketLegacyRewrite}

// Prefix returns the title prefix used for tickets of this type
func (t TicketType) Prefix() string {
	switch t {
	case TicketNewFeature:
		return "Feat:"
	case TicketBugFix:
		return "Fix:"
	case TicketLegacyRewrite:
		return "Refactor:"
	default:
		return "Task:"
	}
}

// Description returns the canned description for tickets of this type
func (t TicketType) Description() string {
	switch t {
	case TicketNewFeature:
		return "Implement a brand new module or functionality."
	case TicketBugFix:
		return "Resolve an issue in existing code."
	case TicketLegacyRewrite:
		return "Modernize or improve an old part of the system."
	default:
		return ""
	}
}

// TicketStatus is where a ticket sits in its lifecycle
type TicketStatus string

const (
	StatusBacklog    TicketStatus = "backlog"
	StatusSprint     TicketStatus = "sprint"
	StatusInProgress TicketStatus = "in-progress"
	StatusPaused     TicketStatus = "paused"
	StatusCompleted  TicketStatus = "completed"
)

// Icon returns a unicode icon for the status
func (s TicketStatus) Icon() string {
	switch s {
	case StatusBacklog:
		return "○"
	case StatusSprint:
		return "◌"
	case StatusInProgress:
		return "●"
	case StatusPaused:
		return "⏸"
	case StatusCompleted:
		return "✓"
	default:
		return "?"
	}
}

// String returns the display string
func (s TicketStatus) String() string {
	return string(s)
}
