package statusbar

import "github.com/riordanpawley/codeflow/internal/domain"

// GetHints returns the keybinding hints for the given phase
func GetHints(phase domain.GamePhase) string {
	switch phase {
	case domain.PhaseMainMenu:
		return "Enter: new game  ?: help  q: quit"
	case domain.PhaseSprintPlanning:
		return "h/l: columns  j/k: tickets  Space: move  s: start sprint  q: quit"
	case domain.PhaseSprintActive:
		return "j/k: tickets  Enter: work on  R: reset  e: end sprint  q: quit"
	case domain.PhasePuzzleSolving:
		return "hjkl: move  r/Space: rotate  Esc: save & exit  p: pause"
	case domain.PhaseSprintReview:
		return "Enter: plan next sprint"
	case domain.PhaseGameOver:
		return "n: new game  m: menu  q: quit"
	default:
		return ""
	}
}
