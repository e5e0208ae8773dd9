package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/ui/overlay"
)

// KeyMap holds every binding the game uses
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Top       key.Binding
	Bottom    key.Binding
	LineStart key.Binding
	LineEnd   key.Binding

	Select      key.Binding
	StartSprint key.Binding
	EndSprint   key.Binding
	ResetPuzzle key.Binding
	Rotate      key.Binding
	Back        key.Binding
	Pause       key.Binding

	NewGame key.Binding
	Menu    key.Binding
	Abandon key.Binding

	Help    key.Binding
	Quit    key.Binding
	Suspend key.Binding
	Redraw  key.Binding
}

// DefaultKeyMap returns the vim-flavoured default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
		Right:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
		Top:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first ticket")),
		Bottom:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last ticket")),
		LineStart: key.NewBinding(key.WithKeys("0", "home"), key.WithHelp("0", "row start")),
		LineEnd:   key.NewBinding(key.WithKeys("$", "end"), key.WithHelp("$", "row end")),

		Select:      key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter/space", "select")),
		StartSprint: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start sprint")),
		EndSprint:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end sprint early")),
		ResetPuzzle: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset ticket puzzle")),
		Rotate:      key.NewBinding(key.WithKeys("r", " ", "space", "enter"), key.WithHelp("r/space", "rotate tile")),
		Back:        key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "save & exit puzzle")),
		Pause:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume sprint")),

		NewGame: key.NewBinding(key.WithKeys("n", "enter"), key.WithHelp("n/enter", "new game")),
		Menu:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "main menu")),
		Abandon: key.NewBinding(key.WithKeys("Q"), key.WithHelp("Q", "abandon game")),

		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "save & quit")),
		Suspend: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "save & suspend")),
		Redraw:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "redraw")),
	}
}

// HelpSections lists the bindings that apply in a phase, for the help overlay
func (k KeyMap) HelpSections(phase domain.GamePhase) []overlay.HelpSection {
	var sections []overlay.HelpSection

	switch phase {
	case domain.PhaseMainMenu:
		sections = append(sections, overlay.HelpSection{Name: "Menu", Bindings: []key.Binding{k.NewGame}})
	case domain.PhaseSprintPlanning:
		sections = append(sections,
			overlay.HelpSection{Name: "Navigation", Bindings: []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom}},
			overlay.HelpSection{Name: "Planning", Bindings: []key.Binding{
				withHelp(k.Select, "move ticket in/out of sprint"), k.StartSprint, k.Abandon,
			}},
		)
	case domain.PhaseSprintActive:
		sections = append(sections,
			overlay.HelpSection{Name: "Navigation", Bindings: []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom}},
			overlay.HelpSection{Name: "Sprint", Bindings: []key.Binding{
				withHelp(k.Select, "work on ticket"), k.ResetPuzzle, k.EndSprint, k.Abandon,
			}},
		)
	case domain.PhasePuzzleSolving:
		sections = append(sections,
			overlay.HelpSection{Name: "Cursor", Bindings: []key.Binding{k.Up, k.Down, k.Left, k.Right, k.LineStart, k.LineEnd}},
			overlay.HelpSection{Name: "Puzzle", Bindings: []key.Binding{k.Rotate, k.Back, k.Pause, k.EndSprint}},
		)
	case domain.PhaseSprintReview:
		sections = append(sections, overlay.HelpSection{Name: "Review", Bindings: []key.Binding{
			withHelp(k.Select, "plan next sprint"),
		}})
	case domain.PhaseGameOver:
		sections = append(sections, overlay.HelpSection{Name: "Game over", Bindings: []key.Binding{k.NewGame, k.Menu}})
	}

	return append(sections, overlay.HelpSection{
		Name:     "General",
		Bindings: []key.Binding{k.Help, k.Quit, k.Suspend, k.Redraw},
	})
}

func withHelp(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}
