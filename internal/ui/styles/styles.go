package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// Title screen
	Banner   lipgloss.Style
	Subtitle lipgloss.Style

	// Planning and sprint board
	Column             lipgloss.Style
	ColumnActive       lipgloss.Style
	ColumnHeader       lipgloss.Style
	ColumnHeaderActive lipgloss.Style

	// Tickets
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	TicketTitle   lipgloss.Style
	TicketMeta    lipgloss.Style
	TypeBadge     func(t domain.TicketType) lipgloss.Style
	PointsBadge   lipgloss.Style
	StatusIcon    func(s domain.TicketStatus) lipgloss.Style
	CompletedCard lipgloss.Style

	// Puzzle grid
	Tile       lipgloss.Style
	TileLocked lipgloss.Style
	TileSolved lipgloss.Style
	TileCursor lipgloss.Style
	TileStart  lipgloss.Style
	TileEnd    lipgloss.Style
	GridFrame  lipgloss.Style
	GridSolved lipgloss.Style

	// Sprint timer
	Timer    lipgloss.Style
	TimerLow lipgloss.Style
	TimerOff lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusHint lipgloss.Style
	StatusInfo lipgloss.Style

	// Overlays
	Overlay        lipgloss.Style
	OverlayTitle   lipgloss.Style
	MenuItem       lipgloss.Style
	MenuItemActive lipgloss.Style
	MenuKey        lipgloss.Style
	Separator      lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Padding(0, 1)

	return &Styles{
		Banner: lipgloss.NewStyle().
			Foreground(Mauve).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(Subtext0).
			Italic(true),

		Column: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1),

		ColumnActive: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Lavender).
			Padding(0, 1),

		ColumnHeader: lipgloss.NewStyle().
			Foreground(Subtext0).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1),

		ColumnHeaderActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1),

		Card: card,

		CardSelected: card.BorderForeground(Mauve),

		CompletedCard: card.BorderForeground(Green).Foreground(Overlay1),

		TicketTitle: lipgloss.NewStyle().
			Foreground(Text),

		TicketMeta: lipgloss.NewStyle().
			Foreground(Overlay1),

		TypeBadge: func(t domain.TicketType) lipgloss.Style {
			color, ok := TicketTypeColors[t]
			if !ok {
				color = Overlay0
			}
			return lipgloss.NewStyle().
				Foreground(Base).
				Background(color).
				Padding(0, 1).
				Bold(true)
		},

		PointsBadge: lipgloss.NewStyle().
			Foreground(Subtext0).
			Background(Surface1).
			Padding(0, 1),

		StatusIcon: func(s domain.TicketStatus) lipgloss.Style {
			color, ok := StatusColors[s]
			if !ok {
				color = Overlay0
			}
			return lipgloss.NewStyle().Foreground(color)
		},

		Tile: lipgloss.NewStyle().
			Foreground(Text),

		TileLocked: lipgloss.NewStyle().
			Foreground(Overlay0),

		TileSolved: lipgloss.NewStyle().
			Foreground(Teal),

		TileCursor: lipgloss.NewStyle().
			Background(Surface2).
			Foreground(Yellow).
			Bold(true),

		TileStart: lipgloss.NewStyle().
			Foreground(Green).
			Bold(true),

		TileEnd: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),

		GridFrame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Padding(0, 1),

		GridSolved: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Padding(0, 1),

		Timer: lipgloss.NewStyle().
			Foreground(Green).
			Bold(true),

		TimerLow: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),

		TimerOff: lipgloss.NewStyle().
			Foreground(Overlay0),

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Background(Base).
			Padding(1, 2),

		OverlayTitle: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			MarginBottom(1),

		MenuItem: lipgloss.NewStyle().
			Foreground(Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		MenuKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),
	}
}

// PhaseMode returns the status bar badge style for a game phase
func (s *Styles) PhaseMode(p domain.GamePhase) lipgloss.Style {
	switch p {
	case domain.PhaseSprintPlanning:
		return s.StatusMode.Background(Sapphire)
	case domain.PhaseSprintActive:
		return s.StatusMode.Background(Blue)
	case domain.PhasePuzzleSolving:
		return s.StatusMode.Background(Yellow)
	case domain.PhaseSprintReview:
		return s.StatusMode.Background(Mauve)
	case domain.PhaseGameOver:
		return s.StatusMode.Background(Red)
	default:
		return s.StatusMode
	}
}

// TimerStyle picks the timer style for the remaining seconds
func (s *Styles) TimerStyle(remaining int, running bool) lipgloss.Style {
	switch {
	case !running:
		return s.TimerOff
	case remaining <= 30:
		return s.TimerLow
	default:
		return s.Timer
	}
}
