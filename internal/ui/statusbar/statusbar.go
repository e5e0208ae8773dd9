package statusbar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/ui/styles"
)

// Info is the game state shown in the status bar
type Info struct {
	Phase        domain.GamePhase
	Sprint       int
	Remaining    int
	TimerRunning bool
	Backlog      int
	BacklogCap   int
	Completed    int
}

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	info   Info
	width  int
	styles *styles.Styles
}

// New creates a new StatusBar for the given game state, width, and styles
func New(info Info, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		info:   info,
		width:  width,
		styles: styles,
	}
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	modeBadge := sb.styles.PhaseMode(sb.info.Phase).Render(" " + sb.info.Phase.Label() + " ")
	separator := sb.styles.StatusHint.Render(" │ ")

	parts := []string{modeBadge}
	if sb.info.Sprint > 0 {
		parts = append(parts, separator, sb.gameInfo())
	}
	if hints := GetHints(sb.info.Phase); hints != "" {
		parts = append(parts, separator, sb.styles.StatusHint.Render(hints))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return sb.styles.StatusBar.Width(sb.width).Render(content)
}

func (sb StatusBar) gameInfo() string {
	i := sb.info
	timer := sb.styles.TimerStyle(i.Remaining, i.TimerRunning).Render(FormatClock(i.Remaining))
	if !i.TimerRunning && i.Phase.SprintRunning() {
		timer += sb.styles.TimerOff.Render(" paused")
	}

	text := fmt.Sprintf("Sprint %d  ", i.Sprint)
	backlog := fmt.Sprintf("  backlog %d/%d  done %d", i.Backlog, i.BacklogCap, i.Completed)
	return sb.styles.StatusInfo.Render(text) + timer + sb.styles.StatusInfo.Render(backlog)
}

// FormatClock renders seconds as m:ss
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
