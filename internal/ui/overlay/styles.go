package overlay

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/ui/styles"
)

// Styles holds the overlay-specific styles
type Styles struct {
	Overlay        lipgloss.Style
	Title          lipgloss.Style
	MenuItem       lipgloss.Style
	MenuItemActive lipgloss.Style
	MenuKey        lipgloss.Style
	MenuHeader     lipgloss.Style
	Separator      lipgloss.Style
	Footer         lipgloss.Style
}

// New derives overlay styles from the shared theme
func New() *Styles {
	s := styles.New()
	return &Styles{
		Overlay:        s.Overlay,
		Title:          s.OverlayTitle,
		MenuItem:       s.MenuItem,
		MenuItemActive: s.MenuItemActive,
		MenuKey:        s.MenuKey,
		MenuHeader: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true),
		Separator: s.Separator,
		Footer: lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			MarginTop(1),
	}
}

// Frame draws an overlay's view inside the overlay border with its title
func Frame(o Overlay, st *Styles) string {
	width, _ := o.Size()
	body := o.View()
	if title := o.Title(); title != "" {
		body = st.Title.Render(title) + "\n" + body
	}
	return st.Overlay.Width(width).Render(body)
}
