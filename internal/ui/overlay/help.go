package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// HelpSection is a titled group of key bindings
type HelpSection struct {
	Name     string
	Bindings []key.Binding
}

// HelpOverlay displays the key reference
type HelpOverlay struct {
	styles     *Styles
	sections   []HelpSection
	scroll     int
	maxScroll  int
	viewHeight int
}

// NewHelpOverlay creates a help overlay listing the given sections.
// Disabled bindings are left out.
func NewHelpOverlay(sections []HelpSection) *HelpOverlay {
	return &HelpOverlay{
		styles:     New(),
		sections:   sections,
		viewHeight: 20,
	}
}

// Init initializes the overlay
func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch key.String() {
	case "esc", "q", "?":
		return h, func() tea.Msg { return CloseOverlayMsg{} }
	case "j", "down":
		if h.scroll < h.maxScroll {
			h.scroll++
		}
	case "k", "up":
		if h.scroll > 0 {
			h.scroll--
		}
	case "g":
		h.scroll = 0
	case "G":
		h.scroll = h.maxScroll
	}
	return h, nil
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	var content strings.Builder
	for i, section := range h.sections {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(h.styles.MenuHeader.Render(section.Name + ":"))
		content.WriteString("\n")

		for _, b := range section.Bindings {
			if !b.Enabled() {
				continue
			}
			hb := b.Help()
			content.WriteString("  " + h.styles.MenuKey.Render(hb.Key) + "  " + h.styles.MenuItem.Render(hb.Desc))
			content.WriteString("\n")
		}
	}

	lines := strings.Split(strings.TrimRight(content.String(), "\n"), "\n")
	h.maxScroll = max(0, len(lines)-h.viewHeight)
	h.scroll = min(h.scroll, h.maxScroll)

	end := min(h.scroll+h.viewHeight, len(lines))
	result := strings.Join(lines[h.scroll:end], "\n")

	if h.maxScroll > 0 {
		result += "\n" + h.styles.Footer.Render("[j/k to scroll, g/G to jump]")
	}
	return result
}

// Title returns the overlay title
func (h *HelpOverlay) Title() string {
	return "Help"
}

// Size returns the overlay dimensions
func (h *HelpOverlay) Size() (width, height int) {
	return 50, h.viewHeight + 4
}
