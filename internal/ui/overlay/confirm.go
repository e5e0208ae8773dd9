package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmDialog asks the player a yes/no question before a destructive action
type ConfirmDialog struct {
	action   string
	title    string
	message  string
	styles   *Styles
	selected bool // true = Yes, false = No
}

// ConfirmResult reports the answer to a ConfirmDialog
type ConfirmResult struct {
	Action    string
	Confirmed bool
}

// NewConfirmDialog creates a dialog for the named action. The default answer is No.
func NewConfirmDialog(action, title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		action:  action,
		title:   title,
		message: message,
		styles:  New(),
	}
}

// Init initializes the dialog
func (c *ConfirmDialog) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (c *ConfirmDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch key.String() {
	case "y", "Y":
		return c, c.answer(true)
	case "n", "N", "esc":
		return c, c.answer(false)
	case "enter":
		return c, c.answer(c.selected)
	case "left", "h":
		c.selected = false
	case "right", "l", "tab":
		c.selected = true
	}
	return c, nil
}

func (c *ConfirmDialog) answer(yes bool) tea.Cmd {
	key := "no"
	if yes {
		key = "yes"
	}
	result := ConfirmResult{Action: c.action, Confirmed: yes}
	return func() tea.Msg {
		return SelectionMsg{Key: key, Value: result}
	}
}

// View renders the dialog
func (c *ConfirmDialog) View() string {
	var b strings.Builder

	if c.message != "" {
		b.WriteString(c.styles.MenuItem.Render(c.message))
		b.WriteString("\n\n")
	}

	yesStyle, noStyle := c.styles.MenuItem, c.styles.MenuItemActive
	if c.selected {
		yesStyle, noStyle = c.styles.MenuItemActive, c.styles.MenuItem
	}
	b.WriteString(yesStyle.Render("[Y] Yes") + "    " + noStyle.Render("[N] No"))
	b.WriteString("\n")
	b.WriteString(c.styles.Footer.Render("← → / Tab: Switch • Enter: Confirm • Esc: Cancel"))

	return b.String()
}

// Title returns the dialog title
func (c *ConfirmDialog) Title() string {
	return c.title
}

// Action returns the action the dialog guards
func (c *ConfirmDialog) Action() string {
	return c.action
}

// Size returns the dialog dimensions
func (c *ConfirmDialog) Size() (width, height int) {
	return 60, len(strings.Split(c.message, "\n")) + 6
}
