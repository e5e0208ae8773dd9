package overlay

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func testSections() []HelpSection {
	disabled := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"))
	disabled.SetEnabled(false)

	return []HelpSection{
		{
			Name: "Puzzle",
			Bindings: []key.Binding{
				key.NewBinding(key.WithKeys("r", " "), key.WithHelp("r/space", "rotate tile")),
				disabled,
			},
		},
		{
			Name: "Game",
			Bindings: []key.Binding{
				key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "save and quit")),
			},
		},
	}
}

func TestHelpOverlay_View(t *testing.T) {
	help := NewHelpOverlay(testSections())

	if help.Title() != "Help" {
		t.Errorf("expected title 'Help', got '%s'", help.Title())
	}

	view := help.View()
	for _, want := range []string{"Puzzle:", "Game:", "rotate tile", "save and quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "hidden") {
		t.Error("disabled bindings should not be listed")
	}
}

func TestHelpOverlay_Close(t *testing.T) {
	for _, k := range []string{"esc", "q", "?"} {
		help := NewHelpOverlay(testSections())
		_, cmd := help.Update(keyMsg(k))
		if cmd == nil {
			t.Fatalf("%s: expected close command", k)
		}
		if _, ok := cmd().(CloseOverlayMsg); !ok {
			t.Errorf("%s: expected CloseOverlayMsg", k)
		}
	}
}

func TestHelpOverlay_Scroll(t *testing.T) {
	var bindings []key.Binding
	for i := range 40 {
		k := fmt.Sprintf("k%d", i)
		bindings = append(bindings, key.NewBinding(key.WithKeys(k), key.WithHelp(k, "binding")))
	}
	help := NewHelpOverlay([]HelpSection{{Name: "Many", Bindings: bindings}})
	help.View()

	if help.maxScroll == 0 {
		t.Fatal("expected content taller than the view")
	}

	help.Update(keyMsg("j"))
	if help.scroll != 1 {
		t.Errorf("expected scroll 1, got %d", help.scroll)
	}
	help.Update(keyMsg("G"))
	if help.scroll != help.maxScroll {
		t.Errorf("expected scroll at bottom, got %d", help.scroll)
	}
	help.Update(keyMsg("g"))
	if help.scroll != 0 {
		t.Errorf("expected scroll at top, got %d", help.scroll)
	}
	help.Update(keyMsg("k"))
	if help.scroll != 0 {
		t.Error("scroll should not go negative")
	}
}
