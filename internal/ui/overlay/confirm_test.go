package overlay

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func answer(t *testing.T, cmd tea.Cmd) ConfirmResult {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected command, got nil")
	}
	sel, ok := cmd().(SelectionMsg)
	if !ok {
		t.Fatal("expected SelectionMsg")
	}
	result, ok := sel.Value.(ConfirmResult)
	if !ok {
		t.Fatalf("expected ConfirmResult, got %T", sel.Value)
	}
	if (sel.Key == "yes") != result.Confirmed {
		t.Errorf("key %q disagrees with result %v", sel.Key, result.Confirmed)
	}
	return result
}

func TestNewConfirmDialog(t *testing.T) {
	dialog := NewConfirmDialog("reset", "Reset puzzle", "Discard your progress?")

	if dialog.Title() != "Reset puzzle" {
		t.Errorf("expected title %q, got %q", "Reset puzzle", dialog.Title())
	}
	if dialog.Action() != "reset" {
		t.Errorf("expected action %q, got %q", "reset", dialog.Action())
	}
	if dialog.selected {
		t.Error("expected default selection to be No")
	}
	if w, h := dialog.Size(); w != 60 || h < 6 {
		t.Errorf("unexpected size %dx%d", w, h)
	}
}

func TestConfirmDialog_Keys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want bool
	}{
		{"y confirms", []string{"y"}, true},
		{"Y confirms", []string{"Y"}, true},
		{"n cancels", []string{"n"}, false},
		{"esc cancels", []string{"esc"}, false},
		{"enter takes default No", []string{"enter"}, false},
		{"right then enter confirms", []string{"right", "enter"}, true},
		{"tab then enter confirms", []string{"tab", "enter"}, true},
		{"l then h then enter cancels", []string{"l", "h", "enter"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialog := NewConfirmDialog("new-game", "New game", "Start over?")

			var cmd tea.Cmd
			for _, k := range tt.keys {
				_, cmd = dialog.Update(keyMsg(k))
			}

			result := answer(t, cmd)
			if result.Confirmed != tt.want {
				t.Errorf("expected confirmed=%v, got %v", tt.want, result.Confirmed)
			}
			if result.Action != "new-game" {
				t.Errorf("expected action new-game, got %q", result.Action)
			}
		})
	}
}

func TestConfirmDialog_IgnoresOtherInput(t *testing.T) {
	dialog := NewConfirmDialog("x", "X", "")

	if _, cmd := dialog.Update(keyMsg("z")); cmd != nil {
		t.Error("unbound key should not answer")
	}
	if _, cmd := dialog.Update(tea.WindowSizeMsg{Width: 10}); cmd != nil {
		t.Error("non-key message should be ignored")
	}
}

func TestConfirmDialog_View(t *testing.T) {
	view := NewConfirmDialog("x", "Title", "Are you sure?").View()

	for _, want := range []string{"Are you sure?", "[Y] Yes", "[N] No"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
