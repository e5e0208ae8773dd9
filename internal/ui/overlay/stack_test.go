package overlay

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// mockOverlay is a simple overlay implementation for testing
type mockOverlay struct {
	title   string
	width   int
	height  int
	value   string
	updates int
}

func (m mockOverlay) Init() tea.Cmd {
	return nil
}

func (m mockOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		m.updates++
		if msg.String() == "enter" {
			return m, func() tea.Msg {
				return SelectionMsg{Key: "test", Value: m.value}
			}
		}
	}
	return m, nil
}

func (m mockOverlay) View() string {
	return m.title
}

func (m mockOverlay) Title() string {
	return m.title
}

func (m mockOverlay) Size() (width, height int) {
	return m.width, m.height
}

var _ Overlay = mockOverlay{}

func TestNewStack(t *testing.T) {
	stack := NewStack()
	if !stack.IsEmpty() {
		t.Error("New stack should be empty")
	}
	if stack.Current() != nil {
		t.Error("Current should be nil on an empty stack")
	}
	if stack.Pop() != nil {
		t.Error("Pop should be nil on an empty stack")
	}
}

func TestStackPushPop(t *testing.T) {
	stack := NewStack()
	stack.Push(mockOverlay{title: "first"})
	stack.Push(mockOverlay{title: "second"})

	if stack.Len() != 2 {
		t.Fatalf("Expected 2 overlays, got %d", stack.Len())
	}
	if got := stack.Current().Title(); got != "second" {
		t.Errorf("Expected 'second' on top, got '%s'", got)
	}
	if got := stack.Pop().Title(); got != "second" {
		t.Errorf("Expected to pop 'second', got '%s'", got)
	}
	if got := stack.Current().Title(); got != "first" {
		t.Errorf("Expected 'first' on top, got '%s'", got)
	}

	stack.Clear()
	if !stack.IsEmpty() {
		t.Error("Stack should be empty after Clear")
	}
}

func TestStackUpdateStoresNewModel(t *testing.T) {
	stack := NewStack()
	stack.Push(mockOverlay{title: "test"})

	stack.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	stack.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	if got := stack.Current().(mockOverlay).updates; got != 2 {
		t.Errorf("Expected updated overlay to be stored, got %d updates", got)
	}
}

func TestStackUpdateReturnsSelection(t *testing.T) {
	stack := NewStack()
	stack.Push(mockOverlay{title: "test", value: "picked"})

	cmd := stack.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected a command from enter")
	}
	msg, ok := cmd().(SelectionMsg)
	if !ok || msg.Value != "picked" {
		t.Fatalf("Expected selection 'picked', got %#v", msg)
	}

	// Feeding the selection back closes the overlay
	stack.Update(msg)
	if !stack.IsEmpty() {
		t.Error("SelectionMsg should close the overlay")
	}
}

func TestStackUpdateClose(t *testing.T) {
	stack := NewStack()
	stack.Push(mockOverlay{title: "a"})
	stack.Push(mockOverlay{title: "b"})

	stack.Update(CloseOverlayMsg{})
	if stack.Len() != 1 || stack.Current().Title() != "a" {
		t.Error("CloseOverlayMsg should pop only the top overlay")
	}

	if cmd := NewStack().Update(CloseOverlayMsg{}); cmd != nil {
		t.Error("Updating an empty stack should do nothing")
	}
}

func TestFrame(t *testing.T) {
	out := Frame(mockOverlay{title: "Framed", width: 30, value: "x"}, New())
	if !strings.Contains(out, "Framed") {
		t.Errorf("Frame should contain the title, got %q", out)
	}
}
