package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/services/storage"
	"github.com/stretchr/testify/assert"
)

func TestViewLoadingBeforeSize(t *testing.T) {
	m := New(testConfig(), storage.NewMemoryStore(), WithSeed(1))
	assert.Equal(t, "Loading...", m.View())
}

func TestViewFitsTerminal(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, m Model) Model
	}{
		{"menu", func(t *testing.T, m Model) Model { return m }},
		{"planning", func(t *testing.T, m Model) Model { return press(t, m, "enter") }},
		{"planning with toast", func(t *testing.T, m Model) Model { return press(t, m, "enter", "s") }},
		{"sprint board", func(t *testing.T, m Model) Model { return sprinting(t, m, 2) }},
		{"puzzle", func(t *testing.T, m Model) Model { return press(t, sprinting(t, m, 1), "enter") }},
		{"help overlay", func(t *testing.T, m Model) Model { return press(t, m, "enter", "?") }},
		{"confirm dialog", func(t *testing.T, m Model) Model { return press(t, sprinting(t, m, 1), "e") }},
		{"review", func(t *testing.T, m Model) Model { return confirm(t, press(t, sprinting(t, m, 1), "e")) }},
	}

	sizes := []tea.WindowSizeMsg{
		{Width: 120, Height: 40},
		{Width: 80, Height: 24},
		{Width: 60, Height: 16},
	}

	for _, tt := range tests {
		for _, size := range sizes {
			t.Run(tt.name, func(t *testing.T) {
				m := tt.setup(t, newTestModel(t, storage.NewMemoryStore()))
				m, _ = send(t, m, size)

				view := m.View()
				assert.LessOrEqual(t, lipgloss.Height(view), size.Height, "%dx%d", size.Width, size.Height)
			})
		}
	}
}

func TestViewShowsTimerInStatusBar(t *testing.T) {
	m := sprinting(t, newTestModel(t, storage.NewMemoryStore()), 1)

	view := m.View()
	assert.Contains(t, view, "Sprint 1")
	assert.Contains(t, view, "0:05")
	assert.Contains(t, view, "3/30")
}

func TestViewPausedSprintBoard(t *testing.T) {
	m := sprinting(t, newTestModel(t, storage.NewMemoryStore()), 1)
	m = press(t, m, "enter", "esc")

	assert.Contains(t, m.View(), "paused")
}

func TestViewGameOver(t *testing.T) {
	cfg := testConfig()
	cfg.Game.MaxBacklogBeforeGameOver = 4
	m := New(cfg, storage.NewMemoryStore(), WithSeed(3))
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = confirm(t, press(t, sprinting(t, m, 1), "e"))
	m = press(t, m, "enter")

	view := m.View()
	assert.Contains(t, view, "GAME OVER")
	assert.Contains(t, view, "limit 4")
}
