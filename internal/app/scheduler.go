package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timerTickMsg is one second of a tickScheduler. gen tells ticks of a
// stopped (or restarted) stream apart from current ones.
type timerTickMsg struct {
	name string
	gen  int
}

// tickScheduler adapts the Elm-style tea.Tick loop to session.Scheduler.
// Start only records the callback; the model collects the first tick
// command through Cmd after each update, and every delivered tick
// schedules the next one while the stream is live.
type tickScheduler struct {
	name    string
	onTick  func()
	gen     int
	active  bool
	pending bool
}

func newTickScheduler(name string) *tickScheduler {
	return &tickScheduler{name: name}
}

func (s *tickScheduler) Start(onTick func()) {
	s.onTick = onTick
	s.gen++
	s.active = true
	s.pending = true
}

func (s *tickScheduler) Stop() {
	s.gen++
	s.active = false
	s.pending = false
}

// Cmd returns the first tick of a freshly started stream, once
func (s *tickScheduler) Cmd() tea.Cmd {
	if !s.pending || !s.active {
		return nil
	}
	s.pending = false
	return s.next()
}

// Handle delivers a tick and returns the command for the following one.
// Ticks from a stopped or restarted stream are dropped.
func (s *tickScheduler) Handle(msg timerTickMsg) tea.Cmd {
	if msg.name != s.name || msg.gen != s.gen || !s.active {
		return nil
	}
	s.onTick()
	if !s.active || s.gen != msg.gen {
		return nil
	}
	return s.next()
}

func (s *tickScheduler) next() tea.Cmd {
	name, gen := s.name, s.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{name: name, gen: gen}
	})
}
