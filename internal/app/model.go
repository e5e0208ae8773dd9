// Package app contains the main application model and TEA implementation.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/codeflow/internal/config"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/services/navigation"
	"github.com/riordanpawley/codeflow/internal/services/session"
	"github.com/riordanpawley/codeflow/internal/services/storage"
	"github.com/riordanpawley/codeflow/internal/services/tickets"
	"github.com/riordanpawley/codeflow/internal/services/workbench"
	"github.com/riordanpawley/codeflow/internal/types"
	"github.com/riordanpawley/codeflow/internal/ui/grid"
	"github.com/riordanpawley/codeflow/internal/ui/overlay"
	"github.com/riordanpawley/codeflow/internal/ui/styles"
)

// Re-export Toast type and constants for convenience
type Toast = types.Toast
type ToastLevel = types.ToastLevel

const (
	ToastInfo    = types.ToastInfo
	ToastSuccess = types.ToastSuccess
	ToastWarning = types.ToastWarning
	ToastError   = types.ToastError
)

const (
	// saveTimeout bounds the save made on quit and suspend
	saveTimeout = 3 * time.Second
	// solvedPause is how long a solved grid stays on screen before the
	// ticket is completed
	solvedPause = 700 * time.Millisecond
	toastTTL    = 3 * time.Second
)

type ticketSolvedMsg struct{ id string }

type reviewDoneMsg struct{ gen int }

type expireToastsMsg struct{}

// Model is the main application state
type Model struct {
	// Game
	machine     *session.Machine
	bench       *workbench.Bench
	sprintTicks *tickScheduler
	puzzleTicks *tickScheduler
	lastPhase   domain.GamePhase

	// Navigation
	nav  *navigation.Service
	grid navigation.GridCursor

	// UI state
	keys         KeyMap
	overlayStack *overlay.Stack
	toasts       []Toast
	spinner      spinner.Model
	reviewGen    int
	blurPaused   bool

	// Terminal size
	width  int
	height int

	styles   *styles.Styles
	renderer *grid.Renderer
	config   *config.Config
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Model
type Option func(*options)

type options struct {
	seed   *uint64
	now    func() time.Time
	logger *slog.Logger
}

// WithSeed makes ticket generation reproducible
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithClock sets the clock used for toasts and save timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates the application model, restoring any saved game from store
func New(cfg *config.Config, store storage.Store, opts ...Option) Model {
	o := options{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Mauve)

	factoryOpts := []tickets.Option{tickets.WithLogger(logger)}
	if o.seed != nil {
		factoryOpts = append(factoryOpts, tickets.WithSeed(*o.seed))
	}
	factory := tickets.NewFactory(cfg.Game, factoryOpts...)

	sprintTicks := newTickScheduler("sprint")
	puzzleTicks := newTickScheduler("puzzle")

	machine := session.NewMachine(factory,
		session.WithStore(store, cfg.Storage.Key),
		session.WithScheduler(sprintTicks),
		session.WithLogger(logger),
		session.WithClock(o.now),
	)
	bench := workbench.New(puzzleTicks, logger)
	machine.AttachWork(bench)

	st := styles.New()
	m := Model{
		machine:      machine,
		bench:        bench,
		sprintTicks:  sprintTicks,
		puzzleTicks:  puzzleTicks,
		lastPhase:    domain.PhaseMainMenu,
		nav:          navigation.NewService(),
		keys:         DefaultKeyMap(),
		overlayStack: overlay.NewStack(),
		spinner:      s,
		styles:       st,
		renderer:     grid.New(st),
		config:       cfg,
		logger:       logger,
		now:          o.now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := machine.Restore(ctx); err != nil {
		msg := "Saved game could not be read; starting fresh"
		if errors.Is(err, domain.ErrCorruptSnapshot) {
			msg = "Saved game was corrupt; starting fresh"
		}
		m.addToast(ToastWarning, msg)
	} else if phase := machine.Phase(); phase != domain.PhaseMainMenu {
		m.addToast(ToastInfo, fmt.Sprintf("Resumed sprint %d", machine.State().SprintNumber))
	}
	m.lastPhase = machine.Phase()
	if m.lastPhase == domain.PhaseSprintReview {
		m.reviewGen++
	}
	m.syncBench()

	return m
}

// Machine exposes the session machine, e.g. for a final save by the caller
func (m Model) Machine() *session.Machine {
	return m.machine
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.sprintTicks.Cmd(), m.puzzleTicks.Cmd()}
	if len(m.toasts) > 0 {
		cmds = append(cmds, expireToastsAfter(toastTTL))
	}
	if m.machine.Phase() == domain.PhaseSprintReview {
		cmds = append(cmds, m.spinner.Tick, m.reviewCmd())
	}
	if m.bench.Solved() {
		cmds = append(cmds, solvedAfter(m.bench.TicketID(), solvedPause))
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.settle())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.suspend()
			return tea.Quit
		}
		// If overlay is open, route to overlay stack
		if !m.overlayStack.IsEmpty() {
			return m.overlayStack.Update(msg)
		}
		return m.handleKey(msg)

	case overlay.CloseOverlayMsg:
		m.overlayStack.Update(msg)
		return nil

	case overlay.SelectionMsg:
		m.overlayStack.Update(msg)
		return m.handleSelection(msg)

	case timerTickMsg:
		if msg.name == m.sprintTicks.name {
			return m.sprintTicks.Handle(msg)
		}
		return m.puzzleTicks.Handle(msg)

	case ticketSolvedMsg:
		return m.completeTicket(msg.id)

	case reviewDoneMsg:
		if msg.gen == m.reviewGen && m.machine.Phase() == domain.PhaseSprintReview {
			m.machine.PlanSprint()
		}
		return nil

	case spinner.TickMsg:
		if m.machine.Phase() != domain.PhaseSprintReview {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case expireToastsMsg:
		m.toasts = types.Live(m.toasts, m.now())
		return nil

	case tea.BlurMsg:
		return m.blur()

	case tea.FocusMsg:
		return m.focus()

	case tea.ResumeMsg:
		return m.addToast(ToastInfo, "Game saved while suspended")
	}

	return nil
}

// settle brings the puzzle bench, timers and screen state in line with the
// machine after every update
func (m *Model) settle() tea.Cmd {
	cmds := []tea.Cmd{m.syncBench()}

	if phase := m.machine.Phase(); phase != m.lastPhase {
		cmds = append(cmds, m.enterPhase(m.lastPhase, phase))
		m.lastPhase = phase
	}

	cmds = append(cmds, m.sprintTicks.Cmd(), m.puzzleTicks.Cmd())
	return tea.Batch(cmds...)
}

// syncBench loads the active ticket into the bench while a puzzle is open
// and empties it otherwise
func (m *Model) syncBench() tea.Cmd {
	active, ok := m.machine.ActiveTicket()
	if m.machine.Phase() != domain.PhasePuzzleSolving || !ok {
		if m.bench.Loaded() {
			m.bench.Unload()
		}
		return nil
	}

	if !m.bench.Load(active) {
		return nil
	}
	m.grid = navigation.NewGridCursor(active.Size())
	if !m.machine.TimerRunning() {
		m.bench.Pause()
	}
	if m.bench.Solved() {
		return solvedAfter(active.ID, solvedPause)
	}
	return nil
}

func (m *Model) enterPhase(from, to domain.GamePhase) tea.Cmd {
	m.overlayStack.Clear()
	m.nav.Reset()
	m.blurPaused = false
	s := m.machine.State()

	switch to {
	case domain.PhaseSprintReview:
		var cmds []tea.Cmd
		if from == domain.PhasePuzzleSolving || from == domain.PhaseSprintActive {
			level := ToastInfo
			if s.SprintTimeRemaining == 0 {
				level = ToastWarning
			}
			cmds = append(cmds, m.addToast(level, fmt.Sprintf("Sprint %d over: %d/%d tickets done",
				s.SprintNumber, s.CompletedTicketsThisSprint, len(s.CurrentSprintTickets))))
		}
		return tea.Batch(append(cmds, m.spinner.Tick, m.scheduleReview())...)

	case domain.PhaseGameOver:
		return m.addToast(ToastError, fmt.Sprintf("Backlog overflowed with %d tickets", len(s.Backlog)))

	case domain.PhaseSprintPlanning:
		if from == domain.PhaseSprintReview {
			return m.addToast(ToastInfo, fmt.Sprintf("Sprint %d: %d tickets waiting", s.SprintNumber, len(s.Backlog)))
		}
	}
	return nil
}

func (m *Model) scheduleReview() tea.Cmd {
	m.reviewGen++
	return m.reviewCmd()
}

// reviewCmd plans the next sprint after the configured delay. A zero delay
// waits for the player.
func (m Model) reviewCmd() tea.Cmd {
	delay := m.config.Game.ReviewDelaySeconds
	if delay <= 0 {
		return nil
	}
	gen := m.reviewGen
	return tea.Tick(time.Duration(delay)*time.Second, func(time.Time) tea.Msg {
		return reviewDoneMsg{gen: gen}
	})
}

// completeTicket closes a solved puzzle. A solved signal for a ticket that is
// no longer open is stale and ignored.
func (m *Model) completeTicket(id string) tea.Cmd {
	if !m.bench.SolvedFor(id) {
		return nil
	}
	t, ok := m.machine.ActiveTicket()
	if !ok || t.ID != id {
		return nil
	}
	if !m.machine.CompleteTicket(id, m.bench.Elapsed()) {
		return nil
	}
	return m.addToast(ToastSuccess, fmt.Sprintf("Shipped %s (+%d pts)", t.Title, t.StoryPoints))
}

func solvedAfter(id string, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ticketSolvedMsg{id: id}
	})
}

// blur pauses a running puzzle while the terminal is in the background and
// snapshots the session, since ticks alone are never written
func (m *Model) blur() tea.Cmd {
	if m.machine.Phase() == domain.PhasePuzzleSolving && m.machine.TimerRunning() {
		if m.machine.PauseSprintTimer() {
			m.bench.Pause()
			m.blurPaused = true
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.machine.Save(ctx); err != nil {
		m.logger.Error("failed to save session on blur", "error", err)
	}
	return nil
}

// focus resumes a puzzle that blur paused
func (m *Model) focus() tea.Cmd {
	if !m.blurPaused {
		return nil
	}
	m.blurPaused = false
	if m.machine.ResumeSprintTimer() {
		m.bench.Resume()
	}
	return nil
}

// suspend saves open work and the session before the program stops or is
// backgrounded
func (m *Model) suspend() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.machine.Suspend(ctx); err != nil {
		m.logger.Error("failed to save session", "error", err)
	}
}

// addToast adds a toast notification and schedules its expiry
func (m *Model) addToast(level ToastLevel, message string) tea.Cmd {
	m.toasts = append(m.toasts, types.NewToast(level, message, m.now(), toastTTL))
	return expireToastsAfter(toastTTL)
}

func expireToastsAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return expireToastsMsg{} })
}
