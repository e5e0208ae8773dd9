package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/riordanpawley/codeflow/internal/config"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/services/storage"
	"github.com/riordanpawley/codeflow/internal/services/tickets"
)

// persistTimeout bounds the best-effort save that follows a command
const persistTimeout = 2 * time.Second

// Machine is the session state machine.
//
// Commands return true when they were applied. A command issued in the wrong
// phase, or whose guard fails, changes nothing and returns false. Machine is
// not safe for concurrent use: commands and timer ticks must arrive on one
// event loop.
type Machine struct {
	state   State
	cfg     config.GameConfig
	factory *tickets.Factory
	timer   *Countdown
	store   storage.Store
	key     string
	work    WorkSource
	logger  *slog.Logger
	now     func() time.Time

	// started is set once restore ran or a command changed state
	started bool
}

// Option configures a Machine
type Option func(*Machine)

// WithStore persists the session under key
func WithStore(store storage.Store, key string) Option {
	return func(m *Machine) {
		m.store = store
		if key != "" {
			m.key = key
		}
	}
}

// WithScheduler sets the source of sprint timer ticks
func WithScheduler(s Scheduler) Option {
	return func(m *Machine) {
		m.timer = NewCountdown(s)
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithClock sets the clock used to stamp snapshots
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// NewMachine creates a machine in MAIN_MENU. Game tuning comes from the
// factory's config.
func NewMachine(factory *tickets.Factory, opts ...Option) *Machine {
	m := &Machine{
		state:   State{GamePhase: domain.PhaseMainMenu},
		cfg:     factory.Config(),
		factory: factory,
		key:     config.DefaultStorageKey,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.timer == nil {
		m.timer = NewCountdown(NewManualScheduler())
	}
	return m
}

// AttachWork registers the puzzle screen's in-flight work. Pass nil to detach.
func (m *Machine) AttachWork(src WorkSource) {
	m.work = src
}

// State returns a deep copy of the current state
func (m *Machine) State() State {
	return m.state.Clone()
}

// Phase returns the current phase
func (m *Machine) Phase() domain.GamePhase {
	return m.state.GamePhase
}

// Config returns the game tuning in use
func (m *Machine) Config() config.GameConfig {
	return m.cfg
}

// ActiveTicket returns the ticket being worked on, if any
func (m *Machine) ActiveTicket() (domain.Ticket, bool) {
	return m.state.ActiveTicket()
}

// TimerRunning reports whether sprint ticks are being delivered
func (m *Machine) TimerRunning() bool {
	return m.timer.Running()
}

// StartGame begins a fresh game at sprint 1 in SPRINT_PLANNING.
// Any saved game is discarded.
func (m *Machine) StartGame() bool {
	return m.newGame(domain.PhaseSprintPlanning)
}

// ResetGame discards the current game and returns to MAIN_MENU with a fresh
// sprint-1 setup.
func (m *Machine) ResetGame() bool {
	return m.newGame(domain.PhaseMainMenu)
}

func (m *Machine) newGame(phase domain.GamePhase) bool {
	backlog, err := m.factory.InitialBacklog(m.cfg.InitialBacklogSize, 1)
	if err != nil {
		m.logger.Error("failed to generate backlog", "error", err)
		return false
	}

	duration := m.cfg.SprintDuration(1)
	m.clearSave()
	m.commit(State{
		GamePhase:            phase,
		SprintNumber:         1,
		Backlog:              backlog,
		CurrentSprintTickets: []domain.Ticket{},
		SprintTotalTime:      duration,
		SprintTimeRemaining:  duration,
	})
	m.persist()

	m.logger.Info("new game", "phase", phase, "backlog", len(backlog))
	return true
}

// AddTicketToSprint moves a backlog ticket into the sprint
func (m *Machine) AddTicketToSprint(id string) bool {
	s := m.state
	if s.GamePhase != domain.PhaseSprintPlanning {
		return m.reject("add ticket to sprint", "id", id)
	}
	i := domain.FindTicket(s.Backlog, id)
	if i < 0 {
		return m.reject("add ticket to sprint", "id", id, "reason", "not in backlog")
	}

	t := s.Backlog[i]
	t.Status = domain.StatusSprint
	s.Backlog = without(s.Backlog, i)
	s.CurrentSprintTickets = appended(s.CurrentSprintTickets, t)

	m.commit(s)
	m.persist()
	return true
}

// RemoveTicketFromSprint moves a sprint ticket back to the backlog
func (m *Machine) RemoveTicketFromSprint(id string) bool {
	s := m.state
	if s.GamePhase != domain.PhaseSprintPlanning {
		return m.reject("remove ticket from sprint", "id", id)
	}
	i := domain.FindTicket(s.CurrentSprintTickets, id)
	if i < 0 {
		return m.reject("remove ticket from sprint", "id", id, "reason", "not in sprint")
	}

	t := s.CurrentSprintTickets[i]
	t.Status = domain.StatusBacklog
	s.CurrentSprintTickets = without(s.CurrentSprintTickets, i)
	s.Backlog = appended(s.Backlog, t)

	m.commit(s)
	m.persist()
	return true
}

// StartSprint starts the sprint timer and moves to SPRINT_ACTIVE.
// An empty sprint is rejected.
func (m *Machine) StartSprint() bool {
	s := m.state
	if s.GamePhase != domain.PhaseSprintPlanning {
		return m.reject("start sprint")
	}
	if len(s.CurrentSprintTickets) == 0 {
		return m.reject("start sprint", "reason", "empty sprint")
	}

	planned := make([]domain.Ticket, len(s.CurrentSprintTickets))
	for i, t := range s.CurrentSprintTickets {
		t.Status = domain.StatusSprint
		planned[i] = t
	}
	s.CurrentSprintTickets = planned
	s.IsSprintTimerRunning = s.SprintTimeRemaining > 0
	s.GamePhase = domain.PhaseSprintActive

	m.commit(s)
	m.persist()
	m.logger.Info("sprint started", "sprint", s.SprintNumber, "tickets", len(planned), "seconds", s.SprintTimeRemaining)
	return true
}

// SelectTicketToWorkOn opens a sprint ticket's puzzle. Completed tickets
// are rejected.
func (m *Machine) SelectTicketToWorkOn(id string) bool {
	s := m.state
	if s.GamePhase != domain.PhaseSprintActive {
		return m.reject("select ticket", "id", id)
	}
	i := domain.FindTicket(s.CurrentSprintTickets, id)
	if i < 0 {
		return m.reject("select ticket", "id", id, "reason", "not in sprint")
	}
	t := s.CurrentSprintTickets[i]
	if t.Status == domain.StatusCompleted {
		return m.reject("select ticket", "id", id, "reason", "already completed")
	}

	t.Status = domain.StatusInProgress
	s.CurrentSprintTickets = replaced(s.CurrentSprintTickets, i, t)
	s.ActiveTicketID = id
	s.IsSprintTimerRunning = s.SprintTimeRemaining > 0
	s.GamePhase = domain.PhasePuzzleSolving

	m.commit(s)
	m.persist()
	return true
}

// SaveAndExitPuzzle stores the working puzzle of the active ticket, adds
// elapsed seconds to its time spent and returns to the sprint board.
func (m *Machine) SaveAndExitPuzzle(id string, p domain.Puzzle, elapsed int) bool {
	s := m.state
	i, ok := m.activeIndex(s, "save and exit", id)
	if !ok {
		return false
	}
	t := s.CurrentSprintTickets[i]
	if !sameShape(t.PuzzleDefinition, p) {
		return m.reject("save and exit", "id", id, "reason", "puzzle does not match ticket")
	}

	t.CurrentPuzzleState = p.Clone()
	t.Status = domain.StatusPaused
	t.TimeSpent += max(elapsed, 0)
	s.CurrentSprintTickets = replaced(s.CurrentSprintTickets, i, t)
	s = leavePuzzle(s)

	m.commit(s)
	m.persist()
	return true
}

// CompleteTicket marks the active ticket completed, adds elapsed seconds to
// its time spent and returns to the sprint board.
func (m *Machine) CompleteTicket(id string, elapsed int) bool {
	s := m.state
	i, ok := m.activeIndex(s, "complete ticket", id)
	if !ok {
		return false
	}

	t := s.CurrentSprintTickets[i]
	t.Status = domain.StatusCompleted
	t.TimeSpent += max(elapsed, 0)
	s.CurrentSprintTickets = replaced(s.CurrentSprintTickets, i, t)
	s.CompletedTicketsThisSprint++
	s.TotalTicketsCompleted++
	s = leavePuzzle(s)

	m.commit(s)
	m.persist()
	m.logger.Info("ticket completed", "id", id, "sprint", s.SprintNumber, "timeSpent", t.TimeSpent)
	return true
}

// EndSprintEarly stops the sprint and moves to SPRINT_REVIEW. Open puzzle
// work is saved first.
func (m *Machine) EndSprintEarly() bool {
	s := m.state
	if !s.GamePhase.SprintRunning() {
		return m.reject("end sprint early")
	}

	m.commit(m.endSprint(s))
	m.persist()
	return true
}

// Tick advances the sprint timer by one second. When time runs out the
// sprint ends exactly as EndSprintEarly would. Ticks that arrive while the
// timer is paused or outside a sprint are ignored.
func (m *Machine) Tick() bool {
	s := m.state
	if !s.IsSprintTimerRunning || !s.GamePhase.SprintRunning() {
		return false
	}

	s.SprintTimeRemaining--
	if s.SprintTimeRemaining > 0 {
		m.state = s
		return true
	}

	s.SprintTimeRemaining = 0
	m.logger.Info("sprint timer expired", "sprint", s.SprintNumber)
	m.commit(m.endSprint(s))
	m.persist()
	return true
}

// PlanSprint closes the sprint. Unfinished tickets go back to the backlog,
// new tickets arrive, and the game either ends (backlog over the cap) or
// moves to planning the next, shorter sprint.
func (m *Machine) PlanSprint() bool {
	s := m.state
	if s.GamePhase != domain.PhaseSprintReview && s.GamePhase != domain.PhaseSprintPlanning {
		return m.reject("plan sprint")
	}

	carried := make([]domain.Ticket, 0, len(s.Backlog)+len(s.CurrentSprintTickets))
	carried = append(carried, s.Backlog...)
	for _, t := range s.CurrentSprintTickets {
		if t.Status == domain.StatusCompleted {
			continue
		}
		t.Status = domain.StatusBacklog
		carried = append(carried, t)
	}

	nextSprint := s.SprintNumber + 1
	grown, err := m.factory.GrowBacklog(carried, nextSprint)
	if err != nil {
		m.logger.Error("failed to grow backlog", "sprint", nextSprint, "error", err)
		return false
	}

	s.Backlog = grown
	s.CurrentSprintTickets = []domain.Ticket{}
	s.ActiveTicketID = ""
	s.IsSprintTimerRunning = false

	if len(grown) > m.cfg.MaxBacklogBeforeGameOver {
		s.GamePhase = domain.PhaseGameOver
		m.commit(s)
		m.persist()
		m.logger.Info("game over", "sprint", s.SprintNumber, "backlog", len(grown), "completed", s.TotalTicketsCompleted)
		return true
	}

	duration := m.cfg.SprintDuration(nextSprint)
	s.SprintNumber = nextSprint
	s.CompletedTicketsThisSprint = 0
	s.SprintTotalTime = duration
	s.SprintTimeRemaining = duration
	s.GamePhase = domain.PhaseSprintPlanning

	m.commit(s)
	m.persist()
	return true
}

// PauseSprintTimer pauses the sprint timer while a puzzle is open
func (m *Machine) PauseSprintTimer() bool {
	s := m.state
	if s.GamePhase != domain.PhasePuzzleSolving || !s.IsSprintTimerRunning {
		return m.reject("pause sprint timer")
	}

	s.IsSprintTimerRunning = false
	m.commit(s)
	m.persist()
	return true
}

// ResumeSprintTimer resumes the sprint timer while a puzzle is open
func (m *Machine) ResumeSprintTimer() bool {
	s := m.state
	if s.GamePhase != domain.PhasePuzzleSolving || s.ActiveTicketID == "" {
		return m.reject("resume sprint timer")
	}
	if s.IsSprintTimerRunning || s.SprintTimeRemaining <= 0 {
		return m.reject("resume sprint timer", "remaining", s.SprintTimeRemaining)
	}

	s.IsSprintTimerRunning = true
	m.commit(s)
	m.persist()
	return true
}

// ResetTicketPuzzle restores a sprint ticket's working puzzle to the puzzle
// it was generated with. Time spent is kept.
func (m *Machine) ResetTicketPuzzle(id string) bool {
	s := m.state
	if s.GamePhase != domain.PhaseSprintActive {
		return m.reject("reset puzzle", "id", id)
	}
	i := domain.FindTicket(s.CurrentSprintTickets, id)
	if i < 0 {
		return m.reject("reset puzzle", "id", id, "reason", "not in sprint")
	}
	t := s.CurrentSprintTickets[i]
	if t.Status == domain.StatusCompleted {
		return m.reject("reset puzzle", "id", id, "reason", "already completed")
	}

	t.CurrentPuzzleState = t.PuzzleDefinition.Clone()
	s.CurrentSprintTickets = replaced(s.CurrentSprintTickets, i, t)

	m.commit(s)
	m.persist()
	return true
}

// Restore loads the saved session. It runs once, before any command; later
// calls do nothing. A missing save leaves the machine in MAIN_MENU. An
// unreadable or corrupt save does the same and the error is returned for
// the host to report.
func (m *Machine) Restore(ctx context.Context) error {
	if m.started {
		return nil
	}
	m.started = true
	if m.store == nil {
		return nil
	}

	data, err := m.store.Get(ctx, m.key)
	if errors.Is(err, domain.ErrNotFound) {
		m.logger.Debug("no saved session", "key", m.key)
		return nil
	}
	if err != nil {
		m.logger.Warn("failed to load saved session", "key", m.key, "error", err)
		return err
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		m.logger.Warn("discarding saved session", "key", m.key, "error", err)
		return err
	}

	s := reconcile(snap.State())
	m.commit(s)
	m.logger.Info("restored session",
		"phase", s.GamePhase,
		"sprint", s.SprintNumber,
		"savedAt", snap.Time(),
		"timerRunning", s.IsSprintTimerRunning)
	return nil
}

// Suspend is called when the host goes to background or exits. Open puzzle
// work is saved as SaveAndExitPuzzle would save it, then the session is
// written to the store.
func (m *Machine) Suspend(ctx context.Context) error {
	s := m.state
	if s.GamePhase == domain.PhasePuzzleSolving {
		if w, ok := m.inFlight(s.ActiveTicketID); ok {
			m.SaveAndExitPuzzle(w.TicketID, w.Puzzle, w.Elapsed)
		}
	}
	return m.save(ctx)
}

// Save writes the session to the store
func (m *Machine) Save(ctx context.Context) error {
	return m.save(ctx)
}

func (m *Machine) activeIndex(s State, cmd, id string) (int, bool) {
	if s.GamePhase != domain.PhasePuzzleSolving {
		return -1, m.reject(cmd, "id", id)
	}
	if id == "" || id != s.ActiveTicketID {
		return -1, m.reject(cmd, "id", id, "reason", "not the active ticket", "active", s.ActiveTicketID)
	}
	i := domain.FindTicket(s.CurrentSprintTickets, id)
	if i < 0 {
		return -1, m.reject(cmd, "id", id, "reason", "not in sprint")
	}
	return i, true
}

// endSprint moves s to SPRINT_REVIEW, pausing the active ticket and saving
// its in-flight work when the puzzle screen has any
func (m *Machine) endSprint(s State) State {
	if s.GamePhase == domain.PhasePuzzleSolving && s.ActiveTicketID != "" {
		if i := domain.FindTicket(s.CurrentSprintTickets, s.ActiveTicketID); i >= 0 {
			t := s.CurrentSprintTickets[i]
			if w, ok := m.inFlight(t.ID); ok && sameShape(t.PuzzleDefinition, w.Puzzle) {
				t.CurrentPuzzleState = w.Puzzle.Clone()
				t.TimeSpent += max(w.Elapsed, 0)
			}
			t.Status = domain.StatusPaused
			s.CurrentSprintTickets = replaced(s.CurrentSprintTickets, i, t)
		}
	}

	s.ActiveTicketID = ""
	s.IsSprintTimerRunning = false
	s.GamePhase = domain.PhaseSprintReview
	return s
}

func (m *Machine) inFlight(id string) (InFlight, bool) {
	if m.work == nil || id == "" {
		return InFlight{}, false
	}
	w, ok := m.work.InFlight()
	if !ok || w.TicketID != id {
		return InFlight{}, false
	}
	return w, true
}

// commit replaces the state and brings the timer in line with it
func (m *Machine) commit(next State) {
	prev := m.state.GamePhase
	m.state = next
	m.started = true

	if next.IsSprintTimerRunning {
		m.timer.Start(m.tick)
	} else {
		m.timer.Stop()
	}

	if prev != next.GamePhase {
		m.logger.Debug("phase transition", "from", prev, "to", next.GamePhase, "sprint", next.SprintNumber)
	}
}

func (m *Machine) tick() {
	m.Tick()
}

func (m *Machine) reject(cmd string, args ...any) bool {
	m.logger.Debug("command rejected", append([]any{"command", cmd, "phase", m.state.GamePhase}, args...)...)
	return false
}

// persist saves the session, logging and swallowing any failure
func (m *Machine) persist() {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	_ = m.save(ctx)
}

func (m *Machine) save(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	data, err := EncodeSnapshot(NewSnapshot(m.state, m.now()))
	if err != nil {
		m.logger.Warn("failed to encode session", "error", err)
		return err
	}
	if err := m.store.Set(ctx, m.key, data); err != nil {
		m.logger.Warn("failed to save session", "key", m.key, "error", err)
		return err
	}
	return nil
}

func (m *Machine) clearSave() {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.store.Remove(ctx, m.key); err != nil {
		m.logger.Warn("failed to clear saved session", "key", m.key, "error", err)
	}
}

// leavePuzzle closes the open puzzle and pauses the sprint timer
func leavePuzzle(s State) State {
	s.ActiveTicketID = ""
	s.IsSprintTimerRunning = false
	s.GamePhase = domain.PhaseSprintActive
	return s
}

// reconcile repairs a restored state so the machine's invariants hold
func reconcile(s State) State {
	if s.GamePhase == domain.PhasePuzzleSolving {
		i := domain.FindTicket(s.CurrentSprintTickets, s.ActiveTicketID)
		if i < 0 || s.CurrentSprintTickets[i].Status == domain.StatusCompleted {
			s.GamePhase = domain.PhaseSprintActive
			s.ActiveTicketID = ""
		}
	} else {
		s.ActiveTicketID = ""
	}

	s.IsSprintTimerRunning = s.IsSprintTimerRunning &&
		s.SprintTimeRemaining > 0 &&
		s.GamePhase.SprintRunning()
	return s
}

func sameShape(def, p domain.Puzzle) bool {
	return p.N == def.N && checkPuzzle(p) == nil
}
