// Package tickets generates the puzzle tickets that fill the backlog
package tickets

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/riordanpawley/codeflow/internal/config"
	"github.com/riordanpawley/codeflow/internal/core/puzzle"
	"github.com/riordanpawley/codeflow/internal/domain"
)

// Names is the catalogue ticket titles are drawn from
var Names = []string{
	"User Auth System",
	"Payment Gateway Integration",
	"Search Algorithm",
	"UI Theme Engine",
	"Notification Service",
	"Data Analytics Pipeline",
	"API Versioning",
	"Caching Layer",
	"Login Page Crash",
	"Data Sync Error",
	"Security Flaw",
	"Performance Bottleneck",
	"Old Database Module",
	"Deprecated UI Library",
	"Monolithic Service",
	"Tech Debt Cleanup",
}

// Factory creates tickets according to the game tuning
type Factory struct {
	cfg    config.GameConfig
	gen    *puzzle.Generator
	rng    *rand.Rand
	newID  func() string
	logger *slog.Logger
	seed   *uint64
}

// Option configures a Factory
type Option func(*Factory)

// WithSeed makes ticket attributes and puzzles deterministic
func WithSeed(seed uint64) Option {
	return func(f *Factory) {
		f.seed = &seed
	}
}

// WithGenerator sets the puzzle generator
func WithGenerator(gen *puzzle.Generator) Option {
	return func(f *Factory) {
		f.gen = gen
	}
}

// WithIDFunc replaces the ticket id source
func WithIDFunc(fn func() string) Option {
	return func(f *Factory) {
		f.newID = fn
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates a Factory. Ids default to TICKET-<uuid>.
func NewFactory(cfg config.GameConfig, opts ...Option) *Factory {
	f := &Factory{
		cfg:    cfg,
		logger: slog.Default(),
		newID: func() string {
			return "TICKET-" + uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(f)
	}

	genOpts := []puzzle.Option{puzzle.WithLogger(f.logger)}
	if f.seed != nil {
		seed := *f.seed
		f.rng = rand.New(rand.NewPCG(seed, seed+1))
		genOpts = append(genOpts, puzzle.WithSeed(seed+2))
	} else {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if f.gen == nil {
		f.gen = puzzle.NewGenerator(genOpts...)
	}
	return f
}

// Config returns the tuning the factory was built with
func (f *Factory) Config() config.GameConfig {
	return f.cfg
}

// GenerateTicket creates one backlog ticket for the given sprint.
// The type and name are uniform picks; the puzzle size ceiling grows with the
// sprint number and the lock percentage comes from the type's range.
func (f *Factory) GenerateTicket(sprintNumber int) (domain.Ticket, error) {
	id := f.newID()
	ticketType := domain.TicketTypes[f.rng.IntN(len(domain.TicketTypes))]
	name := Names[f.rng.IntN(len(Names))]

	n := f.between(f.cfg.MinPuzzleSize, MaxSizeForSprint(f.cfg, sprintNumber))
	lockRange := f.cfg.LockedRange(ticketType)
	locked := f.between(lockRange.Min, lockRange.Max)

	p, err := f.gen.Generate(n, locked)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("generate ticket puzzle: %w", err)
	}

	t := domain.Ticket{
		ID:                 id,
		Title:              Title(ticketType, name, id),
		Type:               ticketType,
		Description:        ticketType.Description(),
		PuzzleDefinition:   p,
		CurrentPuzzleState: p.Clone(),
		Status:             domain.StatusBacklog,
		StoryPoints:        StoryPoints(f.cfg, n, locked),
		TimeSpent:          0,
		CreationSprint:     sprintNumber,
	}

	f.logger.Debug("generated ticket", "id", id, "type", ticketType, "size", n, "locked", locked, "points", t.StoryPoints)
	return t, nil
}

// InitialBacklog creates count tickets for the given sprint
func (f *Factory) InitialBacklog(count, sprintNumber int) ([]domain.Ticket, error) {
	backlog := make([]domain.Ticket, 0, max(count, 0))
	for range count {
		t, err := f.GenerateTicket(sprintNumber)
		if err != nil {
			return nil, err
		}
		backlog = append(backlog, t)
	}
	return backlog, nil
}

// GrowBacklog returns a new slice holding backlog followed by the tickets
// added for sprintNumber. The input slice is not modified.
func (f *Factory) GrowBacklog(backlog []domain.Ticket, sprintNumber int) ([]domain.Ticket, error) {
	count := NewTicketCount(f.cfg, sprintNumber)
	grown := make([]domain.Ticket, len(backlog), len(backlog)+count)
	copy(grown, backlog)

	for range count {
		t, err := f.GenerateTicket(sprintNumber)
		if err != nil {
			return nil, err
		}
		grown = append(grown, t)
	}
	return grown, nil
}

// between returns a uniform integer in [lo, hi]
func (f *Factory) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + f.rng.IntN(hi-lo+1)
}

// NewTicketCount is the number of tickets added to the backlog for a sprint
func NewTicketCount(cfg config.GameConfig, sprintNumber int) int {
	n := math.Floor(float64(cfg.NewTicketsPerSprintBase) + float64(sprintNumber-1)*cfg.NewTicketsSprintIncrement)
	return max(int(n), 0)
}

// StoryPoints weighs puzzle size and lock percentage into a ticket estimate
func StoryPoints(cfg config.GameConfig, n, lockedPercent int) int {
	return int(math.Round(float64(n)*cfg.StoryPointsSizeMultiplier + float64(lockedPercent)*cfg.StoryPointsLockedMultiplier))
}

// MaxSizeForSprint is the largest puzzle edge a ticket created in the given
// sprint may have
func MaxSizeForSprint(cfg config.GameConfig, sprintNumber int) int {
	return min(cfg.MaxPuzzleSizeInitial+sprintNumber/3, cfg.MaxPuzzleSizeCap)
}

// Title formats a ticket title, e.g. "Fix: Security Flaw (#a1b2)"
func Title(t domain.TicketType, name, id string) string {
	suffix := id
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return fmt.Sprintf("%s %s (#%s)", t.Prefix(), name, suffix)
}
