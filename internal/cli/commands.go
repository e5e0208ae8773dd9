// Package cli implements the non-interactive codeflow subcommands
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/riordanpawley/codeflow/internal/config"
	"github.com/riordanpawley/codeflow/internal/core/puzzle"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/riordanpawley/codeflow/internal/services/session"
	"github.com/riordanpawley/codeflow/internal/services/storage"
	"github.com/riordanpawley/codeflow/internal/ui/grid"
	"github.com/riordanpawley/codeflow/internal/ui/statusbar"
)

// storeTimeout bounds a single store call from the command line
const storeTimeout = 5 * time.Second

// Dependencies holds all the services needed for CLI commands
type Dependencies struct {
	Config *config.Config
	Store  storage.Store
	Logger *slog.Logger
}

// NewDependencies opens the configured store
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}

	return &Dependencies{
		Config: cfg,
		Store:  store,
		Logger: logger,
	}, nil
}

// Close releases the store
func (d *Dependencies) Close() error {
	return d.Store.Close()
}

// GenerateOptions selects the puzzle GenerateCommand prints
type GenerateOptions struct {
	Size          int
	LockedPercent int
	Seed          uint64
	Seeded        bool // use Seed instead of a random source
	Solved        bool // print the solution instead of the scrambled grid
}

// GenerateCommand prints a freshly generated puzzle
func GenerateCommand(w io.Writer, opts GenerateOptions) error {
	var genOpts []puzzle.Option
	if opts.Seeded {
		genOpts = append(genOpts, puzzle.WithSeed(opts.Seed))
	}

	p, err := puzzle.NewGenerator(genOpts...).Generate(opts.Size, opts.LockedPercent)
	if err != nil {
		return err
	}
	if opts.Solved {
		p = puzzle.Solve(p)
	}

	correct, total := puzzle.Progress(p)
	fmt.Fprintf(w, "%d×%d puzzle · %d locked · %d/%d tiles in place\n\n", p.N, p.N, p.LockedCount(), correct, total)
	fmt.Fprintln(w, grid.Plain(p))
	return nil
}

// StatusCommand summarises the saved game
func StatusCommand(ctx context.Context, deps *Dependencies, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	key := deps.Config.Storage.Key
	data, err := deps.Store.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		fmt.Fprintln(w, "No saved game")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read saved game: %w", err)
	}

	snap, err := session.DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("saved game %q is unreadable: %w", key, err)
	}
	s := snap.State()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Phase:\t%s\n", s.GamePhase.Label())
	fmt.Fprintf(tw, "Sprint:\t%d\n", s.SprintNumber)
	if s.GamePhase.SprintRunning() {
		state := "running"
		if !s.IsSprintTimerRunning {
			state = "paused"
		}
		fmt.Fprintf(tw, "Time left:\t%s of %s (%s)\n",
			statusbar.FormatClock(s.SprintTimeRemaining), statusbar.FormatClock(s.SprintTotalTime), state)
	}
	fmt.Fprintf(tw, "Backlog:\t%d/%d\n", len(s.Backlog), deps.Config.Game.MaxBacklogBeforeGameOver)
	fmt.Fprintf(tw, "Completed:\t%d this sprint, %d total\n", s.CompletedTicketsThisSprint, s.TotalTicketsCompleted)
	fmt.Fprintf(tw, "Saved:\t%s\n", snap.Time().Format(time.DateTime))
	tw.Flush()

	if len(s.CurrentSprintTickets) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\nSprint tickets (%d):\n\n", len(s.CurrentSprintTickets))
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tPTS\tSTATUS\tTIME\tTITLE")
	for _, t := range s.CurrentSprintTickets {
		title := t.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			t.ID, t.Type, t.StoryPoints, t.Status, statusbar.FormatClock(t.TimeSpent), title)
	}
	return tw.Flush()
}

// ResetCommand deletes the saved game
func ResetCommand(ctx context.Context, deps *Dependencies, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	key := deps.Config.Storage.Key
	if err := deps.Store.Remove(ctx, key); err != nil {
		return fmt.Errorf("failed to delete saved game: %w", err)
	}

	deps.Logger.Info("saved game deleted", "key", key)
	fmt.Fprintf(w, "✓ Saved game %q deleted\n", key)
	return nil
}
