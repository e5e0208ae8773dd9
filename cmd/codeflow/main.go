// Package main provides the entry point for codeflow.
//
// codeflow is a terminal game about shipping tickets before the backlog
// buries you: plan a sprint, then restore each ticket's broken pipe flow by
// rotating tiles before the sprint clock runs out.
//
// Usage:
//
//	codeflow [--config path] [--store file|sqlite|memory] [--seed n]
//	codeflow generate --size 6 --locked 30
//	codeflow status
//	codeflow reset
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/codeflow/internal/app"
	"github.com/riordanpawley/codeflow/internal/cli"
	"github.com/riordanpawley/codeflow/internal/config"
	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

// rootFlags are shared by every subcommand
type rootFlags struct {
	configPath string
	backend    string
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:           "codeflow",
		Short:         "Code Flow: a sprint-planning pipe puzzle",
		Long:          "Plan sprints from a growing backlog and ship tickets by rotating pipe tiles until the flow runs from start to end.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []app.Option
			if cmd.Flags().Changed("seed") {
				opts = append(opts, app.WithSeed(seed))
			}
			return runTUI(flags, opts...)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to config file (default: ./.codeflow.json, then the data directory)")
	cmd.PersistentFlags().StringVar(&flags.backend, "store", "", "storage backend: file, sqlite or memory")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible ticket generation")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newStatusCmd(&flags))
	cmd.AddCommand(newResetCmd(&flags))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var opts cli.GenerateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a generated puzzle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Seeded = cmd.Flags().Changed("seed")
			return cli.GenerateCommand(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Size, "size", "n", 5, "grid edge length")
	cmd.Flags().IntVar(&opts.LockedPercent, "locked", 20, "chance in percent that a tile is locked")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed")
	cmd.Flags().BoolVar(&opts.Solved, "solved", false, "print the solution")
	return cmd
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarise the saved game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(flags, func(deps *cli.Dependencies) error {
				return cli.StatusCommand(cmd.Context(), deps, cmd.OutOrStdout())
			})
		},
	}
}

func newResetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(flags, func(deps *cli.Dependencies) error {
				return cli.ResetCommand(cmd.Context(), deps, cmd.OutOrStdout())
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codeflow %s (commit: %s)\n", Version, Commit)
		},
	}
}

// loadConfig reads the config file and applies command line overrides
func loadConfig(flags rootFlags) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.LoadConfig(cwd, flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.backend != "" {
		cfg.Storage.Backend = flags.backend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger writes text logs to the configured file. The terminal belongs to
// the TUI, so nothing is logged to stderr.
func newLogger(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return logger, f, nil
}

func withDeps(flags *rootFlags, fn func(deps *cli.Dependencies) error) error {
	cfg, err := loadConfig(*flags)
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	deps, err := cli.NewDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	return fn(deps)
}

func runTUI(flags rootFlags, opts ...app.Option) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	deps, err := cli.NewDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	logger.Info("starting codeflow", "version", Version, "store", cfg.Storage.Backend)

	model := app.New(cfg, deps.Store, append(opts, app.WithLogger(logger))...)
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),   // Use alternate screen buffer
		tea.WithReportFocus(), // Pause puzzles while the terminal is in the background
	)

	final, err := program.Run()

	// Quit keys save on their way out; this covers signals and crashes
	if m, ok := final.(app.Model); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if saveErr := m.Machine().Suspend(ctx); saveErr != nil {
			logger.Error("failed to save session on exit", "error", saveErr)
		}
	}

	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
