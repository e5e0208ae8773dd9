package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/tailscale/hujson"
)

// ConfigFileName is the project-local config file name
const ConfigFileName = ".codeflow.json"

// DefaultStorageKey names the saved game. The version suffix changes whenever
// the snapshot layout does.
const DefaultStorageKey = "codeFlowGameState_v1.1"

// Config represents the full codeflow configuration
type Config struct {
	Game    GameConfig    `json:"game"`
	Storage StorageConfig `json:"storage"`
	Log     LogConfig     `json:"log"`
}

// Range is an inclusive integer range
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// LockedPercentConfig holds the lock percentage range per ticket type
type LockedPercentConfig struct {
	NewFeature    Range `json:"newFeature"`
	BugFix        Range `json:"bugFix"`
	LegacyRewrite Range `json:"legacyRewrite"`
}

// GameConfig contains the tuning constants of the game
type GameConfig struct {
	InitialSprintDurationSeconds int     `json:"initialSprintDurationSeconds"`
	SprintTimeReductionPerSprint int     `json:"sprintTimeReductionPerSprint"`
	MinSprintDurationSeconds     int     `json:"minSprintDurationSeconds"`
	InitialBacklogSize           int     `json:"initialBacklogSize"`
	NewTicketsPerSprintBase      int     `json:"newTicketsPerSprintBase"`
	NewTicketsSprintIncrement    float64 `json:"newTicketsSprintIncrement"`
	MaxBacklogBeforeGameOver     int     `json:"maxBacklogBeforeGameOver"`

	MinPuzzleSize        int                 `json:"minPuzzleSize"`
	MaxPuzzleSizeInitial int                 `json:"maxPuzzleSizeInitial"`
	MaxPuzzleSizeCap     int                 `json:"maxPuzzleSizeCap"`
	LockedPercent        LockedPercentConfig `json:"lockedPercent"`

	StoryPointsSizeMultiplier   float64 `json:"storyPointsSizeMultiplier"`
	StoryPointsLockedMultiplier float64 `json:"storyPointsLockedMultiplier"`

	ReviewDelaySeconds int `json:"reviewDelaySeconds"`
}

// StorageConfig selects where the saved game lives
type StorageConfig struct {
	Backend string `json:"backend"` // file, sqlite or memory
	Path    string `json:"path"`
	Key     string `json:"key"`
}

// LogConfig contains logging settings
type LogConfig struct {
	File  string `json:"file"`
	Level string `json:"level"`
}

// DefaultGameConfig returns the stock game tuning
func DefaultGameConfig() GameConfig {
	return GameConfig{
		InitialSprintDurationSeconds: 5 * 60,
		SprintTimeReductionPerSprint: 5,
		MinSprintDurationSeconds:     60,
		InitialBacklogSize:           8,
		NewTicketsPerSprintBase:      2,
		NewTicketsSprintIncrement:    0.5,
		MaxBacklogBeforeGameOver:     30,
		MinPuzzleSize:                3,
		MaxPuzzleSizeInitial:         6,
		MaxPuzzleSizeCap:             10,
		LockedPercent: LockedPercentConfig{
			NewFeature:    Range{Min: 0, Max: 15},
			BugFix:        Range{Min: 25, Max: 55},
			LegacyRewrite: Range{Min: 45, Max: 75},
		},
		StoryPointsSizeMultiplier:   1,
		StoryPointsLockedMultiplier: 0.05,
		ReviewDelaySeconds:          3,
	}
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	dataDir := DataDir()

	return &Config{
		Game: DefaultGameConfig(),
		Storage: StorageConfig{
			Backend: "file",
			Path:    filepath.Join(dataDir, "saves"),
			Key:     DefaultStorageKey,
		},
		Log: LogConfig{
			File:  filepath.Join(dataDir, "codeflow.log"),
			Level: "info",
		},
	}
}

// DataDir returns the per-user directory for saves and logs
func DataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".codeflow"
	}
	return filepath.Join(homeDir, ".codeflow")
}

// LockedRange returns the lock percentage range for a ticket type
func (g GameConfig) LockedRange(t domain.TicketType) Range {
	switch t {
	case domain.TicketNewFeature:
		return g.LockedPercent.NewFeature
	case domain.TicketBugFix:
		return g.LockedPercent.BugFix
	case domain.TicketLegacyRewrite:
		return g.LockedPercent.LegacyRewrite
	default:
		return Range{Min: 10, Max: 30}
	}
}

// SprintDuration returns the sprint length in seconds for the given sprint.
// Each sprint is shorter than the last, down to the configured minimum.
func (g GameConfig) SprintDuration(sprintNumber int) int {
	if sprintNumber < 1 {
		sprintNumber = 1
	}
	d := g.InitialSprintDurationSeconds - (sprintNumber-1)*g.SprintTimeReductionPerSprint
	return max(d, g.MinSprintDurationSeconds)
}

// Validate checks the game tuning for values the engine cannot honour
func (g GameConfig) Validate() error {
	if g.MinPuzzleSize < 3 {
		return fmt.Errorf("minPuzzleSize must be at least 3, got %d", g.MinPuzzleSize)
	}
	if g.MaxPuzzleSizeInitial < g.MinPuzzleSize {
		return fmt.Errorf("maxPuzzleSizeInitial %d is below minPuzzleSize %d", g.MaxPuzzleSizeInitial, g.MinPuzzleSize)
	}
	if g.MaxPuzzleSizeCap < g.MaxPuzzleSizeInitial {
		return fmt.Errorf("maxPuzzleSizeCap %d is below maxPuzzleSizeInitial %d", g.MaxPuzzleSizeCap, g.MaxPuzzleSizeInitial)
	}
	for _, t := range domain.TicketTypes {
		r := g.LockedRange(t)
		if r.Min < 0 || r.Max > 100 || r.Min > r.Max {
			return fmt.Errorf("locked percent range for %s must lie within 0..100 with min <= max, got %d..%d", t, r.Min, r.Max)
		}
	}
	if g.InitialSprintDurationSeconds <= 0 || g.MinSprintDurationSeconds <= 0 {
		return fmt.Errorf("sprint durations must be positive")
	}
	if g.SprintTimeReductionPerSprint < 0 {
		return fmt.Errorf("sprintTimeReductionPerSprint must not be negative")
	}
	if g.MaxBacklogBeforeGameOver <= 0 {
		return fmt.Errorf("maxBacklogBeforeGameOver must be positive, got %d", g.MaxBacklogBeforeGameOver)
	}
	if g.InitialBacklogSize < 0 || g.NewTicketsPerSprintBase < 0 || g.NewTicketsSprintIncrement < 0 {
		return fmt.Errorf("ticket counts must not be negative")
	}
	if g.ReviewDelaySeconds < 0 {
		return fmt.Errorf("reviewDelaySeconds must not be negative")
	}
	if g.StoryPointsSizeMultiplier < 0 || g.StoryPointsLockedMultiplier < 0 {
		return fmt.Errorf("story point multipliers must not be negative, got %g and %g",
			g.StoryPointsSizeMultiplier, g.StoryPointsLockedMultiplier)
	}
	return nil
}

// Validate checks the whole configuration
func (c *Config) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("storage: unknown backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage: key must not be empty")
	}
	return nil
}

// SlogLevel converts the configured level name to a slog.Level.
// Unknown names fall back to info.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadConfig loads configuration with priority:
// 1. explicitPath, when non-empty (must exist)
// 2. .codeflow.json in workDir
// 3. config.json in the per-user data directory
// 4. Defaults
//
// Files may contain comments and trailing commas.
func LoadConfig(workDir, explicitPath string) (*Config, error) {
	if explicitPath != "" {
		if !filepath.IsAbs(explicitPath) {
			explicitPath = filepath.Join(workDir, explicitPath)
		}
		data, err := os.ReadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", explicitPath, err)
		}
		return parseFile(explicitPath, data)
	}

	candidates := []string{
		filepath.Join(workDir, ConfigFileName),
		filepath.Join(DataDir(), "config.json"),
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return parseFile(path, data)
	}

	return DefaultConfig(), nil
}

func parseFile(path string, data []byte) (*Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: invalid JSONC: %w", path, err)
	}

	cfg, err := ParseVersionedConfig(standardized)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg = MergeWithDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig saves configuration to the specified path with version information
func SaveConfig(cfg *Config, path string) error {
	data, err := MarshalVersionedConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomic.WriteFile(path, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing string settings with defaults.
// Numeric game settings are merged at parse time, where an absent field keeps
// its default and an explicit zero is honoured.
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaults.Storage.Path
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = defaults.Storage.Key
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaults.Log.File
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return cfg
}

// Load is a convenience function that loads config from current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd, "")
}
