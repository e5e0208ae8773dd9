package config

import (
	"encoding/json"
	"fmt"
)

// CurrentVersion is the current config schema version
const CurrentVersion = 1

// Migration represents a config migration function
type Migration struct {
	FromVersion int
	ToVersion   int
	Migrate     func(data map[string]interface{}) (map[string]interface{}, error)
}

// legacyGameKeys are the game settings that version 0 files kept at the top level
var legacyGameKeys = []string{
	"initialSprintDurationSeconds",
	"sprintTimeReductionPerSprint",
	"minSprintDurationSeconds",
	"initialBacklogSize",
	"newTicketsPerSprintBase",
	"newTicketsSprintIncrement",
	"maxBacklogBeforeGameOver",
	"minPuzzleSize",
	"maxPuzzleSizeInitial",
	"maxPuzzleSizeCap",
	"lockedPercent",
	"storyPointsSizeMultiplier",
	"storyPointsLockedMultiplier",
	"reviewDelaySeconds",
}

// migrations is the list of migrations in order
var migrations = []Migration{
	// Migration 0 -> 1: flat game settings move under "game"
	{
		FromVersion: 0,
		ToVersion:   1,
		Migrate: func(data map[string]interface{}) (map[string]interface{}, error) {
			game, _ := data["game"].(map[string]interface{})
			if game == nil {
				game = make(map[string]interface{})
			}
			moved := false
			for _, key := range legacyGameKeys {
				if v, ok := data[key]; ok {
					if _, exists := game[key]; !exists {
						game[key] = v
					}
					delete(data, key)
					moved = true
				}
			}
			if moved || data["game"] != nil {
				data["game"] = game
			}
			data["version"] = 1
			return data, nil
		},
	},
}

// ParseVersionedConfig parses config data with version migration support.
// Fields absent from data keep their default values.
func ParseVersionedConfig(data []byte) (*Config, error) {
	// First, parse as raw JSON to get version
	var rawConfig map[string]interface{}
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Detect version (0 if not present = legacy config)
	version := 0
	if v, ok := rawConfig["version"].(float64); ok {
		version = int(v)
	}

	if version > CurrentVersion {
		return nil, fmt.Errorf("config version %d is newer than supported version %d", version, CurrentVersion)
	}

	if version < CurrentVersion {
		var err error
		rawConfig, err = ApplyMigrations(rawConfig, version)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate config: %w", err)
		}
	}

	// Re-marshal and decode on top of the defaults
	migratedData, err := json.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal migrated config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(migratedData, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse versioned config: %w", err)
	}

	return cfg, nil
}

// ApplyMigrations applies all migrations from the given version to CurrentVersion
func ApplyMigrations(data map[string]interface{}, fromVersion int) (map[string]interface{}, error) {
	for _, migration := range migrations {
		if migration.FromVersion == fromVersion {
			var err error
			data, err = migration.Migrate(data)
			if err != nil {
				return nil, fmt.Errorf("migration %d -> %d failed: %w",
					migration.FromVersion, migration.ToVersion, err)
			}
			fromVersion = migration.ToVersion
		}
	}

	if fromVersion < CurrentVersion {
		return nil, fmt.Errorf("no migration path from version %d to %d", fromVersion, CurrentVersion)
	}

	return data, nil
}

// MarshalVersionedConfig serializes a config with version information
func MarshalVersionedConfig(cfg *Config) ([]byte, error) {
	cfgData, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var cfgMap map[string]interface{}
	if err := json.Unmarshal(cfgData, &cfgMap); err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(cfgMap)+1)
	result["version"] = CurrentVersion
	for k, v := range cfgMap {
		result[k] = v
	}

	return json.MarshalIndent(result, "", "  ")
}
