package config

import (
	"encoding/json"
	"testing"
)

func TestParseVersionedConfig_LegacyConfig(t *testing.T) {
	// Legacy config keeps game settings at the top level
	legacyJSON := `{
		"initialBacklogSize": 5,
		"maxBacklogBeforeGameOver": 20,
		"storage": {"backend": "memory"}
	}`

	cfg, err := ParseVersionedConfig([]byte(legacyJSON))
	if err != nil {
		t.Fatalf("Failed to parse legacy config: %v", err)
	}

	if cfg.Game.InitialBacklogSize != 5 {
		t.Errorf("Expected InitialBacklogSize 5, got %d", cfg.Game.InitialBacklogSize)
	}
	if cfg.Game.MaxBacklogBeforeGameOver != 20 {
		t.Errorf("Expected MaxBacklogBeforeGameOver 20, got %d", cfg.Game.MaxBacklogBeforeGameOver)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Expected backend 'memory', got '%s'", cfg.Storage.Backend)
	}
	if cfg.Game.MinPuzzleSize != 3 {
		t.Errorf("Expected default MinPuzzleSize 3, got %d", cfg.Game.MinPuzzleSize)
	}
}

func TestParseVersionedConfig_Version1(t *testing.T) {
	v1JSON := `{
		"version": 1,
		"game": {"maxPuzzleSizeCap": 8},
		"log": {"level": "debug"}
	}`

	cfg, err := ParseVersionedConfig([]byte(v1JSON))
	if err != nil {
		t.Fatalf("Failed to parse v1 config: %v", err)
	}

	if cfg.Game.MaxPuzzleSizeCap != 8 {
		t.Errorf("Expected MaxPuzzleSizeCap 8, got %d", cfg.Game.MaxPuzzleSizeCap)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected level 'debug', got '%s'", cfg.Log.Level)
	}
}

func TestParseVersionedConfig_FutureVersion(t *testing.T) {
	futureJSON := `{
		"version": 999,
		"game": {}
	}`

	_, err := ParseVersionedConfig([]byte(futureJSON))
	if err == nil {
		t.Error("Expected error for future version, got nil")
	}
}

func TestApplyMigrations_V0ToV1(t *testing.T) {
	data := map[string]interface{}{
		"initialBacklogSize": float64(9),
		"game":               map[string]interface{}{"initialBacklogSize": float64(4)},
	}

	migrated, err := ApplyMigrations(data, 0)
	if err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	if v, ok := migrated["version"].(int); !ok || v != 1 {
		t.Errorf("Expected version 1, got %v", migrated["version"])
	}
	if _, ok := migrated["initialBacklogSize"]; ok {
		t.Error("Expected top-level initialBacklogSize to be moved")
	}
	game := migrated["game"].(map[string]interface{})
	if game["initialBacklogSize"] != float64(4) {
		t.Errorf("Expected nested value to win, got %v", game["initialBacklogSize"])
	}
}

func TestApplyMigrations_NoPath(t *testing.T) {
	if _, err := ApplyMigrations(map[string]interface{}{}, -3); err == nil {
		t.Error("Expected error for unknown starting version")
	}
}

func TestMarshalVersionedConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Game.InitialBacklogSize = 6

	data, err := MarshalVersionedConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal result: %v", err)
	}

	if v, ok := result["version"].(float64); !ok || int(v) != CurrentVersion {
		t.Errorf("Expected version %d, got %v", CurrentVersion, result["version"])
	}
	if _, ok := result["game"]; !ok {
		t.Error("Expected game section in output")
	}
}

func TestRoundTrip(t *testing.T) {
	original := DefaultConfig()
	original.Game.LockedPercent.LegacyRewrite = Range{Min: 50, Max: 90}
	original.Storage.Backend = "sqlite"

	data, err := MarshalVersionedConfig(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	parsed, err := ParseVersionedConfig(data)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if parsed.Game != original.Game {
		t.Errorf("Game config mismatch: got %+v, want %+v", parsed.Game, original.Game)
	}
	if parsed.Storage != original.Storage {
		t.Errorf("Storage config mismatch: got %+v, want %+v", parsed.Storage, original.Storage)
	}
}

func TestCurrentVersion(t *testing.T) {
	if CurrentVersion < 1 {
		t.Errorf("CurrentVersion should be at least 1, got %d", CurrentVersion)
	}
}
