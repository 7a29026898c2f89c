package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.DataTypePriority) != 3 || cfg.DataTypePriority[0][0] != "Foundation" {
		t.Errorf("unexpected default tier priority: %v", cfg.DataTypePriority)
	}
	if cfg.SimilarityFloor != 0.4 || cfg.Workers != 4 {
		t.Errorf("unexpected defaults: floor=%v workers=%d", cfg.SimilarityFloor, cfg.Workers)
	}
}

func TestLoadYAMLOverridesAndFills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	yaml := `
excluded_categories: ["BEVERAGES"]
rollover_dinner: true
data_type_priority:
  - ["Branded"]
  - ["Foundation", "SR Legacy"]
similarity_floor: 0.55
request_timeout: 10s
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.RolloverDinner {
		t.Error("rollover_dinner not applied")
	}
	if cfg.DataTypePriority[0][0] != "Branded" {
		t.Errorf("tier priority override not applied: %v", cfg.DataTypePriority)
	}
	if cfg.SimilarityFloor != 0.55 {
		t.Errorf("similarity floor override not applied: %v", cfg.SimilarityFloor)
	}
	if cfg.RequestTimeout.Std() != 10*time.Second {
		t.Errorf("request timeout not parsed: %v", cfg.RequestTimeout)
	}
	// Unset keys fall back to defaults.
	if cfg.Workers != 4 {
		t.Errorf("workers default not filled: %d", cfg.Workers)
	}
}

func TestLoadRejectsBadFloor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("similarity_floor: 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for floor > 1")
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load("/nonexistent/run.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MENUBUILDER_TEST_KEY", "set")
	if got := GetEnv("MENUBUILDER_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("MENUBUILDER_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnv fallback = %q", got)
	}
}
