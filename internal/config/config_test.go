package config

import (
	"flag"
	"io"
	"os"
	"slices"
	"path/filepath"
	"testing"

	"github.com/tatianab/crisis-desk/internal/models"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CRISIS_LANG", "")
	t.Setenv("CRISIS_PROFILE", "")
	os.Unsetenv("CRISIS_LANG")
	os.Unsetenv("CRISIS_PROFILE")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Language != "tr" || cfg.Profile != "adult" {
		t.Errorf("defaults = %q/%q", cfg.Language, cfg.Profile)
	}
	if cfg.ReportDir != ".reports" {
		t.Errorf("report dir = %q", cfg.ReportDir)
	}
	if cfg.NarratorEnabled() {
		t.Errorf("narrator should be disabled without an API key")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("CRISIS_LANG", "en")
	t.Setenv("CRISIS_PROFILE", "kids")
	t.Setenv("CRISIS_SEED", "42")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Language != "en" || cfg.Profile != "kids" || cfg.Seed != 42 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.NarratorEnabled() {
		t.Errorf("narrator should be enabled")
	}
}

func TestLoadConfigRejectsUnknownProfile(t *testing.T) {
	t.Setenv("CRISIS_PROFILE", "teens")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestLoadConfigRejectsBadSeed(t *testing.T) {
	t.Setenv("CRISIS_PROFILE", "adult")
	t.Setenv("CRISIS_SEED", "not-a-number")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for non-numeric seed")
	}
}

func TestDefaultBalance(t *testing.T) {
	b, err := DefaultBalance()
	if err != nil {
		t.Fatalf("DefaultBalance: %v", err)
	}
	if b.MaxCrises != 4 {
		t.Errorf("max crises = %d", b.MaxCrises)
	}
	if b.InitialResources != (models.Resources{Budget: 100, Personnel: 50}) {
		t.Errorf("initial resources = %+v", b.InitialResources)
	}
	if b.ScopeMultipliers[models.ScopeGeneral] <= b.ScopeMultipliers[models.ScopeTargeted] {
		t.Errorf("general scope should cost more than targeted")
	}
}

func TestLoadBalanceOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	data := []byte("threat_severity: 90\nscope_multipliers:\n  general: 2\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	b, err := LoadBalance(path)
	if err != nil {
		t.Fatalf("LoadBalance: %v", err)
	}
	if b.ThreatSeverity != 90 {
		t.Errorf("threat severity = %v", b.ThreatSeverity)
	}
	if b.ScopeMultipliers[models.ScopeGeneral] != 2 {
		t.Errorf("general multiplier = %v", b.ScopeMultipliers[models.ScopeGeneral])
	}
	if b.ScopeMultipliers[models.ScopeTargeted] != 0.6 {
		t.Errorf("targeted multiplier should keep its default, got %v", b.ScopeMultipliers[models.ScopeTargeted])
	}
}

func TestLoadBalanceInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	if err := os.WriteFile(path, []byte("random_factor_range: [2, 1]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBalance(path); err == nil {
		t.Fatal("expected error for inverted random range")
	}
}

func TestLoadBalanceMissingFile(t *testing.T) {
	if _, err := LoadBalance(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("CRISIS_LANG", "tr")
	t.Setenv("CRISIS_PROFILE", "adult")
	t.Setenv("CRISIS_SCENARIOS", "flood")

	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-lang", "en", "-scenarios", " flood, pandemic ,", "-seed", "7", "-tutorial"})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Language != "en" || cfg.Profile != "adult" || cfg.Seed != 7 || !cfg.Tutorial {
		t.Errorf("cfg = %+v", cfg)
	}
	if !slices.Equal(cfg.Scenarios, []string{"flood", "pandemic"}) {
		t.Errorf("scenarios = %q", cfg.Scenarios)
	}
}

func TestParseConfigEnvScenarios(t *testing.T) {
	t.Setenv("CRISIS_PROFILE", "kids")
	t.Setenv("CRISIS_SCENARIOS", "park_storm,rumour")

	cfg, err := ParseConfig(flag.NewFlagSet("game", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if !slices.Equal(cfg.Scenarios, []string{"park_storm", "rumour"}) {
		t.Errorf("scenarios = %q", cfg.Scenarios)
	}
}

func TestParseConfigRejectsBadProfileFlag(t *testing.T) {
	t.Setenv("CRISIS_PROFILE", "adult")
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-profile", "teens"}); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
