package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	Model        string `env:"CRISIS_MODEL" envDefault:"gemini-2.5-flash"`
	Language     string `env:"CRISIS_LANG" envDefault:"tr"`
	Profile      string `env:"CRISIS_PROFILE" envDefault:"adult"`
	ContentDir   string `env:"CRISIS_CONTENT_DIR"`
	BalanceFile  string `env:"CRISIS_BALANCE_FILE"`
	ReportDir    string `env:"CRISIS_REPORT_DIR" envDefault:".reports"`
	Seed         int64  `env:"CRISIS_SEED"`
	LogFile      string `env:"CRISIS_LOG_FILE"`

	// Scenarios preselects the crises of a run; empty means all of them.
	Scenarios []string `env:"CRISIS_SCENARIOS" envSeparator:","`
	Tutorial  bool     `env:"CRISIS_TUTORIAL"`
	AutoStart bool     `env:"CRISIS_AUTOSTART"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseConfig reads the environment and lets flags in args override it.
func ParseConfig(fs *flag.FlagSet, args []string) (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	scenarios := strings.Join(cfg.Scenarios, ",")
	fs.StringVar(&cfg.Language, "lang", cfg.Language, "content and interface language")
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, "content profile (adult or kids)")
	fs.StringVar(&scenarios, "scenarios", scenarios, "comma separated scenario ids to play")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 picks one)")
	fs.BoolVar(&cfg.Tutorial, "tutorial", cfg.Tutorial, "show the tutorial before the first crisis")
	fs.BoolVar(&cfg.AutoStart, "start", cfg.AutoStart, "skip the start screen")
	fs.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "directory of scenario content files")
	fs.StringVar(&cfg.BalanceFile, "balance", cfg.BalanceFile, "balance override file")
	fs.StringVar(&cfg.ReportDir, "reports", cfg.ReportDir, "directory for run reports")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "debug log file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Scenarios = splitList(scenarios)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	switch c.Profile {
	case "adult", "kids":
	default:
		return fmt.Errorf("invalid profile: %s", c.Profile)
	}
	if c.Language == "" {
		return fmt.Errorf("language must not be empty")
	}
	return nil
}

// NarratorEnabled reports whether an API key for the debrief narrator is set.
func (c *Config) NarratorEnabled() bool {
	return c.GeminiAPIKey != ""
}
