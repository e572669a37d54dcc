package tui

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/crisis-desk/internal/catalog"
	"github.com/tatianab/crisis-desk/internal/config"
	"github.com/tatianab/crisis-desk/internal/i18n"
	"github.com/tatianab/crisis-desk/internal/narrator"
)

// Start loads the configuration from the environment and runs the game.
func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	return RunWithConfig(cfg, Options{})
}

// RunWithConfig fills the unset fields of opts from cfg and runs the game.
func RunWithConfig(cfg *config.Config, opts Options) error {
	cleanup, err := Setup(context.Background(), cfg, &opts)
	if err != nil {
		return err
	}
	defer cleanup()
	return Run(opts)
}

// Setup loads content, locales and balance into opts and connects the
// narrator when an API key is configured. The returned func releases what
// Setup opened.
func Setup(ctx context.Context, cfg *config.Config, opts *Options) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if opts.Logger == nil && cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "crisis-desk")
		if err != nil {
			return cleanup, fmt.Errorf("open log file: %w", err)
		}
		closers = append(closers, func() { f.Close() })
		opts.Logger = log.Default()
	}

	if opts.Library == nil {
		var (
			lib *catalog.Library
			err error
		)
		if cfg.ContentDir != "" {
			lib, err = catalog.LoadDir(cfg.ContentDir)
		} else {
			lib, err = catalog.LoadEmbedded()
		}
		if err != nil {
			return cleanup, fmt.Errorf("load content: %w", err)
		}
		opts.Library = lib
	}

	if opts.Locales == nil {
		locales, err := i18n.LoadEmbedded()
		if err != nil {
			return cleanup, fmt.Errorf("load locales: %w", err)
		}
		opts.Locales = locales
	}

	if opts.Balance.MaxCrises == 0 {
		b, err := config.LoadBalance(cfg.BalanceFile)
		if err != nil {
			return cleanup, err
		}
		opts.Balance = b
	}

	if opts.Profile == "" {
		opts.Profile = cfg.Profile
	}
	if opts.Language == "" {
		opts.Language = cfg.Language
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.Seed
	}
	if opts.ReportDir == "" {
		opts.ReportDir = cfg.ReportDir
	}
	if len(opts.Selection) == 0 {
		opts.Selection = cfg.Scenarios
	}
	opts.Tutorial = opts.Tutorial || cfg.Tutorial
	opts.AutoStart = opts.AutoStart || cfg.AutoStart

	if opts.Narrator == nil && cfg.NarratorEnabled() {
		n, err := narrator.NewNarrator(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.Printf("narrator disabled: %v", err)
			}
		} else {
			closers = append(closers, n.Close)
			opts.Narrator = n
		}
	}
	return cleanup, nil
}
