package main

import (
	"flag"
	"log"
	"os"

	"github.com/tatianab/crisis-desk/internal/config"
	"github.com/tatianab/crisis-desk/internal/tui"
)

func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := tui.RunWithConfig(cfg, tui.Options{}); err != nil {
		log.Fatalf("Failed to run game: %v", err)
	}
}
