package main

import (
	"log"

	"github.com/tatianab/crisis-desk/internal/tui"
)

// main runs the game with configuration from the environment only. Use
// cmd/game for command-line flags.
func main() {
	if err := tui.Start(); err != nil {
		log.Fatalf("Failed to run game: %v", err)
	}
}
