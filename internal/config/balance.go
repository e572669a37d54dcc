package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/tatianab/crisis-desk/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed balance.yaml
var defaultBalance []byte

// DefaultBalance returns the balance shipped with the game.
func DefaultBalance() (models.Balance, error) {
	return parseBalance(defaultBalance)
}

// LoadBalance reads a balance file. An empty path selects the default balance.
// Keys missing from the file keep their default values.
func LoadBalance(path string) (models.Balance, error) {
	if path == "" {
		return DefaultBalance()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Balance{}, fmt.Errorf("read balance: %w", err)
	}
	return parseBalance(defaultBalance, data)
}

func parseBalance(layers ...[]byte) (models.Balance, error) {
	var b models.Balance
	for _, data := range layers {
		if err := yaml.Unmarshal(data, &b); err != nil {
			return models.Balance{}, fmt.Errorf("parse balance: %w", err)
		}
	}
	if err := b.Validate(); err != nil {
		return models.Balance{}, fmt.Errorf("invalid balance: %w", err)
	}
	return b, nil
}
