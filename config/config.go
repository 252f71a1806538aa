package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	// Server configuration
	Server struct {
		// Port the HTTP service listens on
		Port string `env:"SERVER_PORT" envDefault:"8000"`
	}

	// Model artifact locations
	Models struct {
		// Directory holding trained model artifacts
		Dir string `env:"MODEL_DIR" envDefault:"models"`

		// Price model artifact file name
		PriceFile string `env:"PRICE_MODEL_FILE" envDefault:"price_model.json"`

		// Appreciation model artifact file name
		AppreciationFile string `env:"APPRECIATION_MODEL_FILE" envDefault:"appreciation_model.json"`
	}

	// Comparable-sales generation
	Comps struct {
		// Default number of comparables when the request omits a limit
		DefaultLimit int `env:"COMPS_DEFAULT_LIMIT" envDefault:"10"`
	}

	// Trainer configuration
	Trainer struct {
		// Path to the SQLite training dataset
		DatabasePath string `env:"TRAINING_DB_PATH" envDefault:"database/propertyiq.db"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PriceModelPath is the full path of the price artifact.
func (c *Config) PriceModelPath() string {
	return filepath.Join(c.Models.Dir, c.Models.PriceFile)
}

// AppreciationModelPath is the full path of the appreciation artifact.
func (c *Config) AppreciationModelPath() string {
	return filepath.Join(c.Models.Dir, c.Models.AppreciationFile)
}
