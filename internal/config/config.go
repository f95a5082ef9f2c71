// Package config reads process configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	NATSURL     string `env:"NATS_URL"`
	AdminPass   string `env:"ADMIN_PASS" envDefault:"admin123"`

	CardPool         int           `env:"CARD_POOL" envDefault:"300"`
	WinnerCooldown   time.Duration `env:"WINNER_COOLDOWN" envDefault:"2s"`
	AutoPlayInterval time.Duration `env:"AUTO_PLAY_INTERVAL" envDefault:"5s"`
	ProximityDelay   time.Duration `env:"PROXIMITY_DELAY" envDefault:"200ms"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
