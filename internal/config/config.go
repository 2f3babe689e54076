// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr         string        `env:"ADDR" envDefault:":3000"`
	AllowOrigins string        `env:"ALLOW_ORIGINS" envDefault:"http://localhost:5173"`
	ClockTime    time.Duration `env:"CLOCK_TIME" envDefault:"10m"`
	Debug        bool          `env:"DEBUG" envDefault:"false"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
