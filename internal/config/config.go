package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Bot    Bot
	Engine Engine
	Store  Store
	Probe  Probe
	Log    Log
}

type Probe struct {
	ProbeAddress   string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8091"`
	MetricsAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":8090"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}
