package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port        string `env:"PORT" env-default:"4000"`
	DatabaseDSN string `env:"DATABASE_URL" env-required:"true"`
}

// MustLoad reads the configuration from the environment and exits the
// process when a required value is missing.
func MustLoad() Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read env: %s", err)
	}

	return cfg
}
