package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

// loadDotEnv copies variables from path into the process environment when
// the file exists. Variables already set win.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

// parseEnv overlays Config with PARCEL_* environment variables. Unset
// variables keep the current value. Malformed values (e.g. a bad duration)
// panic, like the other loaders.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
