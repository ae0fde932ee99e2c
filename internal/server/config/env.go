package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv overlays values from environment variables. The dotenv file at
// path, or ./.env when path is empty and the file exists, is loaded first.
// Variables already set in the process environment win over the file.
func parseEnv(config *Config, path string) error {
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err == nil {
			path = defaultEnvFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return err
		}
	}

	return env.Parse(config)
}
