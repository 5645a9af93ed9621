package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env variables if a file is present; otherwise the
// process environment is used as-is.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		Logger.Warn("No .env file loaded, using environment variables: ", err)
	}
}

// GetEnv returns the environment variable or a fallback when unset.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
