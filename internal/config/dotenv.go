package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads .env.local then .env into the process environment
// and returns the files it found. godotenv never overwrites variables
// that are already set, so real environment variables take precedence
// and .env.local shadows .env. Missing files are fine; production runs
// on the environment alone.
func LoadDotEnv() []string {
	var loaded []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
