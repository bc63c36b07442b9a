package cli

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that provide flag defaults.
const (
	EnvFile      = "BELIEFGRID_ENV"
	EnvLogLevel  = "BELIEFGRID_LOG_LEVEL"
	EnvLogFormat = "BELIEFGRID_LOG_FORMAT"
	EnvStrategy  = "BELIEFGRID_STRATEGY"
)

// Env holds flag defaults read from the environment.
type Env map[string]string

// LoadEnv reads defaults from the dotenv file named by BELIEFGRID_ENV (or
// .env), then overlays the process environment, which always wins. A missing
// dotenv file is not an error.
func LoadEnv() (Env, error) {
	path := os.Getenv(EnvFile)
	if path == "" {
		path = ".env"
	}

	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		env = map[string]string{}
	}
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, "BELIEFGRID_") {
			env[k] = v
		}
	}
	return Env(env), nil
}

func (e Env) get(key, fallback string) string {
	if v, ok := e[key]; ok && v != "" {
		return v
	}
	return fallback
}
