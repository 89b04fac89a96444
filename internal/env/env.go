// Package env loads a .env file's KEY=VALUE pairs into the process
// environment, so a deployment can override the fleet's base address
// (ATTPC_BASE_ADDRESS) without editing YAML or passing flags
// every invocation — handy when the same binary runs against a bench
// setup and the beamline hardware from the same checkout.
package env

import (
	"os"
	"strings"
)

// Load reads .env from the current directory and applies its
// variables with os.Setenv, silently doing nothing if the file is
// absent. Called once at process start, before flag defaults are
// resolved, so ATTPC_* variables can seed them via os.Getenv.
func Load() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		os.Setenv(key, value)
	}
}

// Getenv returns the environment variable named key, or fallback if it
// is unset or empty — used to seed a flag's default from ATTPC_* vars.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
