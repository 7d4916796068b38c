package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the deployment environment of the sandbox server.
type Environment string

const (
	// EnvDevelopment is the default local development environment.
	EnvDevelopment Environment = "development"
	// EnvTest runs the sandbox for automated contract checks.
	EnvTest Environment = "test"
	// EnvProduction disables gin debug output.
	EnvProduction Environment = "production"
)

// SandboxConfig holds the in-memory sandbox server settings loaded from environment variables.
type SandboxConfig struct {
	Environment     Environment
	Addr            string        // listen address (default: ":4000")
	BasePath        string        // API prefix (default: "/api/v1")
	Seed            bool          // load demo records on start
	ShutdownTimeout time.Duration // graceful shutdown window (default: 10s)
}

// LoadSandboxConfig reads sandbox configuration from SANDBOX_* environment variables.
func LoadSandboxConfig() SandboxConfig {
	env := Environment(os.Getenv("SANDBOX_ENV"))
	switch env {
	case EnvDevelopment, EnvTest, EnvProduction:
		// valid
	default:
		env = EnvDevelopment
	}

	addr := strings.TrimSpace(os.Getenv("SANDBOX_ADDR"))
	if addr == "" {
		addr = ":4000"
	}

	basePath := strings.TrimSpace(os.Getenv("SANDBOX_BASE_PATH"))
	if basePath == "" {
		basePath = "/api/v1"
	}
	basePath = "/" + strings.Trim(basePath, "/")

	shutdown := getEnvInt("SANDBOX_SHUTDOWN_TIMEOUT", 10)
	if shutdown <= 0 {
		shutdown = 10
	}

	return SandboxConfig{
		Environment:     env,
		Addr:            addr,
		BasePath:        basePath,
		Seed:            getEnvBool("SANDBOX_SEED", true),
		ShutdownTimeout: time.Duration(shutdown) * time.Second,
	}
}

// getEnvBool reads a boolean from an environment variable, returning the default if unset or invalid.
func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultVal
	}
}

// getEnvInt reads an integer from an environment variable, returning the default if unset or invalid.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
