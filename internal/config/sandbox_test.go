package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadSandboxConfig_Defaults(t *testing.T) {
	for _, k := range []string{"SANDBOX_ENV", "SANDBOX_ADDR", "SANDBOX_BASE_PATH", "SANDBOX_SEED", "SANDBOX_SHUTDOWN_TIMEOUT"} {
		os.Unsetenv(k)
	}
	cfg := LoadSandboxConfig()
	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected %q, got %q", EnvDevelopment, cfg.Environment)
	}
	if cfg.Addr != ":4000" {
		t.Errorf("expected :4000, got %q", cfg.Addr)
	}
	if cfg.BasePath != "/api/v1" {
		t.Errorf("expected /api/v1, got %q", cfg.BasePath)
	}
	if !cfg.Seed {
		t.Error("expected seeding to be enabled by default")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadSandboxConfig_InvalidEnvironment(t *testing.T) {
	t.Setenv("SANDBOX_ENV", "invalid")
	cfg := LoadSandboxConfig()
	if cfg.Environment != EnvDevelopment {
		t.Errorf("expected %q for invalid SANDBOX_ENV, got %q", EnvDevelopment, cfg.Environment)
	}
}

func TestLoadSandboxConfig_Overrides(t *testing.T) {
	t.Setenv("SANDBOX_ENV", "test")
	t.Setenv("SANDBOX_ADDR", "127.0.0.1:9000")
	t.Setenv("SANDBOX_BASE_PATH", "api/v2/")
	t.Setenv("SANDBOX_SEED", "no")
	t.Setenv("SANDBOX_SHUTDOWN_TIMEOUT", "3")

	cfg := LoadSandboxConfig()
	if cfg.Environment != EnvTest {
		t.Errorf("expected %q, got %q", EnvTest, cfg.Environment)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("unexpected addr %q", cfg.Addr)
	}
	if cfg.BasePath != "/api/v2" {
		t.Errorf("expected normalized base path /api/v2, got %q", cfg.BasePath)
	}
	if cfg.Seed {
		t.Error("expected seeding disabled")
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.ShutdownTimeout)
	}
}

func TestGetEnvInt_Invalid(t *testing.T) {
	t.Setenv("SANDBOX_SHUTDOWN_TIMEOUT", "soon")
	if got := getEnvInt("SANDBOX_SHUTDOWN_TIMEOUT", 7); got != 7 {
		t.Errorf("expected default 7, got %d", got)
	}
}
