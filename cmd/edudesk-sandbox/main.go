// Package main runs the in-memory sandbox implementation of the platform API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MacJediWizard/edudesk/internal/config"
	"github.com/MacJediWizard/edudesk/internal/sandbox"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadEnvFiles(".env"); err != nil {
		l := zerolog.New(os.Stderr)
		l.Error().Err(err).Msg("Failed to load .env")
		return 1
	}
	cfg := config.LoadSandboxConfig()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("version", Version).Logger()
	if cfg.Environment != config.EnvProduction {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if cfg.Environment == config.EnvDevelopment {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info().
		Str("version", Version).
		Str("commit", Commit).
		Str("build_date", BuildDate).
		Str("environment", string(cfg.Environment)).
		Msg("Starting edudesk sandbox")

	sb := sandbox.New(sandbox.Options{
		BasePath: cfg.BasePath,
		Seed:     cfg.Seed,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           sb.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("base_path", sb.BasePath()).Bool("seed", cfg.Seed).Msg("HTTP server listening")
		if cfg.Seed {
			for _, cred := range sandbox.DefaultCredentials() {
				logger.Info().Str("email", cred.Email).Str("user_type", string(cred.UserType)).Msg("Demo account available")
			}
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down sandbox")
	case err := <-errCh:
		logger.Error().Err(err).Msg("HTTP server error")
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
		return 1
	}

	logger.Info().Msg("Sandbox stopped gracefully")
	return 0
}
