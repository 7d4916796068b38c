// Package main provides the edudesk console, a command line client for the
// education platform API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/MacJediWizard/edudesk/internal/apiclient"
	"github.com/MacJediWizard/edudesk/internal/config"
	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/httpclient"
	"github.com/MacJediWizard/edudesk/internal/metrics"
	"github.com/MacJediWizard/edudesk/internal/notifications"
	"github.com/MacJediWizard/edudesk/internal/render"
	"github.com/MacJediWizard/edudesk/internal/services"
	"github.com/MacJediWizard/edudesk/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// errReported marks failures whose notification was already printed.
var errReported = errors.New("request failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the console with the given arguments and returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	a.close()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

// app carries the state built once flags are parsed.
type app struct {
	configPath string
	verbose    bool
	noColor    bool

	cfg      *config.ConsoleConfig
	logger   zerolog.Logger
	out      *render.Renderer
	registry *prometheus.Registry
	svc      *services.Services
	sessions *session.Manager
	session  *session.Session

	closeStore func() error
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "edudesk",
		Short: "Edudesk console for the education platform API",
		Long: `The edudesk console manages organizations, students, courses, cohorts,
enrollments, payments and the rest of the education platform from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("api-url", "", "platform API base URL")
	flags.Duration("timeout", 0, "per-request timeout")
	flags.String("output", "", "output format (table or json)")
	flags.String("profile", "", "session profile name")
	flags.StringVar(&a.configPath, "config", "", "config file path (default ~/.edudesk/config.yml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging and notification details")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newWhoamiCmd(a))
	rootCmd.AddCommand(newDashboardCmd(a))
	rootCmd.AddCommand(entityCommands(a)...)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// version works without a usable config
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "edudesk %s\n", Version)
			fmt.Fprintf(w, "  Commit:     %s\n", Commit)
			fmt.Fprintf(w, "  Build Date: %s\n", BuildDate)
			fmt.Fprintf(w, "  Go Version: %s\n", runtime.Version())
			fmt.Fprintf(w, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// configure loads the layered configuration and builds the logger and renderer.
func (a *app) configure(cmd *cobra.Command) error {
	if err := config.LoadEnvFiles(".env"); err != nil {
		return err
	}

	path, err := a.resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Overlay(cfg, cmd.Flags()); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	level := zerolog.WarnLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.Kitchen,
		NoColor:    a.noColor,
	}).Level(level).With().Timestamp().Logger()

	a.out = render.New(cmd.OutOrStdout(), cfg.Output, a.noColor)
	return nil
}

func (a *app) resolveConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.DefaultConfigPath()
}

// connect builds the API client, services and session manager. With
// requireSession the stored session is resumed and its absence is an error.
func (a *app) connect(cmd *cobra.Command, requireSession bool) error {
	if a.svc == nil {
		hc, err := httpclient.NewFromConfig(a.cfg)
		if err != nil {
			return fmt.Errorf("create http client: %w", err)
		}

		a.registry = prometheus.NewRegistry()
		m, err := metrics.NewPrometheusMetrics(a.registry)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}

		var notifier notifications.Notifier = notifications.NewConsole(cmd.ErrOrStderr(), notifications.ConsoleOptions{
			NoColor: a.noColor,
			Verbose: a.verbose,
		})
		if a.verbose {
			notifier = notifications.Multi(notifier, notifications.NewLog(a.logger))
		}

		client := apiclient.New(apiclient.Options{
			BaseURL:    a.cfg.APIURL,
			Timeout:    a.cfg.Timeout,
			HTTPClient: hc,
			Notifier:   notifier,
			Metrics:    m,
			Logger:     a.logger,
		})
		a.svc = services.New(client)

		store, closeStore, err := session.NewStore(a.cfg)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		a.closeStore = closeStore
		a.sessions = session.NewManager(store, a.svc, a.cfg.Profile, a.logger)
	}

	if !requireSession {
		return nil
	}
	s, err := a.sessions.Resume(cmd.Context())
	switch {
	case errors.Is(err, session.ErrNoSession):
		return errors.New("not logged in, run 'edudesk login' first")
	case errors.Is(err, session.ErrExpired):
		return errors.New("session expired, run 'edudesk login' again")
	case err != nil:
		return fmt.Errorf("resume session: %w", err)
	}
	if s.APIURL != "" && s.APIURL != a.cfg.APIURL {
		a.logger.Warn().Str("session_url", s.APIURL).Str("api_url", a.cfg.APIURL).
			Msg("session was created against a different API URL")
	}
	a.session = s
	return nil
}

// close pushes metrics when configured and releases the session store.
func (a *app) close() {
	if a.registry != nil && a.cfg != nil && a.cfg.Metrics.PushgatewayURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Push(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job, a.registry, nil); err != nil {
			a.logger.Warn().Err(err).Msg("failed to push metrics")
		}
	}
	if a.closeStore != nil {
		if err := a.closeStore(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close session store")
		}
		a.closeStore = nil
	}
}

// result renders a successful envelope with show. A failed envelope has
// already been announced by the notifier, so only errReported is returned.
func result[T any](a *app, resp *envelope.Response[T], show func(T) error) error {
	if err := resp.Err(); err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	if resp.Data == nil {
		a.out.Line("%s", resp.Message)
		return nil
	}
	if a.out.JSONMode() || show == nil {
		return a.out.JSON(*resp.Data)
	}
	return show(*resp.Data)
}

// message renders an envelope that only carries a confirmation message.
func message(a *app, resp *envelope.Response[envelope.Message]) error {
	return result(a, resp, func(m envelope.Message) error {
		text := m.Message
		if text == "" {
			text = resp.Message
		}
		a.out.Line("%s", text)
		return nil
	})
}
