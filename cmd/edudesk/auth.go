package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/MacJediWizard/edudesk/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(a *app) *cobra.Command {
	var (
		email         string
		userType      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Signs in to the platform API and stores the access token for later commands.

The password is prompted for without echo, or read from the first line of
standard input with --password-stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ut, err := parseUserType(userType)
			if err != nil {
				return err
			}
			if err := a.connect(cmd, false); err != nil {
				return err
			}

			password, err := readPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}

			s, err := a.sessions.Login(cmd.Context(), models.LoginRequest{
				Email:    strings.TrimSpace(email),
				Password: password,
				UserType: ut,
			})
			if err != nil {
				var apiErr *envelope.APIError
				if errors.As(err, &apiErr) {
					return fmt.Errorf("%w: %w", errReported, err)
				}
				return err
			}

			if a.out.JSONMode() {
				return a.out.JSON(s)
			}
			a.out.Line("Logged in as %s (%s)", displayName(s.Name, s.Email), s.UserType)
			if s.ExpiresAt != nil {
				a.out.Hint("Session expires %s", s.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&userType, "user-type", "employee", "account type (employee or student)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(cmd, false); err != nil {
				return err
			}
			// a missing or expired session still clears whatever is stored
			if _, err := a.sessions.Resume(cmd.Context()); err != nil {
				a.logger.Debug().Err(err).Msg("no active session")
			}
			resp, err := a.sessions.Logout(cmd.Context())
			if err != nil {
				return err
			}
			if resp != nil && !resp.Success {
				a.out.Hint("Server logout failed, local session cleared")
				return nil
			}
			a.out.Line("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(cmd, true); err != nil {
				return err
			}
			resp := a.svc.Auth.Profile(cmd.Context())
			return result(a, resp, func(p models.Profile) error {
				if err := render.Item(a.out, p); err != nil {
					return err
				}
				if len(p.Permissions) > 0 {
					a.out.Hint("Permissions: %s", strings.Join(p.Permissions, ", "))
				}
				return nil
			})
		},
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	var centerID, from, to string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := models.DashboardParams{CenterID: centerID}
			if from != "" {
				d, err := models.ParseDate(from)
				if err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
				params.From = &d
			}
			if to != "" {
				d, err := models.ParseDate(to)
				if err != nil {
					return fmt.Errorf("invalid --to: %w", err)
				}
				params.To = &d
			}

			if err := a.connect(cmd, true); err != nil {
				return err
			}
			resp := a.svc.Dashboard.Stats(cmd.Context(), params)
			return result(a, resp, func(s models.DashboardStats) error {
				if err := render.Item(a.out, s); err != nil {
					return err
				}
				if len(s.RecentEnrollments) > 0 {
					a.out.Line("")
					a.out.Line("Recent enrollments")
					if err := render.List(a.out, s.RecentEnrollments); err != nil {
						return err
					}
				}
				if len(s.RecentPayments) > 0 {
					a.out.Line("")
					a.out.Line("Recent payments")
					return render.List(a.out, s.RecentPayments)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&centerID, "center", "", "limit statistics to one center")
	cmd.Flags().StringVar(&from, "from", "", "revenue window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "revenue window end (YYYY-MM-DD)")

	return cmd
}

func parseUserType(s string) (models.UserType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "employee":
		return models.UserEmployee, nil
	case "student":
		return models.UserStudent, nil
	}
	return "", fmt.Errorf("unknown user type %q (want employee or student)", s)
}

// readPassword reads one line from stdin with --password-stdin, and prompts
// without echo when stdin is a terminal.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")
		if password == "" {
			return "", errors.New("password cannot be empty")
		}
		return password, nil
	}

	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", errors.New("stdin is not a terminal, use --password-stdin")
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("password cannot be empty")
	}
	return string(raw), nil
}

func displayName(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
