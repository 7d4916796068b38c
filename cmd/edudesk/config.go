package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MacJediWizard/edudesk/internal/config"
	"github.com/MacJediWizard/edudesk/internal/httpclient"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage console configuration",
	}

	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigSetURLCmd(a))

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.resolveConfigPath()
			if err != nil {
				return err
			}
			cfg := *a.cfg
			if cfg.Redis.Password != "" {
				cfg.Redis.Password = "****"
			}
			if a.out.JSONMode() {
				return a.out.JSON(cfg)
			}

			rows := [][]string{
				{"Config file", path},
				{"API URL", cfg.APIURL},
				{"Timeout", cfg.Timeout.String()},
				{"Output", string(cfg.Output)},
				{"Profile", cfg.Profile},
				{"Session store", string(cfg.SessionStore)},
			}
			if cfg.SessionStore == config.SessionStoreRedis {
				rows = append(rows,
					[]string{"Redis address", cfg.Redis.Addr},
					[]string{"Redis DB", fmt.Sprintf("%d", cfg.Redis.DB)},
					[]string{"Redis key prefix", cfg.Redis.KeyPrefix},
					[]string{"Session TTL", cfg.Redis.TTL.String()},
				)
			}
			rows = append(rows, []string{"Proxy", httpclient.Describe(&cfg.Proxy)})
			if cfg.Metrics.PushgatewayURL != "" {
				rows = append(rows, []string{"Pushgateway", cfg.Metrics.PushgatewayURL})
			}
			return a.out.Table([]string{"SETTING", "VALUE"}, rows)
		},
	}
}

func newConfigSetURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <api-url>",
		Short: "Set the platform API base URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			apiURL := strings.TrimSuffix(strings.TrimSpace(args[0]), "/")
			u, err := url.Parse(apiURL)
			if err != nil {
				return fmt.Errorf("invalid API URL: %w", err)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("API URL must use http or https scheme")
			}
			if u.Host == "" {
				return fmt.Errorf("API URL must include a host")
			}

			path, err := a.resolveConfigPath()
			if err != nil {
				return err
			}
			// edit the file as stored, without env or flag overrides
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.APIURL = apiURL
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			a.out.Line("API URL set to %s", apiURL)
			a.out.Hint("Saved to %s", path)
			return nil
		},
	}
}
