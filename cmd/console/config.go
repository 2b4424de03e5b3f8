package main

import (
	"fmt"
	"net/url"
	"strings"

	"codeberg.org/fleetdesk/console/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(flags *config.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage console configuration",
	}

	cmd.AddCommand(
		newConfigShowCmd(flags),
		newConfigSetAPICmd(flags),
	)

	return cmd
}

func configPath(flags *config.Flags) (string, error) {
	if flags.ConfigPath != "" {
		return flags.ConfigPath, nil
	}
	return config.DefaultConfigPath()
}

func newConfigShowCmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithFlags(*flags)
			if err != nil {
				return err
			}

			path, _ := configPath(flags)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Config file:     %s\n", path)
			fmt.Fprintf(out, "Environment:     %s\n", cfg.Environment)
			fmt.Fprintf(out, "API URL:         %s\n", cfg.APIURL)
			fmt.Fprintf(out, "Realtime:        %s (%s)\n", cfg.RealtimeMode, cfg.RealtimeURL)
			fmt.Fprintf(out, "Request timeout: %s\n", cfg.Timeout)
			fmt.Fprintf(out, "Session store:   %s\n", cfg.SessionStore)

			switch cfg.SessionStore {
			case config.SessionFile:
				fmt.Fprintf(out, "Session file:    %s\n", cfg.SessionFile)
			case config.SessionRedis:
				fmt.Fprintf(out, "Redis:           %s\n", redactURL(cfg.RedisURL))
			}

			fmt.Fprintf(out, "Log file:        %s\n", cfg.LogFile)
			fmt.Fprintf(out, "Insights cache:  %s\n", cfg.InsightsTTL)

			return nil
		},
	}
}

func newConfigSetAPICmd(flags *config.Flags) *cobra.Command {
	var realtimeURL string

	cmd := &cobra.Command{
		Use:   "set-api <url>",
		Short: "Persist the backend API URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL := strings.TrimSuffix(args[0], "/")

			u, err := url.Parse(apiURL)
			if err != nil {
				return fmt.Errorf("invalid API URL: %w", err)
			}
			if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("API URL must be an absolute http or https URL")
			}

			path, err := configPath(flags)
			if err != nil {
				return err
			}

			fc, err := config.LoadFile(path)
			if err != nil {
				return err
			}

			fc.APIURL = apiURL
			if realtimeURL != "" {
				fc.RealtimeURL = realtimeURL
			}

			if err := fc.Save(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "API URL: %s\n", fc.APIURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&realtimeURL, "realtime-url", "", "also persist the realtime websocket URL")

	return cmd
}

// hides the password part of a connection URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid)"
	}
	return u.Redacted()
}
