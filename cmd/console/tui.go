package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/fleetdesk/console/internal/config"
	"codeberg.org/fleetdesk/console/internal/insights"
	"codeberg.org/fleetdesk/console/internal/logger"
	"codeberg.org/fleetdesk/console/internal/notify"
	"codeberg.org/fleetdesk/console/internal/realtime"
	"codeberg.org/fleetdesk/console/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const (
	toastTTL      = 4 * time.Second
	insightsDelay = 600 * time.Millisecond
)

func newTUICmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the dispatch dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), *flags)
		},
	}
}

func runTUI(ctx context.Context, flags config.Flags) error {
	center := notify.NewCenter(toastTTL)
	nav := tui.NewNavigator()

	a, err := newApp(ctx, flags, center, nav)
	if err != nil {
		return err
	}
	defer a.Close()

	// the dashboard owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger.Configure(a.cfg.Environment, logFile)
	logger.Info("starting console", "api", a.cfg.APIURL, "realtime", a.cfg.RealtimeMode)

	prefsPath := insightsPrefsPath()
	prefs, err := insights.LoadPreferences(prefsPath)
	if err != nil {
		logger.Warn("using default insight preferences", "error", err)
		prefs = insights.DefaultPreferences()
	}
	prefsCtx := insights.NewContext(prefs)

	model := tui.NewApp(tui.Deps{
		Config:    a.cfg,
		API:       a.api,
		Session:   a.sess,
		Center:    center,
		Navigator: nav,
		Realtime:  realtime.New(a.cfg, a.sess),
		Insights:  insights.NewFetcher(insights.NewStaticSource(insightsDelay), a.cfg.InsightsTTL),
		Prefs:     prefsCtx,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}

	if prefsPath != "" {
		if err := insights.SavePreferences(prefsPath, prefsCtx.Preferences()); err != nil {
			logger.Warn("failed to save insight preferences", "error", err)
		}
	}

	return nil
}

// empty when no home directory is available
func insightsPrefsPath() string {
	dir, err := config.DefaultConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "insights.yml")
}
