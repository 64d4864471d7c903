package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/musichub/internal/app"
	"github.com/zjrosen/musichub/internal/cachemanager"
	"github.com/zjrosen/musichub/internal/config"
	"github.com/zjrosen/musichub/internal/log"
	"github.com/zjrosen/musichub/internal/notify"
	"github.com/zjrosen/musichub/internal/ui/recentlist"
	"github.com/zjrosen/musichub/internal/ui/styles"
	"github.com/zjrosen/musichub/internal/watcher"
)

func runApp(cmd *cobra.Command, e *env) error {
	zone.NewGlobal()

	queue := notify.NewQueue(notify.WithDefaultDuration(e.cfg.Notifications.DefaultDuration))
	defer queue.Close()

	svc := app.Services{
		Registrar: e.client,
		Fetcher:   e.client,
		Queue:     queue,
		Known:     cachemanager.NewKnownTracks(cachemanager.DefaultExpiration),
		Clock:     recentlist.RealClock{},
	}

	// Watch the config file so theme and notification edits apply live.
	// The app works fine without it.
	if e.configPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(e.configPath))
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			log.Warn(log.CatConfig, "Config watcher unavailable", "error", err)
		} else {
			defer func() { _ = w.Stop() }()
			svc.ConfigChanges = w.Broker()
			svc.ReloadConfig = func() error {
				return reloadConfig(e, queue)
			}
		}
	}

	model := app.New(svc, e.cfg.Debug)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)

	final, err := p.Run()
	if m, ok := final.(app.Model); ok {
		m.Close()
	} else {
		model.Close()
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// reloadConfig re-reads the file the program started with and applies the
// settings that can change at runtime: theme and notification duration.
func reloadConfig(e *env, queue *notify.Queue) error {
	cfg, err := config.Load(viper.New(), e.configPath)
	if err != nil {
		return err
	}
	styles.ResetTheme()
	if err := applyTheme(cfg); err != nil {
		styles.ResetTheme()
		_ = applyTheme(e.cfg)
		return err
	}
	queue.SetDefaultDuration(cfg.Notifications.DefaultDuration)
	e.cfg.Theme = cfg.Theme
	e.cfg.Notifications = cfg.Notifications
	return nil
}
