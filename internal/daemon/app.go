// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rs/zerolog"

	"github.com/rishabh7g/rrishmusic/internal/config"
	"github.com/rishabh7g/rrishmusic/internal/content"
)

// ConfigApplier receives a fresh config after every successful reload.
type ConfigApplier interface {
	ApplyConfig(config.AppConfig)
}

// App owns the long-lived runtime lifecycle (watchers, reload wiring)
// and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	cfgHolder    *config.ConfigHolder
	applier      ConfigApplier
	contentStore *content.Store
	reloadSignal os.Signal
}

// NewApp creates a new App orchestrator. cfgHolder, applier and
// contentStore may each be nil; the related wiring is skipped.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.ConfigHolder, applier ConfigApplier, contentStore *content.Store) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		cfgHolder:    cfgHolder,
		applier:      applier,
		contentStore: contentStore,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run starts all owned background subsystems and blocks until ctx is
// cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// Config watcher is best-effort: startup should not fail if the
	// watcher cannot be started.
	if a.cfgHolder != nil {
		if err := a.cfgHolder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
		}
	}

	// Content watcher picks up edits to the content directory.
	if a.contentStore != nil {
		if err := a.contentStore.Watch(ctx); err != nil {
			a.logger.Warn().Err(err).Str("event", "content.watcher_start_failed").Msg("failed to start content watcher")
		}
	}

	// Reload-during-runtime wiring: apply every config swap to the API
	// server so token rotation and proxy changes take effect live.
	if a.cfgHolder != nil && a.applier != nil {
		applyCh := make(chan config.AppConfig, 1)
		a.cfgHolder.RegisterListener(applyCh)

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case cfg := <-applyCh:
					a.applier.ApplyConfig(cfg)
				}
			}
		})
	}

	// SIGHUP triggers a manual reload of config and content.
	if a.reloadSignal != nil && (a.cfgHolder != nil || a.contentStore != nil) {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str("event", "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal")
					a.reload(ctx)
				}
			}
		})
	}

	// Main server lifecycle.
	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}

func (a *App) reload(ctx context.Context) {
	if a.cfgHolder != nil {
		if err := a.cfgHolder.Reload(ctx); err != nil {
			a.logger.Warn().
				Err(err).
				Str("event", "config.reload_failed").
				Msg("config reload failed")
		}
	}
	if a.contentStore != nil {
		if err := a.contentStore.Reload(ctx); err != nil {
			a.logger.Warn().
				Err(err).
				Str("event", "content.reload_failed").
				Msg("content reload failed, previous snapshot kept")
		}
	}
}
