// SPDX-License-Identifier: MIT

// Command rrishd serves the rrishmusic site: the SPA bundle, the JSON
// content API, the pricing calculator and the contact intake.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rishabh7g/rrishmusic/internal/api"
	"github.com/rishabh7g/rrishmusic/internal/cache"
	"github.com/rishabh7g/rrishmusic/internal/config"
	"github.com/rishabh7g/rrishmusic/internal/contact"
	"github.com/rishabh7g/rrishmusic/internal/content"
	"github.com/rishabh7g/rrishmusic/internal/daemon"
	"github.com/rishabh7g/rrishmusic/internal/health"
	rlog "github.com/rishabh7g/rrishmusic/internal/log"
	"github.com/rishabh7g/rrishmusic/internal/telemetry"
	"github.com/rishabh7g/rrishmusic/internal/version"
	"github.com/rishabh7g/rrishmusic/web"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:]))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		case "export":
			os.Exit(runExportCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	rlog.Configure(rlog.Config{
		Level:   "info",
		Service: "rrishd",
		Version: version.Version,
	})

	logger := rlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config path: explicit via --config, otherwise auto-load
	// ${RRISH_DATA}/config.yaml if it exists.
	explicitConfigPath := strings.TrimSpace(*configPath)
	effectiveConfigPath := explicitConfigPath
	if effectiveConfigPath == "" {
		effectiveConfigPath = resolveDefaultConfigPath()
	}

	// Load configuration with precedence: ENV > File > Defaults
	loader := config.NewLoader(effectiveConfigPath, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}

	// Re-configure logger with loaded configuration
	rlog.Configure(rlog.Config{
		Level:   cfg.LogLevel,
		Service: "rrishd",
		Version: version.Version,
	})

	if effectiveConfigPath != "" {
		source := "file"
		if explicitConfigPath == "" {
			source = "file(auto)"
		}
		logger.Info().
			Str("event", "config.loaded").
			Str("source", source).
			Str("path", effectiveConfigPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	serverCfg := config.ParseServerConfigForApp(cfg)

	bindHost := strings.TrimSpace(config.ParseString("RRISH_BIND_INTERFACE", ""))
	if bindHost != "" {
		newListen, err := config.BindListenAddr(serverCfg.ListenAddr, bindHost)
		if err != nil {
			logger.Fatal().
				Err(err).
				Msg("invalid RRISH_BIND_INTERFACE for API listen")
		}
		serverCfg.ListenAddr = newListen
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version.Version).
		Str("commit", version.Commit).
		Str("build_date", version.Date).
		Str("addr", serverCfg.ListenAddr).
		Msg("starting rrishd")

	logger.Info().Msgf("→ Data dir: %s", cfg.DataDir)
	if cfg.ContentDir != "" {
		logger.Info().Msgf("→ Content dir: %s (overrides embedded records)", cfg.ContentDir)
	} else {
		logger.Info().Msg("→ Content: embedded records")
	}
	if cfg.WebDir != "" {
		logger.Info().Msgf("→ Web dir: %s (overrides embedded bundle)", cfg.WebDir)
	}
	logger.Info().Msgf("→ Cache: %s (ttl %s)", cfg.Cache.Backend, cfg.Cache.TTL)
	logger.Info().Msgf("→ Contact store: %s", cfg.Contact.Store)
	if cfg.APIToken != "" {
		logger.Info().Msg("→ API token: configured")
	} else if cfg.AllowAnonymous {
		logger.Warn().
			Str("security", "weak").
			Msg("→ API token: NOT configured, admin surface open (RRISH_ALLOW_ANONYMOUS=true)")
	} else {
		logger.Warn().Msg("→ API token: NOT configured, admin surface disabled. Set RRISH_API_TOKEN to enable it.")
	}

	// Tracing (no-op provider when disabled).
	tracer, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    "rrishmusic",
		ServiceVersion: version.Version,
		Environment:    config.ParseString("RRISH_ENVIRONMENT", "production"),
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		SamplingRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "tracing.init_failed").
			Msg("failed to initialise tracing")
	}

	// Content store: embedded records plus the optional on-disk override.
	contentStore := content.NewStore(cfg.ContentDir)
	if err := contentStore.Load(); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "content.load_failed").
			Str("content_dir", cfg.ContentDir).
			Msg("failed to load content records")
	}
	snap := contentStore.Snapshot()
	counts := snap.Counts()
	logger.Info().
		Int("packages", counts.Packages).
		Int("testimonials", counts.Testimonials).
		Int("venues", counts.Venues).
		Int("faqs", counts.FAQs).
		Msg("content loaded")

	// Response cache for quotes and testimonial statistics.
	responseCache := cache.New(cfg.Cache.Backend, "responses", cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	}, cfg.Cache.TTL, logger)

	// Contact intake store and service.
	contactPath := cfg.Contact.Path
	if contactPath != "" && !filepath.IsAbs(contactPath) {
		contactPath = filepath.Join(cfg.DataDir, contactPath)
	}
	contactStore, err := contact.OpenStore(cfg.Contact.Store, contactPath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "contact.store_open_failed").
			Str("store", cfg.Contact.Store).
			Str("path", contactPath).
			Msg("failed to open contact store")
	}
	notifier := &contact.LogNotifier{Logger: rlog.WithComponent("contact")}
	contactSvc := contact.NewService(contactStore, notifier, cfg.Contact.IdempotencyTTL, rlog.WithComponent("contact"))

	// Health manager with content, storage and contact store checks.
	hm := health.NewManager(version.Version, cfg.ReadyStrict)
	hm.RegisterChecker(health.NewContentChecker(func() (time.Time, int) {
		s := contentStore.Snapshot()
		c := s.Counts()
		return s.LoadedAt, c.Packages + c.Tiers + c.Testimonials + c.Venues + c.FAQs
	}))
	hm.RegisterChecker(health.NewWritableDirChecker("data_dir", cfg.DataDir))
	hm.RegisterChecker(health.NewPingChecker("contact_store", contactSvc.Ping))

	apiServer, err := api.New(api.Deps{
		Config:  cfg,
		Content: contentStore,
		Contact: contactSvc,
		Cache:   responseCache,
		Health:  hm,
		Logger:  rlog.Base(),
		WebFS:   mustWebFS(logger),
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "api.creation_failed").
			Msg("failed to create API server")
	}

	metricsAddr := ""
	if cfg.MetricsEnabled {
		metricsAddr = strings.TrimSpace(cfg.MetricsListenAddr)
		if metricsAddr == "" {
			metricsAddr = ":9090"
		}
	}

	deps := daemon.Deps{
		Logger:         logger,
		APIHandler:     apiServer.Handler(),
		MetricsHandler: promhttp.Handler(),
		MetricsAddr:    metricsAddr,
	}

	mgr, err := daemon.NewManager(serverCfg, deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation_failed").
			Msg("failed to create daemon manager")
	}

	mgr.RegisterShutdownHook("tracer", tracer.Shutdown)
	mgr.RegisterShutdownHook("contact_store", func(context.Context) error {
		return contactStore.Close()
	})
	mgr.RegisterShutdownHook("content_watcher", func(context.Context) error {
		contentStore.Stop()
		return nil
	})
	if stopper, ok := responseCache.(interface{ Stop() }); ok {
		mgr.RegisterShutdownHook("cache", func(context.Context) error {
			stopper.Stop()
			return nil
		})
	}

	// Hot reload support: watch config file and allow SIGHUP-triggered reload.
	cfgHolder := config.NewConfigHolder(cfg, config.NewLoader(effectiveConfigPath, version.Version), effectiveConfigPath)

	app := daemon.NewApp(logger, mgr, cfgHolder, apiServer, contentStore)
	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.failed").
			Msg("daemon app failed")
	}

	logger.Info().Msg("server exiting")
}

// mustWebFS returns the embedded SPA bundle. A broken embed is a build
// defect, not a runtime condition.
func mustWebFS(logger zerolog.Logger) fs.FS {
	dist, err := web.Dist()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "web.embed_broken").
			Msg("embedded web bundle is unreadable")
	}
	return dist
}

func resolveDefaultConfigPath() string {
	dataDir := strings.TrimSpace(os.Getenv("RRISH_DATA"))
	if dataDir == "" {
		return ""
	}
	autoPath := filepath.Join(dataDir, "config.yaml")
	if _, err := os.Stat(autoPath); err == nil {
		return autoPath
	}
	return ""
}
