// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rishabh7g/rrishmusic/internal/config"
	"github.com/rishabh7g/rrishmusic/internal/version"
)

func runConfigCLI(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage()
		return 0
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:])
	case "dump":
		return runConfigDump(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage()
		return 2
	}
}

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  rrishd config validate [--file|-f config.yaml]")
	fmt.Fprintln(os.Stderr, "  rrishd config dump --effective [--file|-f config.yaml] [--format=yaml|json]")
}

func runConfigValidate(args []string) int {
	fs := flag.NewFlagSet("rrishd config validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath := strings.TrimSpace(file)
	if configPath == "" {
		configPath = resolveDefaultConfigPath()
	}
	if configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required (no default config.yaml found in $RRISH_DATA)")
		return 2
	}

	loader := config.NewLoader(configPath, version.Version)
	if _, err := loader.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n  %v\n", configPath, err)
		return 1
	}

	fmt.Printf("%s is valid\n", configPath)
	return 0
}

func runConfigDump(args []string) int {
	fs := flag.NewFlagSet("rrishd config dump", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var file string
	var format string
	var effective bool

	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")
	fs.BoolVar(&effective, "effective", false, "dump effective configuration (defaults + file + env)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if !effective {
		fmt.Fprintln(os.Stderr, "Error: --effective is required")
		return 2
	}

	configPath := strings.TrimSpace(file)
	if configPath == "" {
		configPath = resolveDefaultConfigPath()
	}

	loader := config.NewLoader(configPath, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n  %v\n", configPath, err)
		return 1
	}

	fileCfg := fileConfigFromAppConfig(cfg)
	redactFileConfigSecrets(&fileCfg)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(fileCfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode YAML: %v\n", err)
			return 1
		}
		_ = enc.Close()
		return 0
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fileCfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unsupported format: %s (use yaml or json)\n", format)
		return 2
	}
}

// fileConfigFromAppConfig renders the effective config back into the
// YAML file shape so a dump can seed a config file.
func fileConfigFromAppConfig(cfg config.AppConfig) config.FileConfig {
	readyStrict := cfg.ReadyStrict
	metricsEnabled := cfg.MetricsEnabled
	allowAnonymous := cfg.AllowAnonymous
	cacheTTL := cfg.Cache.TTL
	redisDB := cfg.Cache.Redis.DB
	contactRate := cfg.Contact.RatePerMinute
	contactMaxBody := cfg.Contact.MaxBodyBytes
	contactIdemTTL := cfg.Contact.IdempotencyTTL
	rlEnabled := cfg.RateLimit.Enabled
	rlRPM := cfg.RateLimit.RequestsPerMinute
	rlBurst := cfg.RateLimit.Burst
	trEnabled := cfg.Tracing.Enabled
	trSampleRate := cfg.Tracing.SampleRate
	trInsecure := cfg.Tracing.Insecure
	readTimeout := cfg.Server.ReadTimeout
	writeTimeout := cfg.Server.WriteTimeout
	idleTimeout := cfg.Server.IdleTimeout
	maxHeaderBytes := cfg.Server.MaxHeaderBytes
	shutdownTimeout := cfg.Server.ShutdownTimeout

	return config.FileConfig{
		DataDir:     cfg.DataDir,
		ContentDir:  cfg.ContentDir,
		WebDir:      cfg.WebDir,
		LogLevel:    cfg.LogLevel,
		ReadyStrict: &readyStrict,
		Server: &config.ServerFileConfig{
			ListenAddr:      cfg.APIListenAddr,
			ReadTimeout:     &readTimeout,
			WriteTimeout:    &writeTimeout,
			IdleTimeout:     &idleTimeout,
			MaxHeaderBytes:  &maxHeaderBytes,
			ShutdownTimeout: &shutdownTimeout,
		},
		Metrics: &config.MetricsFileConfig{
			Enabled:    &metricsEnabled,
			ListenAddr: cfg.MetricsListenAddr,
		},
		Security: &config.SecurityFileConfig{
			APIToken:       cfg.APIToken,
			AllowAnonymous: &allowAnonymous,
			AllowedOrigins: cfg.AllowedOrigins,
			TrustedProxies: cfg.TrustedProxies,
			CSP:            cfg.CSP,
		},
		Cache: &config.CacheFileConfig{
			Backend: cfg.Cache.Backend,
			TTL:     &cacheTTL,
			Redis: &config.RedisFileConfig{
				Addr:     cfg.Cache.Redis.Addr,
				Password: cfg.Cache.Redis.Password,
				DB:       &redisDB,
			},
		},
		Contact: &config.ContactFileConfig{
			Store:          cfg.Contact.Store,
			Path:           cfg.Contact.Path,
			RatePerMinute:  &contactRate,
			MaxBodyBytes:   &contactMaxBody,
			IdempotencyTTL: &contactIdemTTL,
		},
		RateLimit: &config.RateLimitFileConfig{
			Enabled:           &rlEnabled,
			RequestsPerMinute: &rlRPM,
			Burst:             &rlBurst,
		},
		Tracing: &config.TracingFileConfig{
			Enabled:    &trEnabled,
			Exporter:   cfg.Tracing.Exporter,
			Endpoint:   cfg.Tracing.Endpoint,
			SampleRate: &trSampleRate,
			Insecure:   &trInsecure,
		},
	}
}

func redactFileConfigSecrets(cfg *config.FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.Security != nil && cfg.Security.APIToken != "" {
		cfg.Security.APIToken = "***"
	}
	if cfg.Cache != nil && cfg.Cache.Redis != nil && cfg.Cache.Redis.Password != "" {
		cfg.Cache.Redis.Password = "***"
	}
}
