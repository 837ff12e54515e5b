// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Wrapper methods for mechanical connection tracking

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

func (l *Loader) envStrings(key string, defaultVal []string) []string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseStringSlice(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults
// It enforces Strict Validated Order: Parse File (Strict) -> Apply Env -> Validate
func (l *Loader) Load() (AppConfig, error) {
	cfg := defaultConfig()

	// 1. Load from file (if provided)
	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	// 2. Override with environment variables (highest priority)
	l.mergeEnvConfig(&cfg)

	// SAFETY: Ensure DataDir is absolute to prevent path traversal/platform errors
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}

	// Contact store path is resolved under DataDir unless absolute.
	if cfg.Contact.Path != "" && !filepath.IsAbs(cfg.Contact.Path) {
		cfg.Contact.Path = filepath.Join(cfg.DataDir, cfg.Contact.Path)
	}

	// 3. Version from binary
	cfg.Version = l.version

	// 4. Validate final configuration
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	// Check file extension
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// Read file
	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	// Parse YAML with strict mode (unknown fields cause errors)
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

// mergeFileConfig overlays file values onto cfg. Only fields present in the
// file override; absent fields keep the defaults.
func mergeFileConfig(cfg *AppConfig, file *FileConfig) {
	if file == nil {
		return
	}

	if file.DataDir != "" {
		cfg.DataDir = file.DataDir
	}
	if file.ContentDir != "" {
		cfg.ContentDir = file.ContentDir
	}
	if file.WebDir != "" {
		cfg.WebDir = file.WebDir
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.ReadyStrict != nil {
		cfg.ReadyStrict = *file.ReadyStrict
	}

	if s := file.Server; s != nil {
		if s.ListenAddr != "" {
			cfg.APIListenAddr = s.ListenAddr
		}
		if s.ReadTimeout != nil {
			cfg.Server.ReadTimeout = *s.ReadTimeout
		}
		if s.WriteTimeout != nil {
			cfg.Server.WriteTimeout = *s.WriteTimeout
		}
		if s.IdleTimeout != nil {
			cfg.Server.IdleTimeout = *s.IdleTimeout
		}
		if s.MaxHeaderBytes != nil {
			cfg.Server.MaxHeaderBytes = *s.MaxHeaderBytes
		}
		if s.ShutdownTimeout != nil {
			cfg.Server.ShutdownTimeout = *s.ShutdownTimeout
		}
	}

	if m := file.Metrics; m != nil {
		if m.Enabled != nil {
			cfg.MetricsEnabled = *m.Enabled
		}
		if m.ListenAddr != "" {
			cfg.MetricsListenAddr = m.ListenAddr
		}
	}

	if s := file.Security; s != nil {
		if s.APIToken != "" {
			cfg.APIToken = s.APIToken
		}
		if s.AllowAnonymous != nil {
			cfg.AllowAnonymous = *s.AllowAnonymous
		}
		if len(s.AllowedOrigins) > 0 {
			cfg.AllowedOrigins = s.AllowedOrigins
		}
		if len(s.TrustedProxies) > 0 {
			cfg.TrustedProxies = s.TrustedProxies
		}
		if s.CSP != "" {
			cfg.CSP = s.CSP
		}
	}

	if c := file.Cache; c != nil {
		if c.Backend != "" {
			cfg.Cache.Backend = c.Backend
		}
		if c.TTL != nil {
			cfg.Cache.TTL = *c.TTL
		}
		if r := c.Redis; r != nil {
			if r.Addr != "" {
				cfg.Cache.Redis.Addr = r.Addr
			}
			if r.Password != "" {
				cfg.Cache.Redis.Password = r.Password
			}
			if r.DB != nil {
				cfg.Cache.Redis.DB = *r.DB
			}
		}
	}

	if c := file.Contact; c != nil {
		if c.Store != "" {
			cfg.Contact.Store = c.Store
		}
		if c.Path != "" {
			cfg.Contact.Path = c.Path
		}
		if c.RatePerMinute != nil {
			cfg.Contact.RatePerMinute = *c.RatePerMinute
		}
		if c.MaxBodyBytes != nil {
			cfg.Contact.MaxBodyBytes = *c.MaxBodyBytes
		}
		if c.IdempotencyTTL != nil {
			cfg.Contact.IdempotencyTTL = *c.IdempotencyTTL
		}
	}

	if r := file.RateLimit; r != nil {
		if r.Enabled != nil {
			cfg.RateLimit.Enabled = *r.Enabled
		}
		if r.RequestsPerMinute != nil {
			cfg.RateLimit.RequestsPerMinute = *r.RequestsPerMinute
		}
		if r.Burst != nil {
			cfg.RateLimit.Burst = *r.Burst
		}
	}

	if t := file.Tracing; t != nil {
		if t.Enabled != nil {
			cfg.Tracing.Enabled = *t.Enabled
		}
		if t.Exporter != "" {
			cfg.Tracing.Exporter = t.Exporter
		}
		if t.Endpoint != "" {
			cfg.Tracing.Endpoint = t.Endpoint
		}
		if t.SampleRate != nil {
			cfg.Tracing.SampleRate = *t.SampleRate
		}
		if t.Insecure != nil {
			cfg.Tracing.Insecure = *t.Insecure
		}
	}
}

// mergeEnvConfig overlays environment variables onto cfg. ENV wins over
// both file and defaults.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.APIListenAddr = l.envString("RRISH_LISTEN", cfg.APIListenAddr)
	cfg.MetricsEnabled = l.envBool("RRISH_METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.MetricsListenAddr = l.envString("RRISH_METRICS_LISTEN", cfg.MetricsListenAddr)
	cfg.DataDir = l.envString("RRISH_DATA", cfg.DataDir)
	cfg.ContentDir = l.envString("RRISH_CONTENT_DIR", cfg.ContentDir)
	cfg.WebDir = l.envString("RRISH_WEB_DIR", cfg.WebDir)
	cfg.LogLevel = l.envString("RRISH_LOG_LEVEL", cfg.LogLevel)

	cfg.APIToken = l.envString("RRISH_API_TOKEN", cfg.APIToken)
	cfg.AllowAnonymous = l.envBool("RRISH_ALLOW_ANONYMOUS", cfg.AllowAnonymous)
	cfg.AllowedOrigins = l.envStrings("RRISH_ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.TrustedProxies = l.envStrings("RRISH_TRUSTED_PROXIES", cfg.TrustedProxies)
	cfg.CSP = l.envString("RRISH_CSP", cfg.CSP)

	cfg.Cache.Backend = l.envString("RRISH_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.TTL = l.envDuration("RRISH_CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.Redis.Addr = l.envString("RRISH_REDIS_ADDR", cfg.Cache.Redis.Addr)
	cfg.Cache.Redis.Password = l.envString("RRISH_REDIS_PASSWORD", cfg.Cache.Redis.Password)
	cfg.Cache.Redis.DB = l.envInt("RRISH_REDIS_DB", cfg.Cache.Redis.DB)

	cfg.Contact.Store = l.envString("RRISH_CONTACT_STORE", cfg.Contact.Store)
	cfg.Contact.Path = l.envString("RRISH_CONTACT_STORE_PATH", cfg.Contact.Path)
	cfg.Contact.RatePerMinute = l.envInt("RRISH_CONTACT_RATE_PER_MINUTE", cfg.Contact.RatePerMinute)
	cfg.Contact.MaxBodyBytes = int64(l.envInt("RRISH_CONTACT_MAX_BODY_BYTES", int(cfg.Contact.MaxBodyBytes)))
	cfg.Contact.IdempotencyTTL = l.envDuration("RRISH_CONTACT_IDEMPOTENCY_TTL", cfg.Contact.IdempotencyTTL)

	cfg.RateLimit.Enabled = l.envBool("RRISH_RATELIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.RequestsPerMinute = l.envInt("RRISH_RATELIMIT_RPM", cfg.RateLimit.RequestsPerMinute)
	cfg.RateLimit.Burst = l.envInt("RRISH_RATELIMIT_BURST", cfg.RateLimit.Burst)

	cfg.Tracing.Enabled = l.envBool("RRISH_TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = l.envString("RRISH_TRACING_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.Endpoint = l.envString("RRISH_TRACING_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.SampleRate = l.envFloat("RRISH_TRACING_SAMPLE_RATE", cfg.Tracing.SampleRate)
	cfg.Tracing.Insecure = l.envBool("RRISH_TRACING_INSECURE", cfg.Tracing.Insecure)

	cfg.ReadyStrict = l.envBool("RRISH_READY_STRICT", cfg.ReadyStrict)
}
