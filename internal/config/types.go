// SPDX-License-Identifier: MIT

package config

import "time"

// FileConfig represents the YAML configuration structure. Pointer fields
// distinguish "absent" from zero so file values only override defaults
// when actually set.
type FileConfig struct {
	DataDir    string `yaml:"dataDir,omitempty"`
	ContentDir string `yaml:"contentDir,omitempty"`
	WebDir     string `yaml:"webDir,omitempty"`
	LogLevel   string `yaml:"logLevel,omitempty"`

	ReadyStrict *bool `yaml:"readyStrict,omitempty"`

	Server    *ServerFileConfig    `yaml:"server,omitempty"`
	Metrics   *MetricsFileConfig   `yaml:"metrics,omitempty"`
	Security  *SecurityFileConfig  `yaml:"security,omitempty"`
	Cache     *CacheFileConfig     `yaml:"cache,omitempty"`
	Contact   *ContactFileConfig   `yaml:"contact,omitempty"`
	RateLimit *RateLimitFileConfig `yaml:"rateLimit,omitempty"`
	Tracing   *TracingFileConfig   `yaml:"tracing,omitempty"`
}

// ServerFileConfig holds the HTTP server section of the YAML file.
type ServerFileConfig struct {
	ListenAddr      string         `yaml:"listenAddr,omitempty"`
	ReadTimeout     *time.Duration `yaml:"readTimeout,omitempty"`
	WriteTimeout    *time.Duration `yaml:"writeTimeout,omitempty"`
	IdleTimeout     *time.Duration `yaml:"idleTimeout,omitempty"`
	MaxHeaderBytes  *int           `yaml:"maxHeaderBytes,omitempty"`
	ShutdownTimeout *time.Duration `yaml:"shutdownTimeout,omitempty"`
}

// MetricsFileConfig holds the metrics listener section.
type MetricsFileConfig struct {
	Enabled    *bool  `yaml:"enabled,omitempty"`
	ListenAddr string `yaml:"listenAddr,omitempty"`
}

// SecurityFileConfig holds tokens, CORS and proxy trust.
type SecurityFileConfig struct {
	APIToken       string   `yaml:"apiToken,omitempty"`
	AllowAnonymous *bool    `yaml:"allowAnonymous,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
	TrustedProxies []string `yaml:"trustedProxies,omitempty"`
	CSP            string   `yaml:"csp,omitempty"`
}

// CacheFileConfig holds the cache section.
type CacheFileConfig struct {
	Backend string           `yaml:"backend,omitempty"`
	TTL     *time.Duration   `yaml:"ttl,omitempty"`
	Redis   *RedisFileConfig `yaml:"redis,omitempty"`
}

// RedisFileConfig holds redis connection details.
type RedisFileConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       *int   `yaml:"db,omitempty"`
}

// ContactFileConfig holds the contact intake section.
type ContactFileConfig struct {
	Store          string         `yaml:"store,omitempty"`
	Path           string         `yaml:"path,omitempty"`
	RatePerMinute  *int           `yaml:"ratePerMinute,omitempty"`
	MaxBodyBytes   *int64         `yaml:"maxBodyBytes,omitempty"`
	IdempotencyTTL *time.Duration `yaml:"idempotencyTTL,omitempty"`
}

// RateLimitFileConfig holds the global API rate limiter section.
type RateLimitFileConfig struct {
	Enabled           *bool `yaml:"enabled,omitempty"`
	RequestsPerMinute *int  `yaml:"requestsPerMinute,omitempty"`
	Burst             *int  `yaml:"burst,omitempty"`
}

// TracingFileConfig holds the OpenTelemetry section.
type TracingFileConfig struct {
	Enabled    *bool    `yaml:"enabled,omitempty"`
	Exporter   string   `yaml:"exporter,omitempty"`
	Endpoint   string   `yaml:"endpoint,omitempty"`
	SampleRate *float64 `yaml:"sampleRate,omitempty"`
	Insecure   *bool    `yaml:"insecure,omitempty"`
}
