// SPDX-License-Identifier: MIT

package config

import "time"

// AppConfig is the fully resolved runtime configuration of the daemon.
// It is produced by Loader.Load with precedence ENV > file > defaults
// and is immutable after load; hot reloads swap the whole value.
type AppConfig struct {
	// Version is stamped from the binary at load time.
	Version string

	// APIListenAddr is the address of the public HTTP API (e.g. ":8080").
	APIListenAddr string

	// MetricsEnabled controls the separate Prometheus listener.
	MetricsEnabled bool

	// MetricsListenAddr is the address of the metrics listener (e.g. ":9090").
	MetricsListenAddr string

	// DataDir is the writable state directory (contact store, exports).
	// It is made absolute during load.
	DataDir string

	// ContentDir optionally overrides the embedded content records with
	// JSON files on disk. Empty means embedded content only.
	ContentDir string

	// WebDir optionally overrides the embedded site assets. Empty means
	// the embedded bundle is served.
	WebDir string

	// LogLevel is the zerolog level name ("debug", "info", ...).
	LogLevel string

	// APIToken protects the admin surface. Empty token disables admin
	// routes unless AllowAnonymous is set.
	APIToken string

	// AllowAnonymous opens the admin surface without a token. Only
	// meant for local development.
	AllowAnonymous bool

	// AllowedOrigins is the CORS allow-list. Empty means same-origin only.
	AllowedOrigins []string

	// TrustedProxies lists CIDRs whose X-Forwarded-For is honoured for
	// client IP extraction.
	TrustedProxies []string

	// CSP is the Content-Security-Policy header value served with the site.
	CSP string

	Cache     CacheConfig
	Contact   ContactConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig

	// ReadyStrict makes /readyz fail while any health check is degraded.
	ReadyStrict bool

	Server ServerRuntimeConfig
}

// CacheConfig selects and tunes the response/content cache.
type CacheConfig struct {
	// Backend is one of "memory", "redis" or "none".
	Backend string

	// TTL is the default entry lifetime.
	TTL time.Duration

	Redis RedisConfig
}

// RedisConfig carries connection details for the redis cache backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ContactConfig tunes the contact intake pipeline.
type ContactConfig struct {
	// Store is one of "memory", "sqlite" or "badger".
	Store string

	// Path is the store location. Relative paths are resolved under DataDir.
	Path string

	// RatePerMinute limits submissions per client IP. Zero disables the limit.
	RatePerMinute int

	// MaxBodyBytes caps the accepted submission payload.
	MaxBodyBytes int64

	// IdempotencyTTL is how long an Idempotency-Key replays the stored
	// response instead of creating a duplicate submission.
	IdempotencyTTL time.Duration
}

// RateLimitConfig tunes the global API rate limiter.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

// TracingConfig enables OpenTelemetry export.
type TracingConfig struct {
	Enabled bool

	// Exporter is "grpc" or "http".
	Exporter string

	// Endpoint is the OTLP collector address (host:port).
	Endpoint string

	// SampleRate in [0.0, 1.0]; 1.0 samples every request.
	SampleRate float64

	// Insecure disables TLS towards the collector.
	Insecure bool
}

// ServerRuntimeConfig holds the HTTP server runtime knobs shared by the
// API and metrics listeners.
type ServerRuntimeConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	ShutdownTimeout time.Duration
}

const (
	defaultAPIListenAddr     = ":8080"
	defaultMetricsListenAddr = ":9090"
	defaultDataDir           = "/data"
	defaultLogLevel          = "info"
	defaultCSP               = "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'"

	defaultCacheBackend = "memory"
	defaultCacheTTL     = 5 * time.Minute

	defaultContactStore          = "sqlite"
	defaultContactPath           = "contact.db"
	defaultContactRatePerMinute  = 5
	defaultContactMaxBodyBytes   = 64 << 10 // 64 KiB
	defaultContactIdempotencyTTL = 24 * time.Hour

	defaultRateLimitRPM   = 300
	defaultRateLimitBurst = 50

	defaultTracingExporter   = "grpc"
	defaultTracingEndpoint   = "localhost:4317"
	defaultTracingSampleRate = 0.1
)

// defaultConfig returns the built-in defaults applied before file and ENV
// overrides.
func defaultConfig() AppConfig {
	return AppConfig{
		APIListenAddr:     defaultAPIListenAddr,
		MetricsEnabled:    true,
		MetricsListenAddr: defaultMetricsListenAddr,
		DataDir:           defaultDataDir,
		LogLevel:          defaultLogLevel,
		CSP:               defaultCSP,
		Cache: CacheConfig{
			Backend: defaultCacheBackend,
			TTL:     defaultCacheTTL,
		},
		Contact: ContactConfig{
			Store:          defaultContactStore,
			Path:           defaultContactPath,
			RatePerMinute:  defaultContactRatePerMinute,
			MaxBodyBytes:   defaultContactMaxBodyBytes,
			IdempotencyTTL: defaultContactIdempotencyTTL,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: defaultRateLimitRPM,
			Burst:             defaultRateLimitBurst,
		},
		Tracing: TracingConfig{
			Exporter:   defaultTracingExporter,
			Endpoint:   defaultTracingEndpoint,
			SampleRate: defaultTracingSampleRate,
		},
		Server: defaultServerRuntimeConfig(),
	}
}
