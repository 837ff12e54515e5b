// SPDX-License-Identifier: MIT

// Package api implements the public HTTP surface: JSON content endpoints,
// the pricing calculator, contact intake, the admin surface and the SPA
// asset server.
package api

import (
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rishabh7g/rrishmusic/internal/api/middleware"
	"github.com/rishabh7g/rrishmusic/internal/cache"
	"github.com/rishabh7g/rrishmusic/internal/config"
	"github.com/rishabh7g/rrishmusic/internal/contact"
	"github.com/rishabh7g/rrishmusic/internal/content"
	"github.com/rishabh7g/rrishmusic/internal/health"
	"github.com/rishabh7g/rrishmusic/internal/netutil"
	"github.com/rishabh7g/rrishmusic/internal/ratelimit"
)

// Deps carries everything the server needs. All fields except WebFS are
// required.
type Deps struct {
	Config  config.AppConfig
	Content *content.Store
	Contact *contact.Service
	Cache   cache.Cache
	Health  *health.Manager
	Logger  zerolog.Logger

	// WebFS is the embedded SPA bundle, rooted at the directory that
	// contains index.html. Nil disables the SPA routes.
	WebFS fs.FS
}

// Server is the HTTP API server.
type Server struct {
	mu  sync.RWMutex
	cfg config.AppConfig

	content *content.Store
	contact *contact.Service
	cache   cache.Cache
	loader  *cache.Loader
	health  *health.Manager
	logger  zerolog.Logger

	proxies        *netutil.TrustedProxies
	contactLimiter *ratelimit.Limiter

	webFS fs.FS

	router    chi.Router
	startedAt time.Time
}

// New creates a fully wired Server.
func New(deps Deps) (*Server, error) {
	if deps.Content == nil {
		return nil, fmt.Errorf("api: content store is required")
	}
	if deps.Contact == nil {
		return nil, fmt.Errorf("api: contact service is required")
	}
	if deps.Cache == nil {
		return nil, fmt.Errorf("api: cache is required")
	}
	if deps.Health == nil {
		return nil, fmt.Errorf("api: health manager is required")
	}

	proxies, err := netutil.ParseTrustedProxies(deps.Config.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("api: trusted proxies: %w", err)
	}

	s := &Server{
		cfg:       deps.Config,
		content:   deps.Content,
		contact:   deps.Contact,
		cache:     deps.Cache,
		loader:    cache.NewLoader(deps.Cache, deps.Config.Cache.TTL),
		health:    deps.Health,
		logger:    deps.Logger.With().Str("component", "api").Logger(),
		proxies:   proxies,
		webFS:     deps.WebFS,
		startedAt: time.Now(),
	}

	if deps.Config.Contact.RatePerMinute > 0 {
		s.contactLimiter = ratelimit.New("contact", ratelimit.PerMinute(deps.Config.Contact.RatePerMinute))
	}

	// Cached derivations go stale the moment content changes.
	s.content.OnReload(func(*content.Snapshot) {
		s.cache.Clear()
		s.logger.Debug().Str("event", "cache.invalidated").Msg("cache cleared after content reload")
	})

	s.router = s.buildRouter()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HealthManager exposes the health manager for checker registration.
func (s *Server) HealthManager() *health.Manager {
	return s.health
}

// ApplyConfig swaps in runtime-applicable settings from a config reload:
// admin token, anonymous flag, trusted proxies and the contact rate.
// Listener addresses and middleware wiring need a restart; the reload
// diff log calls those out.
func (s *Server) ApplyConfig(cfg config.AppConfig) {
	proxies, err := netutil.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("event", "config.apply_failed").
			Msg("keeping previous trusted proxies")
		proxies = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	oldRate := s.cfg.Contact.RatePerMinute
	s.cfg = cfg
	if proxies != nil {
		s.proxies = proxies
	}
	if cfg.Contact.RatePerMinute != oldRate {
		if cfg.Contact.RatePerMinute > 0 {
			s.contactLimiter = ratelimit.New("contact", ratelimit.PerMinute(cfg.Contact.RatePerMinute))
		} else {
			s.contactLimiter = nil
		}
	}
}

func (s *Server) config() config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// clientIP resolves the request's client IP honoring trusted proxies.
func (s *Server) clientIP(r *http.Request) string {
	s.mu.RLock()
	proxies := s.proxies
	s.mu.RUnlock()
	return proxies.ClientIP(r)
}

func (s *Server) buildRouter() chi.Router {
	cfg := s.config()

	r := middleware.NewRouter(middleware.StackConfig{
		EnableCORS:            true,
		AllowedOrigins:        cfg.AllowedOrigins,
		EnableSecurityHeaders: true,
		CSP:                   cfg.CSP,
		EnableMetrics:         true,
		TracingService:        tracingService(cfg),
		EnableLogging:         true,
		EnableRateLimit:       cfg.RateLimit.Enabled,
		RateLimitPerMinute:    cfg.RateLimit.RequestsPerMinute,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/packages", s.handleListPackages)
		r.Get("/packages/{id}", s.handleGetPackage)
		r.Get("/packages/{id}/quote", s.handleQuote)
		r.Get("/testimonials", s.handleListTestimonials)
		r.Get("/testimonials/stats", s.handleTestimonialStats)
		r.Get("/venues", s.handleListVenues)
		r.Get("/profile", s.handleProfile)
		r.Get("/faq", s.handleListFAQs)
		r.Post("/contact", s.handleContactSubmit)
		r.Get("/version", s.handleVersion)
		r.Get("/status", s.handleStatus)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/contact", s.handleAdminListContact)
			r.Delete("/contact/{id}", s.handleAdminDeleteContact)
			r.Post("/reload", s.handleAdminReload)
			r.Get("/cache/stats", s.handleAdminCacheStats)
		})
	})

	// Everything else is the client-rendered site.
	spa := s.spaHandler()
	r.NotFound(spa)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		if isAPIPath(r.URL.Path) {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		spa(w, r)
	})

	return r
}

func tracingService(cfg config.AppConfig) string {
	if !cfg.Tracing.Enabled {
		return ""
	}
	return "rrishmusic"
}
