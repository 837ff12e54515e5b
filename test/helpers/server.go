// SPDX-License-Identifier: MIT

// Package helpers provides common test utilities for integration and
// contract tests. All helper functions use t.Helper() so failures point
// at the calling test.
package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rishabh7g/rrishmusic/internal/api"
	"github.com/rishabh7g/rrishmusic/internal/cache"
	"github.com/rishabh7g/rrishmusic/internal/config"
	"github.com/rishabh7g/rrishmusic/internal/contact"
	"github.com/rishabh7g/rrishmusic/internal/content"
	"github.com/rishabh7g/rrishmusic/internal/health"
)

// TestServerOptions configures the test server setup.
type TestServerOptions struct {
	// APIToken protects the admin surface; empty leaves it disabled.
	APIToken string

	// ContentDir overrides the embedded content records.
	ContentDir string

	// ContactStore selects the intake backend; defaults to memory.
	ContactStore string

	// ContactPath is the store location for sqlite/badger backends.
	ContactPath string

	// ContactRatePerMinute enables the per-IP intake limit when positive.
	ContactRatePerMinute int

	// Mutate edits the resolved config before the server is built.
	Mutate func(*config.AppConfig)
}

// TestServer wraps a running httptest server with its wiring.
type TestServer struct {
	Server  *httptest.Server
	Config  config.AppConfig
	API     *api.Server
	Content *content.Store
	Contact *contact.Service
	Cache   cache.Cache

	store contact.Store
}

// Close shuts the server down and releases the contact store.
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
	if ts.store != nil {
		_ = ts.store.Close()
	}
}

// NewTestServer builds the full HTTP stack over temp state.
//
// Usage:
//
//	ts := helpers.NewTestServer(t, helpers.TestServerOptions{
//	    APIToken: "test-token",
//	})
//	defer ts.Close()
func NewTestServer(t *testing.T, opts TestServerOptions) *TestServer {
	t.Helper()

	if opts.ContactStore == "" {
		opts.ContactStore = "memory"
	}

	cfg := config.AppConfig{
		APIToken:   opts.APIToken,
		ContentDir: opts.ContentDir,
		DataDir:    t.TempDir(),
		Cache: config.CacheConfig{
			Backend: "memory",
			TTL:     time.Minute,
		},
		Contact: config.ContactConfig{
			Store:          opts.ContactStore,
			Path:           opts.ContactPath,
			RatePerMinute:  opts.ContactRatePerMinute,
			MaxBodyBytes:   64 << 10,
			IdempotencyTTL: time.Hour,
		},
	}
	if opts.Mutate != nil {
		opts.Mutate(&cfg)
	}

	store := content.NewStore(cfg.ContentDir)
	require.NoError(t, store.Load(), "content must load")

	contactStore, err := contact.OpenStore(cfg.Contact.Store, cfg.Contact.Path)
	require.NoError(t, err, "contact store must open")

	contactSvc := contact.NewService(contactStore, nil, cfg.Contact.IdempotencyTTL, zerolog.Nop())

	c := cache.NewMemoryCache("test", 0)
	hm := health.NewManager("test", cfg.ReadyStrict)

	srv, err := api.New(api.Deps{
		Config:  cfg,
		Content: store,
		Contact: contactSvc,
		Cache:   c,
		Health:  hm,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err, "api server must build")

	return &TestServer{
		Server:  httptest.NewServer(srv.Handler()),
		Config:  cfg,
		API:     srv,
		Content: store,
		Contact: contactSvc,
		Cache:   c,
		store:   contactStore,
	}
}
