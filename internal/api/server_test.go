// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rishabh7g/rrishmusic/internal/cache"
	"github.com/rishabh7g/rrishmusic/internal/config"
	"github.com/rishabh7g/rrishmusic/internal/contact"
	"github.com/rishabh7g/rrishmusic/internal/content"
	"github.com/rishabh7g/rrishmusic/internal/health"
)

const testToken = "test-admin-token"

// newTestServer wires a Server over embedded content, a memory contact
// store and a memory cache.
func newTestServer(t *testing.T, mutate func(*config.AppConfig)) *Server {
	t.Helper()

	cfg := config.AppConfig{
		APIToken: testToken,
		Cache: config.CacheConfig{
			Backend: "memory",
			TTL:     time.Minute,
		},
		Contact: config.ContactConfig{
			Store:          "memory",
			RatePerMinute:  0, // rate limit off unless a test opts in
			MaxBodyBytes:   64 << 10,
			IdempotencyTTL: time.Hour,
		},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	store := content.NewStore("")
	require.NoError(t, store.Load())

	c := cache.NewMemoryCache("test", 0)

	contactSvc := contact.NewService(contact.NewMemoryStore(), nil, cfg.Contact.IdempotencyTTL, zerolog.Nop())

	hm := health.NewManager("test", cfg.ReadyStrict)

	webFS := fstest.MapFS{
		"index.html":    {Data: []byte("<html>shell</html>")},
		"assets/app.js": {Data: []byte("// js")},
	}

	srv, err := New(Deps{
		Config:  cfg,
		Content: store,
		Contact: contactSvc,
		Cache:   c,
		Health:  hm,
		Logger:  zerolog.Nop(),
		WebFS:   webFS,
	})
	require.NoError(t, err)
	return srv
}

func doRequest(t *testing.T, srv *Server, method, target, body string, set func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if set != nil {
		set(req)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func asAdmin(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+testToken)
}
