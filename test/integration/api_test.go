// SPDX-License-Identifier: MIT

//go:build integration

// Package integration exercises the full HTTP stack end to end: real
// router, real stores, real cache, over a live listener.
package integration

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishabh7g/rrishmusic/test/helpers"
)

const adminToken = "integration-token"

func TestQuoteFlow(t *testing.T) {
	ts := helpers.NewTestServer(t, helpers.TestServerOptions{})
	defer ts.Close()

	// Discover a package, then price it at its own size and at a
	// larger count that crosses a discount tier.
	var listing struct {
		Packages []struct {
			ID              string `json:"id"`
			Sessions        int    `json:"sessions"`
			PricePerSession int    `json:"pricePerSession"`
		} `json:"packages"`
		Tiers []struct {
			MinSessions int `json:"minSessions"`
			Percent     int `json:"percent"`
		} `json:"tiers"`
	}
	resp := helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
		Method: http.MethodGet,
		Path:   "/api/v1/packages",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	helpers.DecodeJSON(t, resp, &listing)
	require.NotEmpty(t, listing.Packages)
	require.NotEmpty(t, listing.Tiers)

	pkg := listing.Packages[0]

	var quote struct {
		PackageID  string `json:"packageId"`
		Sessions   int    `json:"sessions"`
		BaseAmount int    `json:"baseAmount"`
		Total      int    `json:"total"`
		Display    string `json:"display"`
	}
	resp = helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/v1/packages/%s/quote", pkg.ID),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	helpers.DecodeJSON(t, resp, &quote)

	assert.Equal(t, pkg.ID, quote.PackageID)
	assert.Equal(t, pkg.Sessions, quote.Sessions)
	assert.Equal(t, pkg.Sessions*pkg.PricePerSession, quote.BaseAmount)
	assert.LessOrEqual(t, quote.Total, quote.BaseAmount)
	assert.Contains(t, quote.Display, "$", "display string must be formatted currency")

	// Crossing the largest tier must apply a discount.
	largest := listing.Tiers[len(listing.Tiers)-1]
	if largest.Percent > 0 {
		resp = helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
			Method: http.MethodGet,
			Path:   fmt.Sprintf("/api/v1/packages/%s/quote?sessions=%d", pkg.ID, largest.MinSessions),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		helpers.DecodeJSON(t, resp, &quote)
		assert.Less(t, quote.Total, quote.BaseAmount, "tier discount must reduce the total")
	}
}

func TestContactLifecycle(t *testing.T) {
	ts := helpers.NewTestServer(t, helpers.TestServerOptions{
		APIToken:     adminToken,
		ContactStore: "sqlite",
		ContactPath:  filepath.Join(t.TempDir(), "contact.db"),
	})
	defer ts.Close()

	payload := `{"name":"End ToEnd","email":"e2e@example.com","service":"lessons","message":"Full lifecycle submission over the live listener."}`

	// Submit.
	resp := helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
		Method: http.MethodPost,
		Path:   "/api/v1/contact",
		Body:   strings.NewReader(payload),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	helpers.DecodeJSON(t, resp, &created)
	require.NotEmpty(t, created.ID)

	// Admin sees it.
	resp = helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
		Method: http.MethodGet,
		Path:   "/api/v1/admin/contact",
		Token:  adminToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Submissions []struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"submissions"`
		Total int `json:"total"`
	}
	helpers.DecodeJSON(t, resp, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Submissions[0].ID)
	assert.Equal(t, "e2e@example.com", list.Submissions[0].Email)

	// Admin deletes it.
	resp = helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
		Method: http.MethodDelete,
		Path:   "/api/v1/admin/contact/" + created.ID,
		Token:  adminToken,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
		Method: http.MethodGet,
		Path:   "/api/v1/admin/contact",
		Token:  adminToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	helpers.DecodeJSON(t, resp, &list)
	assert.Zero(t, list.Total)
}

func TestAdminAuthFailClosed(t *testing.T) {
	t.Run("no token configured", func(t *testing.T) {
		ts := helpers.NewTestServer(t, helpers.TestServerOptions{})
		defer ts.Close()

		resp := helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
			Method: http.MethodGet,
			Path:   "/api/v1/admin/contact",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("wrong token", func(t *testing.T) {
		ts := helpers.NewTestServer(t, helpers.TestServerOptions{APIToken: adminToken})
		defer ts.Close()

		resp := helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
			Method: http.MethodGet,
			Path:   "/api/v1/admin/contact",
			Token:  "not-the-token",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestContactRateLimitOverLiveListener(t *testing.T) {
	ts := helpers.NewTestServer(t, helpers.TestServerOptions{
		ContactRatePerMinute: 2,
	})
	defer ts.Close()

	payload := `{"name":"Rate Limit","email":"rate@example.com","service":"general","message":"Poking the per-IP intake budget repeatedly."}`

	var saw429 bool
	for i := 0; i < 5; i++ {
		resp := helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
			Method: http.MethodPost,
			Path:   "/api/v1/contact",
			Body:   strings.NewReader(payload),
		})
		if resp.StatusCode == http.StatusTooManyRequests {
			saw429 = true
			assert.NotEmpty(t, resp.Header.Get("Retry-After"))
		}
		_ = resp.Body.Close()
	}
	assert.True(t, saw429, "burst past the contact budget must hit 429")
}

func TestHealthAndReadiness(t *testing.T) {
	ts := helpers.NewTestServer(t, helpers.TestServerOptions{})
	defer ts.Close()

	resp := helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
		Method: http.MethodGet,
		Path:   "/healthz",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2 := helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
		Method: http.MethodGet,
		Path:   "/readyz",
	})
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}
