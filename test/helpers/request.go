// SPDX-License-Identifier: MIT

package helpers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequestOptions configures HTTP request creation.
type RequestOptions struct {
	Method      string
	Path        string
	Body        io.Reader
	Token       string
	ExtraHeader map[string]string
}

// DoRequest creates and executes an HTTP request with common test
// settings. Admin tokens are sent as a bearer token; JSON bodies get the
// right Content-Type automatically.
//
// Usage:
//
//	resp := helpers.DoRequest(t, ts.Server.URL, helpers.RequestOptions{
//	    Method: http.MethodGet,
//	    Path:   "/api/v1/packages",
//	})
//	defer resp.Body.Close()
func DoRequest(t *testing.T, baseURL string, opts RequestOptions) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(
		context.Background(),
		opts.Method,
		baseURL+opts.Path,
		opts.Body,
	)
	require.NoError(t, err, "failed to create HTTP request")

	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}
	for key, value := range opts.ExtraHeader {
		req.Header.Set(key, value)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "failed to execute HTTP request")

	return resp
}

// DecodeJSON reads and decodes a JSON response body into v.
func DecodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, json.Unmarshal(data, v), "failed to decode JSON: %s", data)
}
