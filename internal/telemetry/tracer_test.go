// SPDX-License-Identifier: MIT

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, p)

	// Shutdown on a noop provider is a no-op.
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderRejectsUnknownExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		Enabled:      true,
		ServiceName:  "rrishmusic",
		ExporterType: "udp",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported exporter type")
}

func TestHTTPAttributes(t *testing.T) {
	attrs := HTTPAttributes("GET", "/api/v1/packages", "http://localhost/api/v1/packages", 0)
	assert.Len(t, attrs, 3, "status code 0 must be omitted")

	attrs = HTTPAttributes("GET", "/api/v1/packages", "http://localhost/api/v1/packages", 200)
	assert.Len(t, attrs, 4)
}

func TestTracerReturnsNamedTracer(t *testing.T) {
	tr := Tracer("rrishmusic")
	require.NotNil(t, tr)

	_, span := tr.Start(context.Background(), "test")
	span.End()
}
