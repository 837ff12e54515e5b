// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// HTTPAttributes builds span attributes for an HTTP request. statusCode 0
// means the response has not been written yet.
func HTTPAttributes(method, path, url string, statusCode int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.HTTPMethodKey.String(method),
		semconv.HTTPTargetKey.String(path),
		semconv.HTTPURLKey.String(url),
	}
	if statusCode > 0 {
		attrs = append(attrs, semconv.HTTPStatusCodeKey.Int(statusCode))
	}
	return attrs
}

// ContentAttributes describes a content snapshot in spans around reloads.
func ContentAttributes(records int, source string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("content.records", records),
		attribute.String("content.source", source),
	}
}
