// SPDX-License-Identifier: MIT

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webRequestsDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_web_requests_denied_total",
		Help: "Site asset requests denied by the file server, by reason",
	}, []string{"reason"}) // reason=method_not_allowed|path_escape|internal_error

	webIndexFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rrish_web_index_fallbacks_total",
		Help: "Requests served the SPA shell instead of a concrete asset",
	})
)

func recordWebRequestDenied(reason string) { webRequestsDenied.WithLabelValues(reason).Inc() }
func recordWebIndexFallback()              { webIndexFallbacks.Inc() }
