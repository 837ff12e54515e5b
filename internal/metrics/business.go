// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Content catalogue metrics
	contentRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rrish_content_records",
		Help: "Number of content records loaded per kind (last successful load)",
	}, []string{"kind"}) // kind=packages|tiers|testimonials|venues|faqs

	contentReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_content_reloads_total",
		Help: "Content load and reload attempts by result",
	}, []string{"result"}) // result=success|failure

	contentRecordsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_content_records_skipped_total",
		Help: "Records dropped during content validation per file",
	}, []string{"file"})

	// Pricing metrics
	quotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_quotes_total",
		Help: "Quote calculations by outcome",
	}, []string{"outcome"}) // outcome=success|unknown_package|invalid_sessions

	quotesByPackage = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_quotes_by_package_total",
		Help: "Successful quote calculations per package",
	}, []string{"package"})

	// Testimonial statistics metrics
	statsAggregationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rrish_stats_aggregations_total",
		Help: "Total number of testimonial statistics aggregations",
	})

	statsTestimonialsConsidered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rrish_stats_testimonials_considered",
		Help: "Approved testimonials included in the last aggregation",
	})

	statsAggregationDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rrish_stats_aggregation_duration_seconds",
		Help:    "Time spent aggregating testimonial statistics",
		Buckets: prometheus.DefBuckets,
	})

	// Contact metrics
	contactSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_contact_submissions_total",
		Help: "Contact form submissions by outcome",
	}, []string{"outcome"}) // outcome=accepted|invalid|duplicate|rate_limited|error

	contactNotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_contact_notifications_total",
		Help: "Contact notification deliveries by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	contactPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rrish_contact_submissions_pending",
		Help: "Stored submissions not yet marked as handled",
	})

	// Cache metrics
	cacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_cache_requests_total",
		Help: "Cache lookups by cache name and outcome",
	}, []string{"cache", "outcome"}) // outcome=hit|miss|error

	cacheEvictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_cache_evictions_total",
		Help: "Entries evicted from caches by reason",
	}, []string{"cache", "reason"}) // reason=expired|invalidated

	cacheEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rrish_cache_entries",
		Help: "Current number of live entries per cache",
	}, []string{"cache"})

	// Rate limiting metrics
	rateLimitRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_ratelimit_rejections_total",
		Help: "Requests rejected by rate limiters per limiter name",
	}, []string{"limiter"}) // limiter=api|contact

	// Operational metrics
	configValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rrish_config_validation_errors_total",
		Help: "Total number of configuration validation errors",
	})

	configReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrish_config_reloads_total",
		Help: "Configuration reload attempts by result",
	}, []string{"result"}) // result=success|failure
)

func SetContentRecords(kind string, n int) { contentRecords.WithLabelValues(kind).Set(float64(n)) }
func RecordContentReload(result string)    { contentReloadsTotal.WithLabelValues(result).Inc() }
func IncContentRecordSkipped(file string)  { contentRecordsSkipped.WithLabelValues(file).Inc() }

func IncQuote(outcome string) { quotesTotal.WithLabelValues(outcome).Inc() }

func RecordQuoteSuccess(packageID string) {
	quotesTotal.WithLabelValues("success").Inc()
	quotesByPackage.WithLabelValues(packageID).Inc()
}

func RecordStatsAggregation(considered int, duration float64) {
	statsAggregationsTotal.Inc()
	statsTestimonialsConsidered.Set(float64(considered))
	statsAggregationDurationSeconds.Observe(duration)
}

func IncContactSubmission(outcome string) {
	contactSubmissionsTotal.WithLabelValues(outcome).Inc()
}
func IncContactNotification(outcome string) {
	contactNotificationsTotal.WithLabelValues(outcome).Inc()
}
func SetContactPending(n int) { contactPending.Set(float64(n)) }

func IncCacheRequest(cache, outcome string) {
	cacheRequestsTotal.WithLabelValues(cache, outcome).Inc()
}
func IncCacheEviction(cache, reason string) {
	cacheEvictionsTotal.WithLabelValues(cache, reason).Inc()
}
func AddCacheEvictions(cache, reason string, n int) {
	cacheEvictionsTotal.WithLabelValues(cache, reason).Add(float64(n))
}
func SetCacheEntries(cache string, n int) { cacheEntries.WithLabelValues(cache).Set(float64(n)) }

func IncRateLimitRejection(limiter string) {
	rateLimitRejectionsTotal.WithLabelValues(limiter).Inc()
}

func IncConfigValidationError() { configValidationErrors.Inc() }

func RecordConfigReload(result string) {
	configReloadsTotal.WithLabelValues(result).Inc()
}
