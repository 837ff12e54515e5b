// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rishabh7g/rrishmusic/internal/metrics"
	"github.com/rishabh7g/rrishmusic/internal/pricing"
	"github.com/rishabh7g/rrishmusic/internal/stats"
)

// handleQuote runs the pricing calculator for a package and session
// count. Results are cached; concurrent misses for the same key compute
// once.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap := s.content.Snapshot()
	pkg, ok := snap.Package(id)
	if !ok {
		metrics.IncQuote("unknown_package")
		writeNotFound(w)
		return
	}

	// No sessions parameter means the package's own size.
	sessions := pkg.Sessions
	if raw := r.URL.Query().Get("sessions"); raw != "" {
		var err error
		sessions, err = strconv.Atoi(raw)
		if err != nil {
			metrics.IncQuote("invalid_sessions")
			writeBadRequest(w, "sessions must be an integer")
			return
		}
	}

	key := fmt.Sprintf("quote:%s:%d", id, sessions)
	v, err := s.loader.Get(key, func() (any, error) {
		q, err := pricing.Calculate(pkg, sessions, snap.Tiers)
		if err != nil {
			return nil, err
		}
		return q, nil
	})
	if err != nil {
		metrics.IncQuote("invalid_sessions")
		switch {
		case errors.Is(err, pricing.ErrInvalidSessions):
			writeBadRequest(w, "sessions must be at least 1")
		case errors.Is(err, pricing.ErrTooManySessions):
			writeBadRequest(w, fmt.Sprintf("sessions must be at most %d", pricing.MaxSessions))
		default:
			writeInternalError(w)
		}
		return
	}

	metrics.RecordQuoteSuccess(id)
	writeJSON(w, http.StatusOK, v)
}

// statsCacheKey is stable across requests; content reloads clear it.
const statsCacheKey = "stats:v1"

// handleTestimonialStats serves the aggregated testimonial statistics.
func (s *Server) handleTestimonialStats(w http.ResponseWriter, r *http.Request) {
	snap := s.content.Snapshot()

	v, err := s.loader.Get(statsCacheKey, func() (any, error) {
		return stats.Aggregate(snap.Testimonials), nil
	})
	if err != nil {
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, v)
}
