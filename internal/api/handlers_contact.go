// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rishabh7g/rrishmusic/internal/contact"
	rlog "github.com/rishabh7g/rrishmusic/internal/log"
	"github.com/rishabh7g/rrishmusic/internal/metrics"
)

// handleContactSubmit accepts a contact form submission. An optional
// Idempotency-Key header makes repeated posts return the original
// submission instead of creating duplicates.
func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	logger := rlog.WithComponentFromContext(r.Context(), "contact")
	cfg := s.config()

	clientIP := s.clientIP(r)

	s.mu.RLock()
	limiter := s.contactLimiter
	s.mu.RUnlock()
	if limiter != nil && !limiter.Allow(clientIP) {
		metrics.IncContactSubmission("rate_limited")
		writeTooManyRequests(w)
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "content type must be application/json"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, cfg.Contact.MaxBodyBytes)

	var payload contact.Payload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		metrics.IncContactSubmission("invalid")
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return
		}
		writeBadRequest(w, "malformed submission: "+err.Error())
		return
	}
	if dec.More() {
		metrics.IncContactSubmission("invalid")
		writeBadRequest(w, "unexpected trailing data")
		return
	}
	// Drain so keep-alive connections can be reused.
	_, _ = io.Copy(io.Discard, r.Body)

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	sub, created, err := s.contact.Submit(r.Context(), payload, clientIP, idemKey)
	if err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": verr.Reason,
				"field": verr.Field,
			})
			return
		}
		logger.Error().
			Err(err).
			Str("event", "contact.submit_failed").
			Msg("failed to store contact submission")
		writeInternalError(w)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]any{
		"id":         sub.ID,
		"receivedAt": sub.ReceivedAt,
	})
}
