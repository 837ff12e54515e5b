// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rishabh7g/rrishmusic/internal/contact"
	rlog "github.com/rishabh7g/rrishmusic/internal/log"
)

const defaultAdminPageSize = 50

// handleAdminListContact lists stored submissions newest first.
func (s *Server) handleAdminListContact(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseNonNegative(q.Get("limit"), defaultAdminPageSize)
	if err != nil {
		writeBadRequest(w, "limit must be a non-negative integer")
		return
	}
	offset, err := parseNonNegative(q.Get("offset"), 0)
	if err != nil {
		writeBadRequest(w, "offset must be a non-negative integer")
		return
	}

	subs, err := s.contact.List(r.Context(), limit, offset)
	if err != nil {
		logger := rlog.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Err(err).
			Str("event", "admin.contact_list_failed").
			Msg("failed to list submissions")
		writeInternalError(w)
		return
	}

	total, err := s.contact.Count(r.Context())
	if err != nil {
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

func (s *Server) handleAdminDeleteContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.contact.Delete(r.Context(), id); err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			writeNotFound(w)
			return
		}
		logger := rlog.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Err(err).
			Str("event", "admin.contact_delete_failed").
			Str(rlog.FieldSubmissionID, id).
			Msg("failed to delete submission")
		writeInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAdminReload triggers a content reload. A failed reload keeps the
// previous snapshot and reports the error.
func (s *Server) handleAdminReload(w http.ResponseWriter, r *http.Request) {
	logger := rlog.WithComponentFromContext(r.Context(), "api")

	if err := s.content.Reload(r.Context()); err != nil {
		logger.Error().
			Err(err).
			Str("event", "admin.reload_failed").
			Msg("content reload failed, previous snapshot kept")
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	snap := s.content.Snapshot()
	logger.Info().
		Str("event", "admin.reloaded").
		Msg("content reloaded")
	writeJSON(w, http.StatusOK, map[string]any{
		"reloadedAt": snap.LoadedAt,
		"counts":     snap.Counts(),
	})
}

func (s *Server) handleAdminCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.Stats())
}
