// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"

	"github.com/rishabh7g/rrishmusic/internal/version"
)

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
	})
}

// handleStatus reports uptime, content counts, the last reload time and
// cache statistics.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.content.Snapshot()

	writeJSON(w, http.StatusOK, map[string]any{
		"version":    version.Version,
		"uptime":     time.Since(s.startedAt).Round(time.Second).String(),
		"content":    snap.Counts(),
		"lastReload": snap.LoadedAt,
		"cache":      s.cache.Stats(),
	})
}
