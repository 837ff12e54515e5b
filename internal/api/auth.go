// SPDX-License-Identifier: MIT

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	rlog "github.com/rishabh7g/rrishmusic/internal/log"
)

// requireAdmin guards the admin surface with a bearer token. With no
// token configured the surface fails closed unless anonymous access is
// explicitly enabled for local development.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := s.config()

		if cfg.APIToken == "" {
			if cfg.AllowAnonymous {
				next.ServeHTTP(w, r)
				return
			}
			logger := rlog.WithComponentFromContext(r.Context(), "api")
			logger.Warn().
				Str("event", "auth.denied").
				Str(rlog.FieldPath, r.URL.Path).
				Str("reason", "no_token_configured").
				Msg("admin surface disabled: no API token configured")
			writeForbidden(w)
			return
		}

		token := bearerToken(r)
		if token == "" {
			writeUnauthorized(w)
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.APIToken)) != 1 {
			logger := rlog.WithComponentFromContext(r.Context(), "api")
			logger.Warn().
				Str("event", "auth.denied").
				Str(rlog.FieldPath, r.URL.Path).
				Str("reason", "bad_token").
				Str("remote", s.clientIP(r)).
				Msg("rejected admin request")
			writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
