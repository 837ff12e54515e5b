// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	rlog "github.com/rishabh7g/rrishmusic/internal/log"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds inbound ids so a hostile client cannot inflate
// log lines.
const maxRequestIDLen = 64

// RequestID assigns every request a correlation id: an inbound
// X-Request-ID is kept (truncated if oversized), otherwise a UUID is
// generated. The id is echoed on the response and stored in the context
// for the logging middleware.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		} else if len(id) > maxRequestIDLen {
			id = id[:maxRequestIDLen]
		}

		ctx := rlog.ContextWithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
