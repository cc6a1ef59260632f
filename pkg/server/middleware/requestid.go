package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/identity-intake/pkg/logging"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID reuses the caller's X-Request-ID or assigns a new one, echoes
// it on the response and stores it in the request context for logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}
