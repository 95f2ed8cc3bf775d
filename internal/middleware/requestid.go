package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/inkpost/inkpost/internal/ctxkeys"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns every request a UUID, honoring one supplied by an
// upstream proxy, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := ctxkeys.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
