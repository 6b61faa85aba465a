package middleware

import (
	"crypto/subtle"
	"net/http"
)

const ServiceKeyHeader = "X-Service-Key"

// ServiceKeyMiddleware guards the server-to-server RPC surface. An empty
// configured key rejects every call.
func ServiceKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(ServiceKeyHeader)
			if key == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				http.Error(w, "invalid service key", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
