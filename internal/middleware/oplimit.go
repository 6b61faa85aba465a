package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/service"
)

// OperationLimit enforces the rolling-window limit for one money operation.
// It must run after JWTMiddleware.
func OperationLimit(guard service.GuardService, operation string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			allowed, retry := guard.CheckRateLimit(r.Context(), userID, operation, limit, window)
			if !allowed {
				secs := int(math.Ceil(retry.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				http.Error(w, "rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
