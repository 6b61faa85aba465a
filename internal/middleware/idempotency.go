package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/service"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"

	maxIdempotentBody = 1 << 20
)

type capturingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *capturingWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Keys are scoped per user; requests without the header pass through.
func Idempotency(guard service.GuardService, operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(IdempotencyKeyHeader)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, ok := GetUserID(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBody))
			if err != nil {
				http.Error(w, "invalid input", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := userID.String() + ":" + header
			check, err := guard.CheckIdempotency(r.Context(), key, operation, service.HashRequest(body))
			switch {
			case errors.Is(err, apperrors.ErrIdempotencyConflict):
				http.Error(w, "idempotency key reused with a different request", http.StatusUnprocessableEntity)
				return
			case errors.Is(err, apperrors.ErrInvalidRequest):
				http.Error(w, "invalid idempotency key", http.StatusBadRequest)
				return
			case err != nil:
				logger.Log.Error("idempotency check failed", zap.String("operation", operation), zap.Error(err))
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			if check.IsDuplicate && check.Record != nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(ReplayedHeader, "true")
				w.WriteHeader(check.Record.ResponseCode)
				_, _ = w.Write(check.Record.ResponseBody)
				return
			}
			if check.InFlight {
				w.Header().Set("Retry-After", strconv.Itoa(1))
				http.Error(w, "request with this idempotency key is in flight", http.StatusConflict)
				return
			}

			cw := &capturingWriter{ResponseWriter: w}
			next.ServeHTTP(cw, r)

			if cw.status == 0 {
				cw.status = http.StatusOK
			}
			ctx := context.WithoutCancel(r.Context())
			if transientStatus(cw.status) {
				if err := guard.Release(ctx, key); err != nil {
					logger.Log.Warn("failed to release idempotency key", zap.String("operation", operation), zap.Error(err))
				}
				return
			}
			if err := guard.StoreResponse(ctx, key, cw.status, cw.body.Bytes()); err != nil {
				logger.Log.Error("failed to store idempotent response", zap.String("operation", operation), zap.Error(err))
			}
		})
	}
}

// transientStatus marks responses a retry may change. Their keys are released
// instead of stored so the retry runs again.
func transientStatus(code int) bool {
	return code == http.StatusConflict || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
