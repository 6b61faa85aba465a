package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"go.uber.org/zap"
)

const (
	maxBodyBytes      = 1 << 20
	retryAfterSeconds = 1
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", zap.Error(err))
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// errorStatus maps ledger error kinds to a status and a fixed message.
func errorStatus(err error) (status int, msg string) {
	status, msg = http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount):
		status, msg = http.StatusBadRequest, "invalid amount"
	case errors.Is(err, apperrors.ErrInvalidAddress):
		status, msg = http.StatusBadRequest, "invalid withdrawal address"
	case errors.Is(err, apperrors.ErrInvalidRequest):
		status, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		status, msg = http.StatusPaymentRequired, "insufficient wallet balance"
	case errors.Is(err, apperrors.ErrInsufficientEscrowFunds):
		status, msg = http.StatusPaymentRequired, "insufficient wallet balance to fund the prize"
	case errors.Is(err, apperrors.ErrLimitExceeded):
		status, msg = http.StatusUnprocessableEntity, "transaction limit exceeded"
	case errors.Is(err, apperrors.ErrSecondApprovalRequired):
		status, msg = http.StatusUnprocessableEntity, "withdrawal requires a second approver for large amounts"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "invalid admin passphrase"
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, msg = http.StatusForbidden, "not allowed"
	case errors.Is(err, apperrors.ErrRateLimited):
		status, msg = http.StatusTooManyRequests, "rate limit exceeded, try again later"
	case errors.Is(err, apperrors.ErrIdempotencyConflict):
		status, msg = http.StatusUnprocessableEntity, "idempotency key reused with a different request"
	case errors.Is(err, apperrors.ErrRequestInFlight):
		status, msg = http.StatusConflict, "request with this idempotency key is in flight"
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		status, msg = http.StatusServiceUnavailable, "concurrent update, please retry"
	case errors.Is(err, apperrors.ErrInvalidResourceState):
		status, msg = http.StatusConflict, "resource is not in a valid state for this action"
	case errors.Is(err, apperrors.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	}
	return status, msg
}

// writeError responds with the fixed message for err. The raw error is only
// logged. Transient kinds carry Retry-After.
func writeError(w http.ResponseWriter, op string, err error) {
	status, msg := errorStatus(err)
	switch status {
	case http.StatusInternalServerError:
		logger.Log.Error(op+" failed", zap.Error(err))
	case http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		logger.Log.Warn(op+" retries exhausted", zap.Error(err))
	default:
		logger.Log.Debug(op+" rejected", zap.Int("status", status), zap.Error(err))
	}
	writeMessage(w, status, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid input")
		return false
	}
	return true
}

func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return n
}
