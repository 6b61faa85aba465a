package service

import (
	"context"
	"errors"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/metrics"
	"go.uber.org/zap"
)

const defaultListLimit = 50

func listLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}

// retryOnConflict runs fn again once if the first attempt hit a serialization
// failure. A second conflict is returned to the caller as retryable.
func retryOnConflict(ctx context.Context, op string, m *metrics.Metrics, fn func() error) error {
	err := fn()
	if !errors.Is(err, apperrors.ErrConcurrencyConflict) || ctx.Err() != nil {
		return err
	}
	m.Retry(op)
	logger.Log.Info("retrying after serialization failure", zap.String("operation", op))
	return fn()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrInsufficientBalance), errors.Is(err, apperrors.ErrInsufficientEscrowFunds):
		return "insufficient"
	case errors.Is(err, apperrors.ErrLimitExceeded):
		return "limit"
	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		return "conflict"
	case errors.Is(err, apperrors.ErrInvalidAmount), errors.Is(err, apperrors.ErrInvalidRequest),
		errors.Is(err, apperrors.ErrInvalidAddress), errors.Is(err, apperrors.ErrIdempotencyConflict):
		return "invalid"
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrSecondApprovalRequired):
		return "denied"
	default:
		return "error"
	}
}
