package apperrors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidAuthHeader  = errors.New("invalid or missing Authorization header")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid admin passphrase")
)

// Ledger taxonomy. Validation kinds are returned before any transaction begins,
// balance and limit kinds after a full rollback.
var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidAddress          = errors.New("invalid withdrawal address")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInsufficientEscrowFunds = errors.New("insufficient escrow funds")
	ErrLimitExceeded           = errors.New("limit exceeded")
	ErrSecondApprovalRequired  = errors.New("second approval required")
	ErrRateLimited             = errors.New("rate limited")
	ErrConcurrencyConflict     = errors.New("concurrency conflict")
	ErrIdempotencyConflict     = errors.New("idempotency key reused with different request")
	ErrRequestInFlight         = errors.New("request with this idempotency key is in flight")
	ErrInvalidResourceState    = errors.New("invalid resource state")
)
