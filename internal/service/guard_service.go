package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/metrics"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/ratelimit"
	"github.com/a2sh3r/onagui-ledger/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=guard_service.go -destination=../mocks/service_mocks/guard_service_mock.go -package=service_mocks

// GuardService holds the request guards. Neither guard touches ledger state.
type GuardService interface {
	CheckIdempotency(ctx context.Context, key, operation, requestHash string) (models.IdempotencyCheck, error)
	StoreResponse(ctx context.Context, key string, code int, body []byte) error
	Release(ctx context.Context, key string) error
	CheckRateLimit(ctx context.Context, userID uuid.UUID, operation string, limit int, window time.Duration) (bool, time.Duration)
	PurgeExpired(ctx context.Context) (int64, error)
}

type GuardSettings struct {
	LockTimeout time.Duration
	Retention   time.Duration
	Now         func() time.Time
}

type guardService struct {
	keys     repository.IdempotencyRepository
	limiter  ratelimit.Limiter
	settings GuardSettings
	metrics  *metrics.Metrics
}

func NewGuardService(keys repository.IdempotencyRepository, limiter ratelimit.Limiter, settings GuardSettings, m *metrics.Metrics) GuardService {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.LockTimeout <= 0 {
		settings.LockTimeout = 30 * time.Second
	}
	return &guardService{keys: keys, limiter: limiter, settings: settings, metrics: m}
}

// HashRequest fingerprints a request body for idempotency comparison.
func HashRequest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func (s *guardService) CheckIdempotency(ctx context.Context, key, operation, requestHash string) (models.IdempotencyCheck, error) {
	key = strings.TrimSpace(key)
	if key == "" || operation == "" {
		return models.IdempotencyCheck{}, fmt.Errorf("%w: idempotency key and operation required", apperrors.ErrInvalidRequest)
	}
	return s.keys.Acquire(ctx, key, operation, requestHash, s.settings.LockTimeout)
}

func (s *guardService) StoreResponse(ctx context.Context, key string, code int, body []byte) error {
	return s.keys.Complete(ctx, key, code, body)
}

func (s *guardService) Release(ctx context.Context, key string) error {
	return s.keys.Release(ctx, key)
}

// CheckRateLimit reports whether one more attempt fits the window. Limiter
// failures let the request through.
func (s *guardService) CheckRateLimit(ctx context.Context, userID uuid.UUID, operation string, limit int, window time.Duration) (bool, time.Duration) {
	if limit <= 0 || window <= 0 {
		return true, 0
	}
	ok, retry, err := s.limiter.Allow(ctx, ratelimit.Key(userID.String(), operation), limit, window, s.settings.Now())
	if err != nil {
		logger.Log.Warn("rate limiter unavailable, allowing request",
			zap.String("operation", operation), zap.String("user_id", userID.String()), zap.Error(err))
		return true, 0
	}
	if !ok {
		s.metrics.RateLimited(operation)
	}
	return ok, retry
}

func (s *guardService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.settings.Retention <= 0 {
		return 0, nil
	}
	return s.keys.PurgeCompleted(ctx, s.settings.Now().Add(-s.settings.Retention))
}
