package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/models"
)

//go:generate mockgen -source=idempotency_repository.go -destination=../mocks/repository_mocks/idempotency_repository_mock.go -package=repository_mocks

type IdempotencyRepository interface {
	Acquire(ctx context.Context, key, operation, requestHash string, lockTimeout time.Duration) (models.IdempotencyCheck, error)
	Complete(ctx context.Context, key string, code int, body []byte) error
	Release(ctx context.Context, key string) error
	PurgeCompleted(ctx context.Context, before time.Time) (int64, error)
}

type idempotencyRepo struct {
	db       *sql.DB
	settings Settings
}

func NewIdempotencyRepository(db *sql.DB, settings Settings) IdempotencyRepository {
	return &idempotencyRepo{db: db, settings: settings}
}

// Acquire records the key as in flight on first sight. A completed key
// returns the stored response, a live in-flight key reports InFlight, and an
// in-flight key whose lock expired is taken over by the caller.
func (r *idempotencyRepo) Acquire(ctx context.Context, key, operation, requestHash string, lockTimeout time.Duration) (models.IdempotencyCheck, error) {
	var check models.IdempotencyCheck
	now := r.settings.now()
	lockedUntil := now.Add(lockTimeout)

	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO idempotency_keys (key, operation, request_hash, status, locked_until)
			VALUES ($1, $2, $3, 'in_flight', $4)
			ON CONFLICT (key) DO NOTHING
		`, key, operation, requestHash, lockedUntil)
		if err != nil {
			return fmt.Errorf("insert idempotency key: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			return nil
		}

		var rec models.IdempotencyRecord
		var body []byte
		err = tx.QueryRowContext(ctx, `
			SELECT key, operation, request_hash, status, response_code, response_body, locked_until, created_at
			FROM idempotency_keys WHERE key = $1 FOR UPDATE
		`, key).Scan(&rec.Key, &rec.Operation, &rec.RequestHash, &rec.Status, &rec.ResponseCode, &body, &rec.LockedUntil, &rec.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: idempotency key vanished", apperrors.ErrConcurrencyConflict)
		}
		if err != nil {
			return fmt.Errorf("load idempotency key: %w", err)
		}
		rec.ResponseBody = body

		if rec.Operation != operation || rec.RequestHash != requestHash {
			return apperrors.ErrIdempotencyConflict
		}

		switch {
		case rec.Status == models.IdempotencyCompleted:
			check.IsDuplicate = true
			check.Record = &rec
		case rec.LockedUntil.After(now):
			check.InFlight = true
			check.Record = &rec
		default:
			if _, err := tx.ExecContext(ctx, `
				UPDATE idempotency_keys SET locked_until = $2, updated_at = now() WHERE key = $1
			`, key, lockedUntil); err != nil {
				return fmt.Errorf("take over idempotency key: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.IdempotencyCheck{}, err
	}
	return check, nil
}

func (r *idempotencyRepo) Complete(ctx context.Context, key string, code int, body []byte) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE idempotency_keys
		SET status = 'completed', response_code = $2, response_body = $3, updated_at = now()
		WHERE key = $1
	`, key, code, body)
	if err != nil {
		return fmt.Errorf("store idempotency response: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *idempotencyRepo) Release(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM idempotency_keys WHERE key = $1 AND status = 'in_flight'`, key)
	if err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (r *idempotencyRepo) PurgeCompleted(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM idempotency_keys WHERE status = 'completed' AND updated_at < $1
	`, before)
	if err != nil {
		return 0, fmt.Errorf("purge idempotency keys: %w", err)
	}
	return res.RowsAffected()
}
