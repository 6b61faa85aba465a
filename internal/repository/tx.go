package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"go.uber.org/zap"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	writeTx = &sql.TxOptions{Isolation: sql.LevelSerializable}
	readTx  = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
)

const (
	sqlStateSerialization = "40001"
	sqlStateDeadlock      = "40P01"
	sqlStateUnique        = "23505"
)

// inTx runs fn in a transaction and commits only if fn succeeds.
// Any error rolls everything back.
func inTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return mapPgError(fmt.Errorf("begin tx: %w", err))
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Log.Error("rollback error", zap.Error(err))
		}
	}()

	if err := fn(tx); err != nil {
		return mapPgError(err)
	}
	if err := tx.Commit(); err != nil {
		return mapPgError(fmt.Errorf("commit: %w", err))
	}
	return nil
}

func sqlState(err error) string {
	var se interface{ SQLState() string }
	if errors.As(err, &se) {
		return se.SQLState()
	}
	return ""
}

// mapPgError turns retryable postgres failures into ErrConcurrencyConflict.
func mapPgError(err error) error {
	switch sqlState(err) {
	case sqlStateSerialization, sqlStateDeadlock:
		return fmt.Errorf("%w: %v", apperrors.ErrConcurrencyConflict, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	return sqlState(err) == sqlStateUnique
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.Log.Error("failed to close rows", zap.Error(err))
	}
}
