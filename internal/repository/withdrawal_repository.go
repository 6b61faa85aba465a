package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/ledger"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=withdrawal_repository.go -destination=../mocks/repository_mocks/withdrawal_repository_mock.go -package=repository_mocks

type WithdrawalRepository interface {
	Create(ctx context.Context, req models.WithdrawalRequest) (models.Withdrawal, bool, error)
	CheckRequest(ctx context.Context, req models.WithdrawalRequest) error
	Get(ctx context.Context, id uuid.UUID) (models.Withdrawal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Withdrawal, error)
	ListPending(ctx context.Context, limit int) ([]models.Withdrawal, error)
	MarkProcessing(ctx context.Context, id, adminID uuid.UUID) (models.Withdrawal, error)
	Complete(ctx context.Context, cmd models.ApprovalCommand) (models.Withdrawal, error)
	Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (models.Withdrawal, error)
}

type withdrawalRepo struct {
	db       *sql.DB
	settings Settings
}

func NewWithdrawalRepository(db *sql.DB, settings Settings) WithdrawalRepository {
	return &withdrawalRepo{db: db, settings: settings}
}

const withdrawalColumns = `id, user_id, amount, currency, to_address, status, idempotency_key,
	approver_id, second_approver_id, rejection_reason, ledger_entry_id, created_at, updated_at, completed_at`

func scanWithdrawal(row interface{ Scan(dest ...any) error }) (models.Withdrawal, error) {
	var w models.Withdrawal
	err := row.Scan(&w.ID, &w.UserID, &w.Amount, &w.Currency, &w.ToAddress, &w.Status, &w.IdempotencyKey,
		&w.ApproverID, &w.SecondApproverID, &w.RejectionReason, &w.LedgerEntryID, &w.CreatedAt, &w.UpdatedAt, &w.CompletedAt)
	return w, err
}

// Create inserts a pending withdrawal. The bool result reports a replay of an
// earlier request with the same key.
func (r *withdrawalRepo) Create(ctx context.Context, req models.WithdrawalRequest) (models.Withdrawal, bool, error) {
	var (
		w   models.Withdrawal
		dup bool
	)
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		existing, err := scanWithdrawal(tx.QueryRowContext(ctx, `
			SELECT `+withdrawalColumns+` FROM withdrawals WHERE user_id = $1 AND idempotency_key = $2
		`, req.UserID, req.IdempotencyKey))
		switch {
		case err == nil:
			if !existing.Amount.Equal(req.Amount) || existing.Currency != req.Currency || existing.ToAddress != req.ToAddress {
				return apperrors.ErrIdempotencyConflict
			}
			w, dup = existing, true
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("find withdrawal: %w", err)
		}

		if err := ensureWallet(ctx, tx, req.UserID, r.settings.Defaults); err != nil {
			return err
		}
		if err := lockWallets(ctx, tx, req.UserID); err != nil {
			return err
		}
		if err := r.check(ctx, tx, req); err != nil {
			return err
		}

		w, err = scanWithdrawal(tx.QueryRowContext(ctx, `
			INSERT INTO withdrawals (id, user_id, amount, currency, to_address, status, idempotency_key)
			VALUES ($1, $2, $3, $4, $5, 'pending', $6)
			RETURNING `+withdrawalColumns,
			uuid.New(), req.UserID, req.Amount, req.Currency, req.ToAddress, req.IdempotencyKey))
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %v", apperrors.ErrConcurrencyConflict, err)
			}
			return fmt.Errorf("insert withdrawal: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Withdrawal{}, false, err
	}
	return w, dup, nil
}

func (r *withdrawalRepo) CheckRequest(ctx context.Context, req models.WithdrawalRequest) error {
	return inTx(ctx, r.db, readTx, func(tx *sql.Tx) error {
		return r.check(ctx, tx, req)
	})
}

func (r *withdrawalRepo) check(ctx context.Context, q querier, req models.WithdrawalRequest) error {
	p, err := loadParty(ctx, q, r.settings, req.UserID, req.Currency)
	if err != nil {
		return err
	}
	return r.settings.Policy.CheckWithdrawal(req.Amount, p)
}

func (r *withdrawalRepo) Get(ctx context.Context, id uuid.UUID) (models.Withdrawal, error) {
	w, err := scanWithdrawal(r.db.QueryRowContext(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Withdrawal{}, apperrors.ErrNotFound
	}
	if err != nil {
		return models.Withdrawal{}, fmt.Errorf("get withdrawal: %w", err)
	}
	return w, nil
}

func (r *withdrawalRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Withdrawal, error) {
	return r.list(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
}

func (r *withdrawalRepo) ListPending(ctx context.Context, limit int) ([]models.Withdrawal, error) {
	return r.list(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals
		WHERE status IN ('pending', 'processing') ORDER BY created_at LIMIT $1
	`, limit)
}

func (r *withdrawalRepo) list(ctx context.Context, query string, args ...any) ([]models.Withdrawal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Log.Error("failed to query withdrawals", zap.Error(err))
		return nil, err
	}
	defer closeRows(rows)

	var out []models.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			logger.Log.Error("failed to scan withdrawal", zap.Error(err))
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func lockWithdrawal(ctx context.Context, tx *sql.Tx, id uuid.UUID) (models.Withdrawal, error) {
	w, err := scanWithdrawal(tx.QueryRowContext(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1 FOR UPDATE
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Withdrawal{}, apperrors.ErrNotFound
	}
	if err != nil {
		return models.Withdrawal{}, fmt.Errorf("lock withdrawal: %w", err)
	}
	return w, nil
}

func (r *withdrawalRepo) MarkProcessing(ctx context.Context, id, adminID uuid.UUID) (models.Withdrawal, error) {
	var w models.Withdrawal
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		var err error
		if w, err = lockWithdrawal(ctx, tx, id); err != nil {
			return err
		}
		if w.Status != models.WithdrawalPending {
			return nil
		}
		w, err = scanWithdrawal(tx.QueryRowContext(ctx, `
			UPDATE withdrawals SET status = 'processing', approver_id = $2, updated_at = now()
			WHERE id = $1
			RETURNING `+withdrawalColumns, id, adminID))
		return err
	})
	if err != nil {
		return models.Withdrawal{}, err
	}
	return w, nil
}

// Complete approves and settles a withdrawal in one step. Terminal rows are
// returned unchanged.
func (r *withdrawalRepo) Complete(ctx context.Context, cmd models.ApprovalCommand) (models.Withdrawal, error) {
	var w models.Withdrawal
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		var err error
		if w, err = lockWithdrawal(ctx, tx, cmd.WithdrawalID); err != nil {
			return err
		}
		if w.Status.Terminal() {
			return nil
		}
		if err := r.settings.Policy.ValidateApprovers(w, cmd.ApproverID, cmd.SecondApproverID); err != nil {
			return err
		}

		if err := lockWallets(ctx, tx, w.UserID); err != nil {
			return err
		}
		balance, err := postedBalance(ctx, tx, w.UserID, w.Currency)
		if err != nil {
			return err
		}
		if balance.LessThan(w.Amount) {
			return apperrors.ErrInsufficientBalance
		}

		entry := models.LedgerEntry{
			ID:        uuid.New(),
			UserID:    w.UserID,
			Amount:    w.Amount.Neg(),
			Currency:  w.Currency,
			Type:      models.EntryWithdrawal,
			Reference: ledger.WithdrawalReference(w.ID),
			Status:    models.EntryPosted,
		}
		if err := insertEntry(ctx, tx, &entry); err != nil {
			return err
		}

		second := cmd.SecondApproverID
		if !r.settings.Policy.RequiresSecondApproval(w.Amount) {
			second = nil
		}
		w, err = scanWithdrawal(tx.QueryRowContext(ctx, `
			UPDATE withdrawals
			SET status = 'completed', approver_id = $2, second_approver_id = $3, ledger_entry_id = $4,
			    updated_at = now(), completed_at = now()
			WHERE id = $1
			RETURNING `+withdrawalColumns, w.ID, cmd.ApproverID, second, entry.ID))
		if err != nil {
			return fmt.Errorf("complete withdrawal: %w", err)
		}
		return refreshWalletCache(ctx, tx, w.UserID)
	})
	if err != nil {
		return models.Withdrawal{}, err
	}
	return w, nil
}

func (r *withdrawalRepo) Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (models.Withdrawal, error) {
	var w models.Withdrawal
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		var err error
		if w, err = lockWithdrawal(ctx, tx, id); err != nil {
			return err
		}
		if w.Status.Terminal() {
			return nil
		}
		w, err = scanWithdrawal(tx.QueryRowContext(ctx, `
			UPDATE withdrawals SET status = 'rejected', approver_id = $2, rejection_reason = $3, updated_at = now()
			WHERE id = $1
			RETURNING `+withdrawalColumns, id, adminID, reason))
		return err
	})
	if err != nil {
		return models.Withdrawal{}, err
	}
	return w, nil
}
