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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=ledger_repository.go -destination=../mocks/repository_mocks/ledger_repository_mock.go -package=repository_mocks

type LedgerRepository interface {
	GetBalance(ctx context.Context, userID uuid.UUID, currency models.Currency) (decimal.Decimal, error)
	GetBreakdown(ctx context.Context, userID uuid.UUID, currency models.Currency) (models.BalanceBreakdown, error)
	ExecuteTransfer(ctx context.Context, cmd models.TransferCommand) (models.TransferResult, error)
	CheckTransfer(ctx context.Context, cmd models.TransferCommand) error
	PostDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency models.Currency, reference string) (models.LedgerEntry, error)
	PostDeduction(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency models.Currency, reference string) (models.LedgerEntry, error)
	ListEntries(ctx context.Context, userID uuid.UUID, entryType models.EntryType, limit int) ([]models.LedgerEntry, error)
	ListTransfers(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transfer, error)
	Reverse(ctx context.Context, entryID, adminID uuid.UUID, reason string) (models.LedgerEntry, error)
}

type ledgerRepo struct {
	db       *sql.DB
	settings Settings
}

func NewLedgerRepository(db *sql.DB, settings Settings) LedgerRepository {
	return &ledgerRepo{db: db, settings: settings}
}

func (r *ledgerRepo) GetBalance(ctx context.Context, userID uuid.UUID, currency models.Currency) (decimal.Decimal, error) {
	return postedBalance(ctx, r.db, userID, currency)
}

func (r *ledgerRepo) GetBreakdown(ctx context.Context, userID uuid.UUID, currency models.Currency) (models.BalanceBreakdown, error) {
	var b models.BalanceBreakdown
	err := inTx(ctx, r.db, readTx, func(tx *sql.Tx) error {
		var err error
		b, err = breakdown(ctx, tx, userID, currency)
		return err
	})
	return b, err
}

func (r *ledgerRepo) ExecuteTransfer(ctx context.Context, cmd models.TransferCommand) (models.TransferResult, error) {
	var res models.TransferResult
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		existing, found, err := findTransferByKey(ctx, tx, cmd.FromUser, cmd.IdempotencyKey)
		if err != nil {
			return err
		}
		if found {
			if !sameTransfer(existing, cmd.TransferRequest) {
				return apperrors.ErrIdempotencyConflict
			}
			res.TransferID = existing.ID
			res.Duplicate = true
			return r.fillBalances(ctx, tx, &res, existing.FromUser, existing.ToUser, existing.Currency)
		}

		if err := r.checkTransfer(ctx, tx, cmd, true); err != nil {
			return err
		}

		t := models.Transfer{
			ID:             uuid.New(),
			FromUser:       cmd.FromUser,
			ToUser:         cmd.ToUser,
			Amount:         cmd.Amount,
			Currency:       cmd.Currency,
			IdempotencyKey: cmd.IdempotencyKey,
		}
		if err := insertTransfer(ctx, tx, &t, ledger.TransferReference(t.ID)); err != nil {
			if isUniqueViolation(err) {
				// A concurrent call with the same key committed first.
				return fmt.Errorf("%w: %v", apperrors.ErrConcurrencyConflict, err)
			}
			return err
		}

		if cmd.Bypass {
			res.Bypassed = true
			if err := insertAudit(ctx, tx, models.AuditEntry{
				ActorID:     cmd.FromUser,
				Action:      "transfer.admin_bypass",
				SubjectKind: "transfer",
				SubjectID:   t.ID.String(),
				Note:        "balance and limit checks bypassed",
				Metadata: map[string]string{
					"to_user":  cmd.ToUser.String(),
					"amount":   cmd.Amount.StringFixed(ledger.Scale),
					"currency": string(cmd.Currency),
				},
			}); err != nil {
				return err
			}
		}

		if err := refreshWalletCache(ctx, tx, t.FromUser); err != nil {
			return err
		}
		if err := refreshWalletCache(ctx, tx, t.ToUser); err != nil {
			return err
		}

		res.TransferID = t.ID
		return r.fillBalances(ctx, tx, &res, t.FromUser, t.ToUser, t.Currency)
	})
	if err != nil {
		return models.TransferResult{}, err
	}
	return res, nil
}

func (r *ledgerRepo) CheckTransfer(ctx context.Context, cmd models.TransferCommand) error {
	return inTx(ctx, r.db, readTx, func(tx *sql.Tx) error {
		return r.checkTransfer(ctx, tx, cmd, false)
	})
}

// checkTransfer validates against the current state. With lock set it first
// creates and locks both wallets, which requires a write transaction.
func (r *ledgerRepo) checkTransfer(ctx context.Context, tx *sql.Tx, cmd models.TransferCommand, lock bool) error {
	if lock {
		for _, id := range []uuid.UUID{cmd.FromUser, cmd.ToUser} {
			if err := ensureWallet(ctx, tx, id, r.settings.Defaults); err != nil {
				return err
			}
		}
		if err := lockWallets(ctx, tx, cmd.FromUser, cmd.ToUser); err != nil {
			return err
		}
	}
	if cmd.Bypass {
		return nil
	}

	from, err := loadParty(ctx, tx, r.settings, cmd.FromUser, cmd.Currency)
	if err != nil {
		return err
	}
	to, err := loadParty(ctx, tx, r.settings, cmd.ToUser, cmd.Currency)
	if err != nil {
		return err
	}
	return r.settings.Policy.CheckTransfer(cmd.Amount, cmd.Currency, from, to)
}

func (r *ledgerRepo) fillBalances(ctx context.Context, q querier, res *models.TransferResult, from, to uuid.UUID, currency models.Currency) error {
	var err error
	if res.FromBalance, err = postedBalance(ctx, q, from, currency); err != nil {
		return err
	}
	res.ToBalance, err = postedBalance(ctx, q, to, currency)
	return err
}

// findTransferByKey looks keys up per sender, matching the unique constraint.
func findTransferByKey(ctx context.Context, q querier, fromUser uuid.UUID, key string) (models.Transfer, bool, error) {
	var t models.Transfer
	err := q.QueryRowContext(ctx, `
		SELECT id, from_user, to_user, amount, currency, idempotency_key, created_at
		FROM transfers WHERE from_user = $1 AND idempotency_key = $2
	`, fromUser, key).Scan(&t.ID, &t.FromUser, &t.ToUser, &t.Amount, &t.Currency, &t.IdempotencyKey, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transfer{}, false, nil
	}
	if err != nil {
		return models.Transfer{}, false, fmt.Errorf("find transfer: %w", err)
	}
	return t, true, nil
}

func sameTransfer(t models.Transfer, req models.TransferRequest) bool {
	return t.FromUser == req.FromUser && t.ToUser == req.ToUser &&
		t.Amount.Equal(req.Amount) && t.Currency == req.Currency
}

func (r *ledgerRepo) PostDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency models.Currency, reference string) (models.LedgerEntry, error) {
	e := models.LedgerEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Currency:  currency,
		Type:      models.EntryDeposit,
		Reference: reference,
		Status:    models.EntryPosted,
	}
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		if err := ensureWallet(ctx, tx, userID, r.settings.Defaults); err != nil {
			return err
		}
		if err := lockWallets(ctx, tx, userID); err != nil {
			return err
		}
		existing, found, err := findEntry(ctx, tx, reference, models.EntryDeposit, userID)
		if err != nil {
			return err
		}
		if found {
			if !existing.Amount.Equal(amount) || existing.Currency != currency {
				return apperrors.ErrIdempotencyConflict
			}
			e = existing
			return nil
		}
		if err := insertEntry(ctx, tx, &e); err != nil {
			return err
		}
		return refreshWalletCache(ctx, tx, userID)
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return e, nil
}

func (r *ledgerRepo) PostDeduction(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency models.Currency, reference string) (models.LedgerEntry, error) {
	e := models.LedgerEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount.Neg(),
		Currency:  currency,
		Type:      models.EntryWithdrawal,
		Reference: reference,
		Status:    models.EntryPosted,
	}
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		if err := ensureWallet(ctx, tx, userID, r.settings.Defaults); err != nil {
			return err
		}
		if err := lockWallets(ctx, tx, userID); err != nil {
			return err
		}
		existing, found, err := findEntry(ctx, tx, reference, models.EntryWithdrawal, userID)
		if err != nil {
			return err
		}
		if found {
			if !existing.Amount.Equal(amount.Neg()) || existing.Currency != currency {
				return apperrors.ErrIdempotencyConflict
			}
			e = existing
			return nil
		}
		b, err := breakdown(ctx, tx, userID, currency)
		if err != nil {
			return err
		}
		if b.Available.LessThan(amount) {
			return apperrors.ErrInsufficientBalance
		}
		if err := insertEntry(ctx, tx, &e); err != nil {
			return err
		}
		return refreshWalletCache(ctx, tx, userID)
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return e, nil
}

func findEntry(ctx context.Context, q querier, reference string, entryType models.EntryType, userID uuid.UUID) (models.LedgerEntry, bool, error) {
	e, err := scanEntry(q.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM ledger WHERE reference = $1 AND type = $2 AND user_id = $3
	`, reference, entryType, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.LedgerEntry{}, false, nil
	}
	if err != nil {
		return models.LedgerEntry{}, false, fmt.Errorf("find entry: %w", err)
	}
	return e, true, nil
}

func (r *ledgerRepo) ListEntries(ctx context.Context, userID uuid.UUID, entryType models.EntryType, limit int) ([]models.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM ledger
		WHERE user_id = $1 AND ($2 = '' OR type = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, string(entryType), limit)
	if err != nil {
		logger.Log.Error("failed to query ledger entries", zap.Error(err))
		return nil, err
	}
	defer closeRows(rows)

	var entries []models.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			logger.Log.Error("failed to scan ledger entry", zap.Error(err))
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ledgerRepo) ListTransfers(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transfer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, from_user, to_user, amount, currency, created_at FROM transfers
		WHERE from_user = $1 OR to_user = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		logger.Log.Error("failed to query transfers", zap.Error(err))
		return nil, err
	}
	defer closeRows(rows)

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		if err := rows.Scan(&t.ID, &t.FromUser, &t.ToUser, &t.Amount, &t.Currency, &t.CreatedAt); err != nil {
			logger.Log.Error("failed to scan transfer", zap.Error(err))
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

// Reverse posts a compensating entry for a posted entry, or voids a pending one.
// Reversing the same entry twice returns the first reversal.
// reversibleLegs returns the entries a reversal of orig must compensate. A
// transfer leg brings its counterpart sharing the same reference.
func reversibleLegs(ctx context.Context, tx *sql.Tx, orig models.LedgerEntry) ([]models.LedgerEntry, error) {
	if orig.Type != models.EntryTransferDebit && orig.Type != models.EntryTransferCredit {
		return []models.LedgerEntry{orig}, nil
	}
	rows, err := tx.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM ledger l
		WHERE l.reference = $1 AND l.type IN ('transfer_debit', 'transfer_credit') AND l.status = 'posted'
		  AND l.reversal_of IS NULL
		  AND NOT EXISTS (SELECT 1 FROM ledger r WHERE r.reversal_of = l.id)
		ORDER BY l.id
		FOR UPDATE
	`, orig.Reference)
	if err != nil {
		return nil, fmt.Errorf("load transfer legs: %w", err)
	}
	defer closeRows(rows)

	var legs []models.LedgerEntry
	for rows.Next() {
		leg, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer leg: %w", err)
		}
		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer legs: %w", err)
	}
	if len(legs) == 0 {
		legs = []models.LedgerEntry{orig}
	}
	return legs, nil
}

func (r *ledgerRepo) Reverse(ctx context.Context, entryID, adminID uuid.UUID, reason string) (models.LedgerEntry, error) {
	var out models.LedgerEntry
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		orig, err := scanEntry(tx.QueryRowContext(ctx, `
			SELECT `+entryColumns+` FROM ledger WHERE id = $1 FOR UPDATE
		`, entryID))
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load entry: %w", err)
		}

		if orig.ReversalOf != nil {
			return fmt.Errorf("%w: entry is itself a reversal", apperrors.ErrInvalidRequest)
		}

		switch orig.Status {
		case models.EntryReversed:
			out = orig
			return nil
		case models.EntryPending:
			if _, err := tx.ExecContext(ctx, `UPDATE ledger SET status = 'reversed' WHERE id = $1`, orig.ID); err != nil {
				return fmt.Errorf("void entry: %w", err)
			}
			orig.Status = models.EntryReversed
			out = orig
		default:
			existing, err := scanEntry(tx.QueryRowContext(ctx, `
				SELECT `+entryColumns+` FROM ledger WHERE reversal_of = $1
			`, orig.ID))
			if err == nil {
				out = existing
				return nil
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("find reversal: %w", err)
			}

			legs, err := reversibleLegs(ctx, tx, orig)
			if err != nil {
				return err
			}
			users := make([]uuid.UUID, 0, len(legs))
			for _, leg := range legs {
				users = append(users, leg.UserID)
			}
			if err := lockWallets(ctx, tx, users...); err != nil {
				return err
			}
			for _, leg := range legs {
				rev := ledger.Reversal(leg, ledger.ReversalReference(leg.ID))
				if err := insertEntry(ctx, tx, &rev); err != nil {
					return err
				}
				if leg.ID == orig.ID {
					out = rev
				}
			}
			for _, id := range users {
				if err := refreshWalletCache(ctx, tx, id); err != nil {
					return err
				}
			}
		}

		return insertAudit(ctx, tx, models.AuditEntry{
			ActorID:     adminID,
			Action:      "ledger.reverse",
			SubjectKind: "ledger_entry",
			SubjectID:   orig.ID.String(),
			Note:        reason,
			Metadata:    map[string]string{"result_entry": out.ID.String()},
		})
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return out, nil
}
