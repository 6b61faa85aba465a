package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/ledger"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settings are the service-wide money rules shared by every repository.
type Settings struct {
	Defaults models.UserLimits
	Policy   ledger.Policy
	Now      func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s Settings) startOfDay() time.Time {
	return s.now().Truncate(24 * time.Hour)
}

func scanDecimal(row *sql.Row) (decimal.Decimal, error) {
	var d decimal.NullDecimal
	if err := row.Scan(&d); err != nil {
		return decimal.Zero, err
	}
	if !d.Valid {
		return decimal.Zero, nil
	}
	return d.Decimal, nil
}

func postedBalance(ctx context.Context, q querier, userID uuid.UUID, currency models.Currency) (decimal.Decimal, error) {
	d, err := scanDecimal(q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM ledger
		WHERE user_id = $1 AND currency = $2 AND status = 'posted'
	`, userID, currency))
	if err != nil {
		return decimal.Zero, fmt.Errorf("posted balance: %w", err)
	}
	return d, nil
}

func pendingWithdrawals(ctx context.Context, q querier, userID uuid.UUID, currency models.Currency) (decimal.Decimal, error) {
	d, err := scanDecimal(q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM withdrawals
		WHERE user_id = $1 AND currency = $2 AND status IN ('pending', 'processing')
	`, userID, currency))
	if err != nil {
		return decimal.Zero, fmt.Errorf("pending withdrawals: %w", err)
	}
	return d, nil
}

func heldEscrow(ctx context.Context, q querier, userID uuid.UUID, currency models.Currency) (decimal.Decimal, error) {
	d, err := scanDecimal(q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM escrow_holds
		WHERE creator_id = $1 AND currency = $2 AND status = 'held'
	`, userID, currency))
	if err != nil {
		return decimal.Zero, fmt.Errorf("held escrow: %w", err)
	}
	return d, nil
}

func breakdown(ctx context.Context, q querier, userID uuid.UUID, currency models.Currency) (models.BalanceBreakdown, error) {
	balance, err := postedBalance(ctx, q, userID, currency)
	if err != nil {
		return models.BalanceBreakdown{}, err
	}
	pending, err := pendingWithdrawals(ctx, q, userID, currency)
	if err != nil {
		return models.BalanceBreakdown{}, err
	}
	held, err := heldEscrow(ctx, q, userID, currency)
	if err != nil {
		return models.BalanceBreakdown{}, err
	}
	return ledger.Breakdown(currency, balance, pending, held), nil
}

func ensureWallet(ctx context.Context, q querier, userID uuid.UUID, defaults models.UserLimits) error {
	if _, err := q.ExecContext(ctx, `
		INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return fmt.Errorf("ensure wallet: %w", err)
	}
	if _, err := q.ExecContext(ctx, `
		INSERT INTO user_limits (user_id, max_balance_usdt, max_transaction_usdt, daily_withdrawal_limit, daily_transfer_limit, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, defaults.MaxBalanceUSDT, defaults.MaxTransactionUSDT, defaults.DailyWithdrawalLimit,
		defaults.DailyTransferLimit, defaults.IsVerified); err != nil {
		return fmt.Errorf("ensure limits: %w", err)
	}
	return nil
}

// lockWallets takes row locks in uuid order so concurrent transfers between
// the same pair cannot deadlock on each other.
func lockWallets(ctx context.Context, tx *sql.Tx, ids ...uuid.UUID) error {
	sorted := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })

	for _, id := range sorted {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT user_id FROM wallets WHERE user_id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			return fmt.Errorf("lock wallet %s: %w", id, err)
		}
	}
	return nil
}

// refreshWalletCache rewrites the cached balances from the ledger.
func refreshWalletCache(ctx context.Context, q querier, userID uuid.UUID) error {
	_, err := q.ExecContext(ctx, `
		UPDATE wallets SET
			balance_fiat = (SELECT COALESCE(SUM(amount), 0) FROM ledger
				WHERE user_id = $1 AND currency = 'USDT' AND status = 'posted'),
			balance_tickets = (SELECT COALESCE(SUM(amount), 0) FROM ledger
				WHERE user_id = $1 AND currency = 'TICKETS' AND status = 'posted'),
			updated_at = now()
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("refresh wallet cache: %w", err)
	}
	return nil
}

func loadLimits(ctx context.Context, q querier, userID uuid.UUID, defaults models.UserLimits) (models.UserLimits, error) {
	var l models.UserLimits
	err := q.QueryRowContext(ctx, `
		SELECT max_balance_usdt, max_transaction_usdt, daily_withdrawal_limit, daily_transfer_limit, is_verified
		FROM user_limits WHERE user_id = $1
	`, userID).Scan(&l.MaxBalanceUSDT, &l.MaxTransactionUSDT, &l.DailyWithdrawalLimit, &l.DailyTransferLimit, &l.IsVerified)
	if errors.Is(err, sql.ErrNoRows) {
		return defaults, nil
	}
	if err != nil {
		return models.UserLimits{}, fmt.Errorf("load limits: %w", err)
	}
	return l, nil
}

func dailyUsage(ctx context.Context, q querier, userID uuid.UUID, currency models.Currency, since time.Time) (models.LimitUsage, error) {
	var u models.LimitUsage
	var err error

	u.TransferredOut, err = scanDecimal(q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transfers
		WHERE from_user = $1 AND currency = $2 AND created_at >= $3
	`, userID, currency, since))
	if err != nil {
		return u, fmt.Errorf("usage out: %w", err)
	}

	u.TransferredIn, err = scanDecimal(q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transfers
		WHERE to_user = $1 AND currency = $2 AND created_at >= $3
	`, userID, currency, since))
	if err != nil {
		return u, fmt.Errorf("usage in: %w", err)
	}

	u.Withdrawn, err = scanDecimal(q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM withdrawals
		WHERE user_id = $1 AND currency = $2 AND status <> 'rejected' AND created_at >= $3
	`, userID, currency, since))
	if err != nil {
		return u, fmt.Errorf("usage withdrawn: %w", err)
	}
	return u, nil
}

func loadParty(ctx context.Context, q querier, s Settings, userID uuid.UUID, currency models.Currency) (ledger.TransferParty, error) {
	b, err := breakdown(ctx, q, userID, currency)
	if err != nil {
		return ledger.TransferParty{}, err
	}
	limits, err := loadLimits(ctx, q, userID, s.Defaults)
	if err != nil {
		return ledger.TransferParty{}, err
	}
	usage, err := dailyUsage(ctx, q, userID, currency, s.startOfDay())
	if err != nil {
		return ledger.TransferParty{}, err
	}
	return ledger.TransferParty{Limits: limits, Usage: usage, Balance: b.Balance, Available: b.Available}, nil
}

const entryColumns = `id, user_id, amount, currency, type, reference, status, reversal_of, created_at`

func scanEntry(row interface{ Scan(dest ...any) error }) (models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Amount, &e.Currency, &e.Type, &e.Reference, &e.Status, &e.ReversalOf, &e.CreatedAt)
	return e, err
}

func insertEntry(ctx context.Context, q querier, e *models.LedgerEntry) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO ledger (id, user_id, amount, currency, type, reference, status, reversal_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, e.ID, e.UserID, e.Amount, e.Currency, e.Type, e.Reference, e.Status, e.ReversalOf).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// insertTransfer writes the transfer row and its balanced entry pair.
func insertTransfer(ctx context.Context, q querier, t *models.Transfer, reference string) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO transfers (id, from_user, to_user, amount, currency, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, t.ID, t.FromUser, t.ToUser, t.Amount, t.Currency, t.IdempotencyKey).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}

	debit, credit := ledger.TransferPair(*t, reference)
	if err := insertEntry(ctx, q, &debit); err != nil {
		return err
	}
	return insertEntry(ctx, q, &credit)
}

func insertAudit(ctx context.Context, q querier, a models.AuditEntry) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	meta := a.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO audit_log (id, actor_id, action, subject_kind, subject_id, note, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.ActorID, a.Action, a.SubjectKind, a.SubjectID, a.Note, string(raw))
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}
