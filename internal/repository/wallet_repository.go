package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/ledger"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=wallet_repository.go -destination=../mocks/repository_mocks/wallet_repository_mock.go -package=repository_mocks

type WalletRepository interface {
	EnsureWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error)
	GetWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error)
	GetLimits(ctx context.Context, userID uuid.UUID, currency models.Currency) (models.LimitsView, error)
	ListWalletIDs(ctx context.Context) ([]uuid.UUID, error)
	Reconcile(ctx context.Context, userID uuid.UUID, repair bool) (models.ReconcileResult, error)
}

type walletRepo struct {
	db       *sql.DB
	settings Settings
}

func NewWalletRepository(db *sql.DB, settings Settings) WalletRepository {
	return &walletRepo{db: db, settings: settings}
}

func (r *walletRepo) EnsureWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	var w models.Wallet
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		if err := ensureWallet(ctx, tx, userID, r.settings.Defaults); err != nil {
			return err
		}
		var err error
		w, err = getWallet(ctx, tx, userID)
		return err
	})
	return w, err
}

// GetWallet returns a zero wallet for users that never had one.
func (r *walletRepo) GetWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	w, err := getWallet(ctx, r.db, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return models.Wallet{UserID: userID, BalanceFiat: decimal.Zero, BalanceTickets: decimal.Zero}, nil
	}
	return w, err
}

func getWallet(ctx context.Context, q querier, userID uuid.UUID) (models.Wallet, error) {
	var w models.Wallet
	err := q.QueryRowContext(ctx, `
		SELECT user_id, balance_fiat, balance_tickets, updated_at FROM wallets WHERE user_id = $1
	`, userID).Scan(&w.UserID, &w.BalanceFiat, &w.BalanceTickets, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Wallet{}, apperrors.ErrNotFound
	}
	if err != nil {
		return models.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

func (r *walletRepo) GetLimits(ctx context.Context, userID uuid.UUID, currency models.Currency) (models.LimitsView, error) {
	var view models.LimitsView
	err := inTx(ctx, r.db, readTx, func(tx *sql.Tx) error {
		limits, err := loadLimits(ctx, tx, userID, r.settings.Defaults)
		if err != nil {
			return err
		}
		usage, err := dailyUsage(ctx, tx, userID, currency, r.settings.startOfDay())
		if err != nil {
			return err
		}
		view = ledger.LimitsView(limits, usage)
		return nil
	})
	return view, err
}

func (r *walletRepo) ListWalletIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM wallets ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer closeRows(rows)

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Reconcile compares the cached balances with the ledger and, when repair is
// set, rewrites a drifted cache.
func (r *walletRepo) Reconcile(ctx context.Context, userID uuid.UUID, repair bool) (models.ReconcileResult, error) {
	res := models.ReconcileResult{UserID: userID}
	opts := readTx
	if repair {
		opts = writeTx
	}
	err := inTx(ctx, r.db, opts, func(tx *sql.Tx) error {
		if repair {
			if err := lockWallets(ctx, tx, userID); err != nil {
				return err
			}
		}
		w, err := getWallet(ctx, tx, userID)
		if err != nil {
			return err
		}
		res.CachedFiat, res.CachedTicket = w.BalanceFiat, w.BalanceTickets

		if res.LedgerFiat, err = postedBalance(ctx, tx, userID, models.CurrencyUSDT); err != nil {
			return err
		}
		if res.LedgerTicket, err = postedBalance(ctx, tx, userID, models.CurrencyTickets); err != nil {
			return err
		}

		if !res.Drifted() || !repair {
			return nil
		}
		if err := refreshWalletCache(ctx, tx, userID); err != nil {
			return err
		}
		res.Repaired = true
		return nil
	})
	if err != nil {
		return models.ReconcileResult{}, err
	}
	return res, nil
}
