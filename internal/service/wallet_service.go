package service

import (
	"context"
	"fmt"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/ledger"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/metrics"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=wallet_service.go -destination=../mocks/service_mocks/wallet_service_mock.go -package=service_mocks

type WalletService interface {
	EnsureWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error)
	Limits(ctx context.Context, userID uuid.UUID, currency models.Currency) (models.LimitsView, error)
	AddFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency models.Currency, reference string) (models.LedgerEntry, error)
	DeductFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency models.Currency, reference string) (models.LedgerEntry, error)
	ListDeposits(ctx context.Context, userID uuid.UUID, limit int) ([]models.LedgerEntry, error)
	Reverse(ctx context.Context, entryID, adminID uuid.UUID, reason string) (models.LedgerEntry, error)
	ReconcileWallet(ctx context.Context, userID uuid.UUID, repair bool) (models.ReconcileResult, error)
	ReconcileAll(ctx context.Context, repair bool) (ReconcileReport, error)
}

type ReconcileReport struct {
	Checked  int                      `json:"checked"`
	Drifted  []models.ReconcileResult `json:"drifted"`
	Failures int                      `json:"failures"`
}

type walletService struct {
	ledger   repository.LedgerRepository
	wallets  repository.WalletRepository
	resolver AdminResolver
	metrics  *metrics.Metrics
}

func NewWalletService(ledgerRepo repository.LedgerRepository, wallets repository.WalletRepository, resolver AdminResolver, m *metrics.Metrics) WalletService {
	return &walletService{ledger: ledgerRepo, wallets: wallets, resolver: resolver, metrics: m}
}

func (s *walletService) EnsureWallet(ctx context.Context, userID uuid.UUID) (models.Wallet, error) {
	if userID == uuid.Nil {
		return models.Wallet{}, apperrors.ErrInvalidRequest
	}
	return s.wallets.EnsureWallet(ctx, userID)
}

func (s *walletService) Limits(ctx context.Context, userID uuid.UUID, currency models.Currency) (models.LimitsView, error) {
	currency, err := ledger.NormalizeCurrency(currency)
	if err != nil {
		return models.LimitsView{}, err
	}
	return s.wallets.GetLimits(ctx, userID, currency)
}

func (s *walletService) AddFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency models.Currency, reference string) (models.LedgerEntry, error) {
	currency, err := validateMovement(userID, amount, currency)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if reference == "" {
		reference = "deposit:" + uuid.NewString()
	}

	var entry models.LedgerEntry
	err = retryOnConflict(ctx, "deposit", s.metrics, func() error {
		var err error
		entry, err = s.ledger.PostDeposit(ctx, userID, amount, currency, reference)
		return err
	})
	s.metrics.Operation("deposit", outcome(err))
	return entry, err
}

func (s *walletService) DeductFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency models.Currency, reference string) (models.LedgerEntry, error) {
	currency, err := validateMovement(userID, amount, currency)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if reference == "" {
		reference = "deduction:" + uuid.NewString()
	}

	var entry models.LedgerEntry
	err = retryOnConflict(ctx, "deduction", s.metrics, func() error {
		var err error
		entry, err = s.ledger.PostDeduction(ctx, userID, amount, currency, reference)
		return err
	})
	s.metrics.Operation("deduction", outcome(err))
	return entry, err
}

func validateMovement(userID uuid.UUID, amount decimal.Decimal, currency models.Currency) (models.Currency, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("%w: user id required", apperrors.ErrInvalidRequest)
	}
	if err := ledger.ValidateAmount(amount); err != nil {
		return "", err
	}
	return ledger.NormalizeCurrency(currency)
}

func (s *walletService) ListDeposits(ctx context.Context, userID uuid.UUID, limit int) ([]models.LedgerEntry, error) {
	return s.ledger.ListEntries(ctx, userID, models.EntryDeposit, listLimit(limit))
}

func (s *walletService) Reverse(ctx context.Context, entryID, adminID uuid.UUID, reason string) (models.LedgerEntry, error) {
	if !s.resolver.IsAdmin(ctx, adminID) {
		return models.LedgerEntry{}, apperrors.ErrUnauthorized
	}
	if entryID == uuid.Nil {
		return models.LedgerEntry{}, apperrors.ErrInvalidRequest
	}

	var entry models.LedgerEntry
	err := retryOnConflict(ctx, "reverse", s.metrics, func() error {
		var err error
		entry, err = s.ledger.Reverse(ctx, entryID, adminID, reason)
		return err
	})
	s.metrics.Operation("reverse", outcome(err))
	return entry, err
}

func (s *walletService) ReconcileWallet(ctx context.Context, userID uuid.UUID, repair bool) (models.ReconcileResult, error) {
	return s.wallets.Reconcile(ctx, userID, repair)
}

// ReconcileAll checks every wallet. One wallet failing does not stop the run.
func (s *walletService) ReconcileAll(ctx context.Context, repair bool) (ReconcileReport, error) {
	var report ReconcileReport
	ids, err := s.wallets.ListWalletIDs(ctx)
	if err != nil {
		return report, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := s.wallets.Reconcile(ctx, id, repair)
		report.Checked++
		if err != nil {
			report.Failures++
			logger.Log.Error("failed to reconcile wallet", zap.String("user_id", id.String()), zap.Error(err))
			continue
		}
		if res.Drifted() {
			report.Drifted = append(report.Drifted, res)
			logger.Log.Warn("wallet cache drift",
				zap.String("user_id", id.String()),
				zap.String("cached_fiat", res.CachedFiat.String()),
				zap.String("ledger_fiat", res.LedgerFiat.String()),
				zap.String("cached_tickets", res.CachedTicket.String()),
				zap.String("ledger_tickets", res.LedgerTicket.String()),
				zap.Bool("repaired", res.Repaired))
		}
	}
	s.metrics.WalletDrift(len(report.Drifted))
	return report, nil
}
