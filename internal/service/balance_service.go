package service

import (
	"context"

	"github.com/a2sh3r/onagui-ledger/internal/ledger"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=balance_service.go -destination=../mocks/service_mocks/balance_service_mock.go -package=service_mocks

type BalanceService interface {
	GetBalance(ctx context.Context, userID uuid.UUID, currency models.Currency) (decimal.Decimal, error)
	GetAvailableBalance(ctx context.Context, userID uuid.UUID, currency models.Currency) (decimal.Decimal, error)
	Breakdown(ctx context.Context, userID uuid.UUID, currency models.Currency) (models.BalanceBreakdown, error)
	Summary(ctx context.Context, userID uuid.UUID) (models.BalanceSummary, error)
}

type balanceService struct {
	ledger  repository.LedgerRepository
	wallets repository.WalletRepository
}

func NewBalanceService(ledgerRepo repository.LedgerRepository, wallets repository.WalletRepository) BalanceService {
	return &balanceService{ledger: ledgerRepo, wallets: wallets}
}

func (s *balanceService) GetBalance(ctx context.Context, userID uuid.UUID, currency models.Currency) (decimal.Decimal, error) {
	currency, err := ledger.NormalizeCurrency(currency)
	if err != nil {
		return decimal.Zero, err
	}
	return s.ledger.GetBalance(ctx, userID, currency)
}

func (s *balanceService) GetAvailableBalance(ctx context.Context, userID uuid.UUID, currency models.Currency) (decimal.Decimal, error) {
	b, err := s.Breakdown(ctx, userID, currency)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Available, nil
}

func (s *balanceService) Breakdown(ctx context.Context, userID uuid.UUID, currency models.Currency) (models.BalanceBreakdown, error) {
	currency, err := ledger.NormalizeCurrency(currency)
	if err != nil {
		return models.BalanceBreakdown{}, err
	}
	return s.ledger.GetBreakdown(ctx, userID, currency)
}

func (s *balanceService) Summary(ctx context.Context, userID uuid.UUID) (models.BalanceSummary, error) {
	summary := models.BalanceSummary{UserID: userID}
	for _, c := range []models.Currency{models.CurrencyUSDT, models.CurrencyTickets} {
		b, err := s.ledger.GetBreakdown(ctx, userID, c)
		if err != nil {
			return models.BalanceSummary{}, err
		}
		summary.Balances = append(summary.Balances, b)
	}
	w, err := s.wallets.GetWallet(ctx, userID)
	if err != nil {
		return models.BalanceSummary{}, err
	}
	summary.Wallet = w
	return summary, nil
}
