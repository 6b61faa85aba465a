package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/mocks/repository_mocks"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletService_AddFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := uuid.New()
	ledgerRepo := repository_mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().PostDeposit(gomock.Any(), user, gomock.Any(), models.CurrencyUSDT, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, amount decimal.Decimal, _ models.Currency, reference string) (models.LedgerEntry, error) {
			assert.True(t, strings.HasPrefix(reference, "deposit:"))
			return models.LedgerEntry{Amount: amount, Type: models.EntryDeposit, Status: models.EntryPosted}, nil
		})
	ledgerRepo.EXPECT().PostDeposit(gomock.Any(), user, gomock.Any(), models.CurrencyUSDT, "tx-42").
		Return(models.LedgerEntry{Reference: "tx-42"}, nil)

	svc := NewWalletService(ledgerRepo, repository_mocks.NewMockWalletRepository(ctrl), stubResolver{}, nil)

	entry, err := svc.AddFunds(context.Background(), user, dec("100"), "", "")
	require.NoError(t, err)
	assert.True(t, entry.Amount.Equal(dec("100")))

	entry, err = svc.AddFunds(context.Background(), user, dec("5"), "usdt", "tx-42")
	require.NoError(t, err)
	assert.Equal(t, "tx-42", entry.Reference)

	_, err = svc.AddFunds(context.Background(), user, dec("0.001"), "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestWalletService_DeductFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := uuid.New()
	ledgerRepo := repository_mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().PostDeduction(gomock.Any(), user, gomock.Any(), models.CurrencyUSDT, gomock.Any()).
		Return(models.LedgerEntry{}, apperrors.ErrInsufficientBalance)

	svc := NewWalletService(ledgerRepo, repository_mocks.NewMockWalletRepository(ctrl), stubResolver{}, nil)
	_, err := svc.DeductFunds(context.Background(), user, dec("500"), "", "")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
}

func TestWalletService_Reverse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin, user, entryID := uuid.New(), uuid.New(), uuid.New()
	ledgerRepo := repository_mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().Reverse(gomock.Any(), entryID, admin, "chargeback").
		Return(models.LedgerEntry{ReversalOf: &entryID, Amount: dec("-10")}, nil)

	svc := NewWalletService(ledgerRepo, repository_mocks.NewMockWalletRepository(ctrl), stubResolver{admin: true}, nil)

	_, err := svc.Reverse(context.Background(), entryID, user, "chargeback")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	entry, err := svc.Reverse(context.Background(), entryID, admin, "chargeback")
	require.NoError(t, err)
	assert.Equal(t, entryID, *entry.ReversalOf)
}

func TestWalletService_ReconcileAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clean, drifted, broken := uuid.New(), uuid.New(), uuid.New()
	wallets := repository_mocks.NewMockWalletRepository(ctrl)
	wallets.EXPECT().ListWalletIDs(gomock.Any()).Return([]uuid.UUID{clean, drifted, broken}, nil)
	wallets.EXPECT().Reconcile(gomock.Any(), clean, true).Return(models.ReconcileResult{
		UserID: clean, CachedFiat: dec("10"), LedgerFiat: dec("10"), CachedTicket: decimal.Zero, LedgerTicket: decimal.Zero,
	}, nil)
	wallets.EXPECT().Reconcile(gomock.Any(), drifted, true).Return(models.ReconcileResult{
		UserID: drifted, CachedFiat: dec("99"), LedgerFiat: dec("70"), CachedTicket: decimal.Zero, LedgerTicket: decimal.Zero, Repaired: true,
	}, nil)
	wallets.EXPECT().Reconcile(gomock.Any(), broken, true).Return(models.ReconcileResult{}, errors.New("lock timeout"))

	svc := NewWalletService(repository_mocks.NewMockLedgerRepository(ctrl), wallets, stubResolver{}, nil)
	report, err := svc.ReconcileAll(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Checked)
	assert.Equal(t, 1, report.Failures)
	require.Len(t, report.Drifted, 1)
	assert.Equal(t, drifted, report.Drifted[0].UserID)
}

func TestReconciler(t *testing.T) {
	t.Run("один проход сверки и очистки", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		wallets := repository_mocks.NewMockWalletRepository(ctrl)
		wallets.EXPECT().ListWalletIDs(gomock.Any()).Return(nil, nil)
		keys := repository_mocks.NewMockIdempotencyRepository(ctrl)
		keys.EXPECT().PurgeCompleted(gomock.Any(), gomock.Any()).Return(int64(2), nil)

		walletSvc := NewWalletService(repository_mocks.NewMockLedgerRepository(ctrl), wallets, stubResolver{}, nil)
		guard := NewGuardService(keys, nil, GuardSettings{Retention: time.Hour}, nil)

		NewReconciler(walletSvc, guard, time.Minute, nil).runOnce(context.Background())
	})

	t.Run("нулевой интервал отключает", func(t *testing.T) {
		r := NewReconciler(nil, nil, 0, nil)
		r.Run(context.Background())
	})

	t.Run("остановка по контексту", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		wallets := repository_mocks.NewMockWalletRepository(ctrl)
		wallets.EXPECT().ListWalletIDs(gomock.Any()).Return(nil, nil).AnyTimes()
		walletSvc := NewWalletService(repository_mocks.NewMockLedgerRepository(ctrl), wallets, stubResolver{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			NewReconciler(walletSvc, nil, 5*time.Millisecond, nil).Run(ctx)
			close(done)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("reconciler did not stop")
		}
	})
}

func TestBalanceService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := uuid.New()
	ledgerRepo := repository_mocks.NewMockLedgerRepository(ctrl)
	wallets := repository_mocks.NewMockWalletRepository(ctrl)

	usdt := models.BalanceBreakdown{Currency: models.CurrencyUSDT, Balance: dec("100"), PendingWithdrawals: dec("30"), HeldEscrow: dec("20"), Available: dec("50")}
	ledgerRepo.EXPECT().GetBreakdown(gomock.Any(), user, models.CurrencyUSDT).Return(usdt, nil).Times(2)
	ledgerRepo.EXPECT().GetBreakdown(gomock.Any(), user, models.CurrencyTickets).Return(models.BalanceBreakdown{Currency: models.CurrencyTickets}, nil)
	ledgerRepo.EXPECT().GetBalance(gomock.Any(), user, models.CurrencyUSDT).Return(dec("100"), nil)
	wallets.EXPECT().GetWallet(gomock.Any(), user).Return(models.Wallet{UserID: user, BalanceFiat: dec("100")}, nil)

	svc := NewBalanceService(ledgerRepo, wallets)

	available, err := svc.GetAvailableBalance(context.Background(), user, "")
	require.NoError(t, err)
	assert.True(t, available.Equal(dec("50")))

	balance, err := svc.GetBalance(context.Background(), user, "USDT")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100")))

	summary, err := svc.Summary(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, summary.Balances, 2)
	assert.Equal(t, user, summary.Wallet.UserID)

	_, err = svc.GetBalance(context.Background(), user, "EUR")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}
