package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/mocks/service_mocks"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHandler_GetBalance(t *testing.T) {
	user := uuid.New()

	tests := []struct {
		name           string
		query          string
		mockSetup      func(b *service_mocks.MockBalanceService, w *service_mocks.MockWalletService)
		wantStatusCode int
		wantBody       string
	}{
		{
			name: "сводка по всем валютам",
			mockSetup: func(b *service_mocks.MockBalanceService, w *service_mocks.MockWalletService) {
				w.EXPECT().EnsureWallet(gomock.Any(), user).Return(models.Wallet{UserID: user}, nil)
				b.EXPECT().Summary(gomock.Any(), user).Return(models.BalanceSummary{UserID: user}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "одна валюта",
			query: "?currency=USDT",
			mockSetup: func(b *service_mocks.MockBalanceService, w *service_mocks.MockWalletService) {
				w.EXPECT().EnsureWallet(gomock.Any(), user).Return(models.Wallet{UserID: user}, nil)
				b.EXPECT().Breakdown(gomock.Any(), user, models.CurrencyUSDT).Return(models.BalanceBreakdown{
					Currency: models.CurrencyUSDT, Balance: decimal.RequireFromString("100"), Available: decimal.RequireFromString("50"),
				}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `"available":"50"`,
		},
		{
			name:  "неизвестная валюта",
			query: "?currency=EUR",
			mockSetup: func(b *service_mocks.MockBalanceService, w *service_mocks.MockWalletService) {
				w.EXPECT().EnsureWallet(gomock.Any(), user).Return(models.Wallet{UserID: user}, nil)
				b.EXPECT().Breakdown(gomock.Any(), user, models.Currency("EUR")).Return(models.BalanceBreakdown{}, apperrors.ErrInvalidAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       "invalid amount",
		},
		{
			name: "ошибка базы не раскрывается",
			mockSetup: func(b *service_mocks.MockBalanceService, w *service_mocks.MockWalletService) {
				w.EXPECT().EnsureWallet(gomock.Any(), user).Return(models.Wallet{}, errors.New("pq: relation wallets does not exist"))
			},
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			balance := service_mocks.NewMockBalanceService(ctrl)
			wallets := service_mocks.NewMockWalletService(ctrl)
			tt.mockSetup(balance, wallets)
			h := &Handler{balanceService: balance, walletService: wallets}

			req := asUser(httptest.NewRequest(http.MethodGet, "/api/balance"+tt.query, nil), user)
			w := httptest.NewRecorder()
			h.GetBalance(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestHandler_GetBalance_Unauthorized(t *testing.T) {
	h := &Handler{}
	w := httptest.NewRecorder()
	h.GetBalance(w, httptest.NewRequest(http.MethodGet, "/api/balance", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_GetDeposits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := uuid.New()
	wallets := service_mocks.NewMockWalletService(ctrl)
	gomock.InOrder(
		wallets.EXPECT().ListDeposits(gomock.Any(), user, 10).Return(nil, nil),
		wallets.EXPECT().ListDeposits(gomock.Any(), user, 0).Return([]models.LedgerEntry{{Type: models.EntryDeposit}}, nil),
	)
	h := &Handler{walletService: wallets}

	w := httptest.NewRecorder()
	h.GetDeposits(w, asUser(httptest.NewRequest(http.MethodGet, "/api/deposits?limit=10", nil), user))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.GetDeposits(w, asUser(httptest.NewRequest(http.MethodGet, "/api/deposits", nil), user))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deposit"`)
}

func TestHandler_GetLimits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := uuid.New()
	wallets := service_mocks.NewMockWalletService(ctrl)
	wallets.EXPECT().Limits(gomock.Any(), user, models.Currency("")).Return(models.LimitsView{}, nil)
	h := &Handler{walletService: wallets}

	w := httptest.NewRecorder()
	h.GetLimits(w, asUser(httptest.NewRequest(http.MethodGet, "/api/limits", nil), user))
	assert.Equal(t, http.StatusOK, w.Code)
}
