package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/mocks/service_mocks"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type rpcMocks struct {
	balance     *service_mocks.MockBalanceService
	wallets     *service_mocks.MockWalletService
	transfers   *service_mocks.MockTransferService
	withdrawals *service_mocks.MockWithdrawalService
	guard       *service_mocks.MockGuardService
	admins      *service_mocks.MockAdminResolver
}

func callRPC(h *Handler, name, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/rpc/"+name, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", name)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()
	h.RPC(w, req)
	return w
}

func TestHandler_RPC(t *testing.T) {
	user := uuid.New()
	to := uuid.New()
	transferID := uuid.New()

	tests := []struct {
		name           string
		function       string
		body           string
		mockSetup      func(m rpcMocks)
		wantStatusCode int
		wantBody       string
	}{
		{
			name:     "баланс пользователя",
			function: "get_user_balance",
			body:     `{"user_uuid":"` + user.String() + `","p_currency":"USDT"}`,
			mockSetup: func(m rpcMocks) {
				m.wallets.EXPECT().EnsureWallet(gomock.Any(), user).Return(models.Wallet{UserID: user}, nil)
				m.balance.EXPECT().GetBalance(gomock.Any(), user, models.CurrencyUSDT).Return(decimal.RequireFromString("12.5"), nil)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `"12.5"`,
		},
		{
			name:     "доступный баланс",
			function: "get_available_balance",
			body:     `{"p_user_id":"` + user.String() + `","p_currency":"USDT"}`,
			mockSetup: func(m rpcMocks) {
				m.balance.EXPECT().GetAvailableBalance(gomock.Any(), user, models.CurrencyUSDT).Return(decimal.RequireFromString("7"), nil)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `"7"`,
		},
		{
			name:     "перевод возвращает идентификатор",
			function: "process_transfer",
			body:     `{"p_from_user":"` + user.String() + `","p_to_user":"` + to.String() + `","p_amount":"5","p_currency":"USDT","p_reference":"r-1"}`,
			mockSetup: func(m rpcMocks) {
				m.transfers.EXPECT().Transfer(gomock.Any(), models.TransferRequest{
					FromUser: user, ToUser: to, Amount: decimal.RequireFromString("5"),
					Currency: models.CurrencyUSDT, IdempotencyKey: "r-1",
				}).Return(models.TransferResult{TransferID: transferID}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       transferID.String(),
		},
		{
			name:     "перевод без средств",
			function: "process_transfer",
			body:     `{"p_from_user":"` + user.String() + `","p_to_user":"` + to.String() + `","p_amount":"5","p_currency":"USDT"}`,
			mockSetup: func(m rpcMocks) {
				m.transfers.EXPECT().Transfer(gomock.Any(), gomock.Any()).Return(models.TransferResult{}, apperrors.ErrInsufficientBalance)
			},
			wantStatusCode: http.StatusPaymentRequired,
		},
		{
			name:     "проверка перевода отвечает false на нарушение правил",
			function: "validate_transfer_request",
			body:     `{"p_from_user":"` + user.String() + `","p_to_user":"` + user.String() + `","p_amount":"5","p_currency":"USDT"}`,
			mockSetup: func(m rpcMocks) {
				m.transfers.EXPECT().ValidateTransfer(gomock.Any(), gomock.Any()).Return(apperrors.ErrInvalidRequest)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       "false",
		},
		{
			name:     "проверка вывода проходит",
			function: "validate_withdrawal_request",
			body:     `{"p_user_id":"` + user.String() + `","p_amount":"5","p_currency":"USDT","p_to_address":"0x52908400098527886e0f7030069857d2e4169ee7"}`,
			mockSetup: func(m rpcMocks) {
				m.withdrawals.EXPECT().ValidateWithdrawal(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       "true",
		},
		{
			name:     "ошибка базы при проверке вывода",
			function: "validate_withdrawal_request",
			body:     `{"p_user_id":"` + user.String() + `"}`,
			mockSetup: func(m rpcMocks) {
				m.withdrawals.EXPECT().ValidateWithdrawal(gomock.Any(), gomock.Any()).Return(assert.AnError)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:     "признак администратора",
			function: "is_admin_user",
			body:     `{"user_uuid":"` + user.String() + `"}`,
			mockSetup: func(m rpcMocks) {
				m.admins.EXPECT().IsAdmin(gomock.Any(), user).Return(true)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       "true",
		},
		{
			name:     "ограничение частоты",
			function: "check_rate_limit",
			body:     `{"p_user_id":"` + user.String() + `","p_operation":"transfer","p_limit":10,"p_window_minutes":60}`,
			mockSetup: func(m rpcMocks) {
				m.guard.EXPECT().CheckRateLimit(gomock.Any(), user, "transfer", 10, gomock.Any()).Return(false, 30*time.Second)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       "false",
		},
		{
			name:           "ограничение частоты без операции",
			function:       "check_rate_limit",
			body:           `{"p_user_id":"` + user.String() + `"}`,
			mockSetup:      func(m rpcMocks) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:     "повтор идемпотентного запроса",
			function: "check_idempotency",
			body:     `{"p_idempotency_key":"k-1","p_operation":"transfer","p_request_data":{"a":1}}`,
			mockSetup: func(m rpcMocks) {
				m.guard.EXPECT().CheckIdempotency(gomock.Any(), "k-1", "transfer", service.HashRequest([]byte(`{"a":1}`))).
					Return(models.IdempotencyCheck{IsDuplicate: true, Record: &models.IdempotencyRecord{
						ResponseCode: http.StatusOK, ResponseBody: []byte(`{"ok":true}`),
					}}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `"response_data":{"ok":true}`,
		},
		{
			name:     "сохранение ответа",
			function: "store_idempotency_response",
			body:     `{"p_idempotency_key":"k-1","p_response_data":{"ok":true}}`,
			mockSetup: func(m rpcMocks) {
				m.guard.EXPECT().StoreResponse(gomock.Any(), "k-1", http.StatusOK, gomock.Any()).Return(nil)
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name:           "неизвестная функция",
			function:       "drop_everything",
			mockSetup:      func(m rpcMocks) {},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := rpcMocks{
				balance:     service_mocks.NewMockBalanceService(ctrl),
				wallets:     service_mocks.NewMockWalletService(ctrl),
				transfers:   service_mocks.NewMockTransferService(ctrl),
				withdrawals: service_mocks.NewMockWithdrawalService(ctrl),
				guard:       service_mocks.NewMockGuardService(ctrl),
				admins:      service_mocks.NewMockAdminResolver(ctrl),
			}
			tt.mockSetup(m)
			h := NewHandler(Dependencies{
				Balance:     m.balance,
				Wallets:     m.wallets,
				Transfers:   m.transfers,
				Withdrawals: m.withdrawals,
				Guard:       m.guard,
				Admins:      m.admins,
			})

			w := callRPC(h, tt.function, tt.body)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}
