package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/mocks/service_mocks"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/notify"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminMocks struct {
	withdrawals *service_mocks.MockWithdrawalService
	passphrase  *service_mocks.MockPassphraseChecker
}

func TestHandler_ProcessTransaction(t *testing.T) {
	admin := uuid.New()
	owner := uuid.New()
	wdID := uuid.New()
	second := uuid.New()

	body := func(action, extra string) string {
		return `{"withdrawal_id":"` + wdID.String() + `","action":"` + action + `","passphrase":"secret"` + extra + `}`
	}

	tests := []struct {
		name           string
		body           string
		mockSetup      func(m adminMocks)
		wantStatusCode int
		wantBody       string
		wantEvents     []string
	}{
		{
			name: "подтверждение выплаты",
			body: body("approve", `,"second_approver_id":"`+second.String()+`"`),
			mockSetup: func(m adminMocks) {
				m.passphrase.EXPECT().Verify("secret").Return(nil)
				m.withdrawals.EXPECT().Approve(gomock.Any(), wdID, admin, &second).
					Return(models.Withdrawal{ID: wdID, UserID: owner, Status: models.WithdrawalCompleted}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `"status":"completed"`,
			wantEvents:     []string{notify.EventWithdrawalCompleted},
		},
		{
			name: "крупная сумма без второго подтверждающего",
			body: body("approve", ""),
			mockSetup: func(m adminMocks) {
				m.passphrase.EXPECT().Verify("secret").Return(nil)
				m.withdrawals.EXPECT().Approve(gomock.Any(), wdID, admin, nil).
					Return(models.Withdrawal{}, apperrors.ErrSecondApprovalRequired)
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantBody:       "second approver",
		},
		{
			name: "отклонение публикует событие",
			body: body("reject", `,"reason":"aml"`),
			mockSetup: func(m adminMocks) {
				m.passphrase.EXPECT().Verify("secret").Return(nil)
				m.withdrawals.EXPECT().Reject(gomock.Any(), wdID, admin, "aml").
					Return(models.Withdrawal{ID: wdID, UserID: owner, Status: models.WithdrawalRejected}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantEvents:     []string{notify.EventWithdrawalRejected},
		},
		{
			name: "взятие в работу без события",
			body: body("review", ""),
			mockSetup: func(m adminMocks) {
				m.passphrase.EXPECT().Verify("secret").Return(nil)
				m.withdrawals.EXPECT().StartReview(gomock.Any(), wdID, admin).
					Return(models.Withdrawal{ID: wdID, Status: models.WithdrawalProcessing}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "неверная парольная фраза",
			body: body("approve", ""),
			mockSetup: func(m adminMocks) {
				m.passphrase.EXPECT().Verify("secret").Return(apperrors.ErrInvalidCredentials)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       "invalid admin passphrase",
		},
		{
			name: "неизвестное действие",
			body: body("delete", ""),
			mockSetup: func(m adminMocks) {
				m.passphrase.EXPECT().Verify("secret").Return(nil)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "нет идентификатора заявки",
			body:           `{"action":"approve","passphrase":"secret"}`,
			mockSetup:      func(m adminMocks) {},
			wantStatusCode: http.StatusBadRequest,
			wantBody:       "withdrawal_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := adminMocks{
				withdrawals: service_mocks.NewMockWithdrawalService(ctrl),
				passphrase:  service_mocks.NewMockPassphraseChecker(ctrl),
			}
			tt.mockSetup(m)
			pub := &recordingPublisher{}
			h := NewHandler(Dependencies{Withdrawals: m.withdrawals, Passphrase: m.passphrase, Publisher: pub})

			req := asUser(httptest.NewRequest(http.MethodPost, "/api/admin/process-transaction", strings.NewReader(tt.body)), admin)
			w := httptest.NewRecorder()
			h.ProcessTransaction(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			if tt.wantEvents == nil {
				assert.Empty(t, pub.types())
			} else {
				assert.Equal(t, tt.wantEvents, pub.types())
			}
		})
	}
}

func TestHandler_SetGiveawayStatus(t *testing.T) {
	admin := uuid.New()
	resID := uuid.New()

	tests := []struct {
		name           string
		status         string
		mockSetup      func(m *service_mocks.MockEscrowService)
		wantStatusCode int
	}{
		{
			name:   "публикация без эскроу",
			status: "active",
			mockSetup: func(m *service_mocks.MockEscrowService) {
				m.EXPECT().Activate(gomock.Any(), resID, admin, decimal.Zero).
					Return(models.EscrowResult{Bypassed: true, Resource: models.Resource{ID: resID, Status: models.ResourceActive}}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "снятие с публикации",
			status: "draft",
			mockSetup: func(m *service_mocks.MockEscrowService) {
				m.EXPECT().Unpublish(gomock.Any(), resID, admin, "").
					Return(models.EscrowResult{Resource: models.Resource{ID: resID, Status: models.ResourceDraft}}, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:   "отмена",
			status: "cancelled",
			mockSetup: func(m *service_mocks.MockEscrowService) {
				m.EXPECT().Cancel(gomock.Any(), resID, admin, "").
					Return(models.EscrowResult{}, apperrors.ErrInvalidResourceState)
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:           "неизвестный статус",
			status:         "archived",
			mockSetup:      func(m *service_mocks.MockEscrowService) {},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			escrow := service_mocks.NewMockEscrowService(ctrl)
			tt.mockSetup(escrow)
			h := &Handler{escrowService: escrow}

			body := `{"resource_id":"` + resID.String() + `","status":"` + tt.status + `"}`
			req := asUser(httptest.NewRequest(http.MethodPost, "/api/admin/giveaways/status", strings.NewReader(body)), admin)
			w := httptest.NewRecorder()
			h.SetGiveawayStatus(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
		})
	}
}

func TestHandler_CompleteGiveaway_PublishesEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := uuid.New()
	resID := uuid.New()
	winner := uuid.New()

	escrow := service_mocks.NewMockEscrowService(ctrl)
	escrow.EXPECT().Complete(gomock.Any(), resID, admin, &winner).Return(models.EscrowResult{
		Resource:   models.Resource{ID: resID, WinnerID: &winner, Status: models.ResourceCompleted},
		HoldStatus: models.HoldReleased,
	}, nil)
	pub := &recordingPublisher{}
	h := NewHandler(Dependencies{Escrow: escrow, Publisher: pub})

	body := `{"resource_id":"` + resID.String() + `","winner_id":"` + winner.String() + `"}`
	w := httptest.NewRecorder()
	h.CompleteGiveaway(w, asUser(httptest.NewRequest(http.MethodPost, "/api/admin/giveaways/complete", strings.NewReader(body)), admin))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{notify.EventEscrowReleased, notify.EventWinnerFinalized}, pub.types())
}

func TestHandler_CompleteGiveaway_BypassedPublishesOnlyWinner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := uuid.New()
	resID := uuid.New()
	winner := uuid.New()

	escrow := service_mocks.NewMockEscrowService(ctrl)
	escrow.EXPECT().Complete(gomock.Any(), resID, admin, &winner).Return(models.EscrowResult{
		Resource: models.Resource{
			ID: resID, WinnerID: &winner, Status: models.ResourceCompleted, PrizeAmount: decimal.NewFromInt(1000),
		},
		HoldStatus: models.HoldNone,
		Bypassed:   true,
		Payout:     decimal.NewFromInt(250),
	}, nil)
	pub := &recordingPublisher{}
	h := NewHandler(Dependencies{Escrow: escrow, Publisher: pub})

	body := `{"resource_id":"` + resID.String() + `","winner_id":"` + winner.String() + `"}`
	w := httptest.NewRecorder()
	h.CompleteGiveaway(w, asUser(httptest.NewRequest(http.MethodPost, "/api/admin/giveaways/complete", strings.NewReader(body)), admin))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{notify.EventWinnerFinalized}, pub.types())
	data, ok := pub.events[0].Data.(map[string]any)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(250).Equal(data["prize"].(decimal.Decimal)))
}

func TestHandler_PickWinner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := uuid.New()
	resID := uuid.New()
	winner := uuid.New()

	escrow := service_mocks.NewMockEscrowService(ctrl)
	escrow.EXPECT().DrawWinner(gomock.Any(), resID, admin, winner).
		Return(models.Resource{ID: resID, TempWinnerID: &winner}, nil)
	h := &Handler{escrowService: escrow}

	w := httptest.NewRecorder()
	h.PickWinner(w, asUser(httptest.NewRequest(http.MethodPost, "/api/admin/giveaways/winner",
		strings.NewReader(`{"resource_id":"`+resID.String()+`"}`)), admin))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.PickWinner(w, asUser(httptest.NewRequest(http.MethodPost, "/api/admin/giveaways/winner",
		strings.NewReader(`{"resource_id":"`+resID.String()+`","winner_id":"`+winner.String()+`"}`)), admin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), winner.String())
}

func TestHandler_ReverseEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := uuid.New()
	entryID := uuid.New()

	wallets := service_mocks.NewMockWalletService(ctrl)
	wallets.EXPECT().Reverse(gomock.Any(), entryID, admin, "chargeback").Return(models.LedgerEntry{}, apperrors.ErrNotFound)
	h := &Handler{walletService: wallets}

	body := `{"entry_id":"` + entryID.String() + `","reason":"chargeback"}`
	w := httptest.NewRecorder()
	h.ReverseEntry(w, asUser(httptest.NewRequest(http.MethodPost, "/api/admin/ledger/reverse", strings.NewReader(body)), admin))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_RequireAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := uuid.New()
	user := uuid.New()

	admins := service_mocks.NewMockAdminResolver(ctrl)
	admins.EXPECT().IsAdmin(gomock.Any(), admin).Return(true)
	admins.EXPECT().IsAdmin(gomock.Any(), user).Return(false)
	h := &Handler{admins: admins}

	next := h.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	next.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodGet, "/", nil), admin))
	assert.Equal(t, http.StatusTeapot, w.Code)

	w = httptest.NewRecorder()
	next.ServeHTTP(w, asUser(httptest.NewRequest(http.MethodGet, "/", nil), user))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	next.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
