package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/mocks/service_mocks"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withResourceID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_CreateResource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creator := uuid.New()
	escrow := service_mocks.NewMockEscrowService(ctrl)
	escrow.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req models.RegisterResourceRequest) (models.Resource, error) {
			assert.Equal(t, creator, req.CreatorID)
			assert.Equal(t, models.ResourceGiveaway, req.Kind)
			return models.Resource{ID: uuid.New(), CreatorID: creator, Status: models.ResourceDraft}, nil
		})
	h := &Handler{escrowService: escrow}

	body := `{"kind":"giveaway","title":"Launch","prize_amount":"100","currency":"USDT"}`
	w := httptest.NewRecorder()
	h.CreateResource(w, asUser(httptest.NewRequest(http.MethodPost, "/api/resources", strings.NewReader(body)), creator))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"draft"`)
}

func TestHandler_ActivateResource(t *testing.T) {
	creator := uuid.New()
	resID := uuid.New()

	tests := []struct {
		name           string
		id             string
		body           string
		mockSetup      func(m *service_mocks.MockEscrowService)
		wantStatusCode int
		wantBody       string
	}{
		{
			name: "приз резервируется из кошелька",
			id:   resID.String(),
			mockSetup: func(m *service_mocks.MockEscrowService) {
				m.EXPECT().Activate(gomock.Any(), resID, creator, decimal.Decimal{}).
					Return(models.EscrowResult{HoldStatus: models.HoldHeld}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `"hold_status":"held"`,
		},
		{
			name: "не хватает средств на приз",
			id:   resID.String(),
			body: `{"required_amount":"500"}`,
			mockSetup: func(m *service_mocks.MockEscrowService) {
				m.EXPECT().Activate(gomock.Any(), resID, creator, decimal.RequireFromString("500")).
					Return(models.EscrowResult{}, apperrors.ErrInsufficientEscrowFunds)
			},
			wantStatusCode: http.StatusPaymentRequired,
			wantBody:       "to fund the prize",
		},
		{
			name:           "битый идентификатор",
			id:             "nope",
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

			req := httptest.NewRequest(http.MethodPost, "/api/resources/"+tt.id+"/activate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.ActivateResource(w, withResourceID(asUser(req, creator), tt.id))

			assert.Equal(t, tt.wantStatusCode, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandler_CompleteResource_NoWinner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creator := uuid.New()
	resID := uuid.New()
	escrow := service_mocks.NewMockEscrowService(ctrl)
	escrow.EXPECT().Complete(gomock.Any(), resID, creator, nil).
		Return(models.EscrowResult{}, apperrors.ErrInvalidResourceState)
	pub := &recordingPublisher{}
	h := NewHandler(Dependencies{Escrow: escrow, Publisher: pub})

	req := httptest.NewRequest(http.MethodPost, "/api/resources/"+resID.String()+"/complete", nil)
	w := httptest.NewRecorder()
	h.CompleteResource(w, withResourceID(asUser(req, creator), resID.String()))

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, pub.types())
}

func TestHandler_GetResource_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	resID := uuid.New()
	escrow := service_mocks.NewMockEscrowService(ctrl)
	escrow.EXPECT().Get(gomock.Any(), resID).Return(models.Resource{}, apperrors.ErrNotFound)
	h := &Handler{escrowService: escrow}

	w := httptest.NewRecorder()
	h.GetResource(w, withResourceID(httptest.NewRequest(http.MethodGet, "/api/resources/"+resID.String(), nil), resID.String()))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

