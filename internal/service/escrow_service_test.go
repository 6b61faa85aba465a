package service

import (
	"context"
	"errors"
	"testing"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/mocks/repository_mocks"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStrategy struct {
	calls  int
	winner *uuid.UUID
}

func (s *recordingStrategy) Name() string { return "recording" }

func (s *recordingStrategy) Pick(_ context.Context, res models.Resource, winnerID *uuid.UUID, _ uuid.UUID) (models.Resource, error) {
	s.calls++
	s.winner = winnerID
	res.TempWinnerID = winnerID
	res.Version++
	return res, nil
}

func TestEscrowService_Activate(t *testing.T) {
	creator, admin := uuid.New(), uuid.New()
	resID := uuid.New()
	userRes := models.Resource{ID: resID, CreatorID: creator, Status: models.ResourceDraft}
	adminRes := models.Resource{ID: resID, CreatorID: admin, Status: models.ResourceDraft}

	t.Run("создатель резервирует средства", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository_mocks.NewMockEscrowRepository(ctrl)
		repo.EXPECT().GetResource(gomock.Any(), resID).Return(userRes, nil)
		repo.EXPECT().Activate(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cmd models.ActivationCommand) (models.EscrowResult, error) {
				assert.False(t, cmd.ActorIsAdmin)
				assert.False(t, cmd.CreatorIsAdmin)
				assert.True(t, cmd.RequiredAmount.Equal(dec("50")))
				return models.EscrowResult{HoldStatus: models.HoldHeld}, nil
			})

		svc := NewEscrowService(repo, stubResolver{admin: true}, &recordingStrategy{}, nil)
		res, err := svc.Activate(context.Background(), resID, creator, dec("50"))
		require.NoError(t, err)
		assert.Equal(t, models.HoldHeld, res.HoldStatus)
	})

	t.Run("недостаточно средств для эскроу", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository_mocks.NewMockEscrowRepository(ctrl)
		repo.EXPECT().GetResource(gomock.Any(), resID).Return(userRes, nil)
		repo.EXPECT().Activate(gomock.Any(), gomock.Any()).Return(models.EscrowResult{}, apperrors.ErrInsufficientEscrowFunds)

		svc := NewEscrowService(repo, stubResolver{}, &recordingStrategy{}, nil)
		_, err := svc.Activate(context.Background(), resID, creator, dec("50"))
		assert.ErrorIs(t, err, apperrors.ErrInsufficientEscrowFunds)
	})

	t.Run("админ публикует свой ресурс без эскроу", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository_mocks.NewMockEscrowRepository(ctrl)
		repo.EXPECT().GetResource(gomock.Any(), resID).Return(adminRes, nil)
		repo.EXPECT().Activate(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cmd models.ActivationCommand) (models.EscrowResult, error) {
				assert.True(t, cmd.ActorIsAdmin)
				assert.True(t, cmd.CreatorIsAdmin)
				return models.EscrowResult{HoldStatus: models.HoldNone, Bypassed: true}, nil
			})

		svc := NewEscrowService(repo, stubResolver{admin: true}, &recordingStrategy{}, nil)
		res, err := svc.Activate(context.Background(), resID, admin, dec("50"))
		require.NoError(t, err)
		assert.True(t, res.Bypassed)
	})

	t.Run("админ публикует чужой ресурс", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository_mocks.NewMockEscrowRepository(ctrl)
		repo.EXPECT().GetResource(gomock.Any(), resID).Return(userRes, nil)
		repo.EXPECT().Activate(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cmd models.ActivationCommand) (models.EscrowResult, error) {
				assert.True(t, cmd.ActorIsAdmin)
				assert.False(t, cmd.CreatorIsAdmin)
				return models.EscrowResult{}, apperrors.ErrInsufficientEscrowFunds
			})

		svc := NewEscrowService(repo, stubResolver{admin: true}, &recordingStrategy{}, nil)
		_, err := svc.Activate(context.Background(), resID, admin, decimal.Zero)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientEscrowFunds)
	})

	t.Run("ресурс не найден", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository_mocks.NewMockEscrowRepository(ctrl)
		repo.EXPECT().GetResource(gomock.Any(), resID).Return(models.Resource{}, apperrors.ErrNotFound)

		svc := NewEscrowService(repo, stubResolver{}, &recordingStrategy{}, nil)
		_, err := svc.Activate(context.Background(), resID, creator, dec("50"))
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("отрицательная сумма", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository_mocks.NewMockEscrowRepository(ctrl)
		svc := NewEscrowService(repo, stubResolver{}, &recordingStrategy{}, nil)
		_, err := svc.Activate(context.Background(), resID, creator, dec("-1"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})
}

func TestEscrowService_Complete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creator, admin, winner := uuid.New(), uuid.New(), uuid.New()
	resID := uuid.New()

	repo := repository_mocks.NewMockEscrowRepository(ctrl)
	repo.EXPECT().GetResource(gomock.Any(), resID).Return(models.Resource{ID: resID, CreatorID: creator, Status: models.ResourceActive}, nil)
	repo.EXPECT().Complete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd models.CompletionCommand) (models.EscrowResult, error) {
			assert.True(t, cmd.ActorIsAdmin)
			assert.False(t, cmd.CreatorIsAdmin)
			assert.Equal(t, winner, *cmd.WinnerID)
			return models.EscrowResult{HoldStatus: models.HoldReleased, Payout: dec("10")}, nil
		})

	svc := NewEscrowService(repo, stubResolver{admin: true}, &recordingStrategy{}, nil)
	res, err := svc.Complete(context.Background(), resID, admin, &winner)
	require.NoError(t, err)
	assert.True(t, res.Payout.Equal(dec("10")))
}

func TestEscrowService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin := uuid.New()
	repo := repository_mocks.NewMockEscrowRepository(ctrl)
	repo.EXPECT().CreateResource(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, res models.Resource) (models.Resource, error) {
			assert.True(t, res.AdminAuthored)
			assert.Equal(t, models.CurrencyUSDT, res.Currency)
			assert.Equal(t, "Spring giveaway", res.Title)
			res.ID = uuid.New()
			res.Status = models.ResourceDraft
			return res, nil
		})

	svc := NewEscrowService(repo, stubResolver{admin: true}, &recordingStrategy{}, nil)
	res, err := svc.Register(context.Background(), models.RegisterResourceRequest{
		Kind: models.ResourceGiveaway, CreatorID: admin, Title: " Spring giveaway ", PrizeAmount: dec("25"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResourceDraft, res.Status)

	_, err = svc.Register(context.Background(), models.RegisterResourceRequest{Kind: "lottery", CreatorID: admin})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestEscrowService_Unpublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	admin, user := uuid.New(), uuid.New()
	resID := uuid.New()

	repo := repository_mocks.NewMockEscrowRepository(ctrl)
	repo.EXPECT().Cancel(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd models.CancelCommand) (models.EscrowResult, error) {
			assert.Equal(t, models.ResourceDraft, cmd.Target)
			assert.Equal(t, "admin unpublish", cmd.Reason)
			return models.EscrowResult{HoldStatus: models.HoldCancelled}, nil
		})

	svc := NewEscrowService(repo, stubResolver{admin: true}, &recordingStrategy{}, nil)

	_, err := svc.Unpublish(context.Background(), resID, user, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	res, err := svc.Unpublish(context.Background(), resID, admin, "")
	require.NoError(t, err)
	assert.Equal(t, models.HoldCancelled, res.HoldStatus)
}

func TestEscrowService_DrawWinner(t *testing.T) {
	creator, admin, stranger, winner := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	active := models.Resource{ID: uuid.New(), CreatorID: creator, Status: models.ResourceActive, Version: 3}

	tests := []struct {
		name      string
		res       models.Resource
		actor     uuid.UUID
		wantErr   error
		wantCalls int
	}{
		{name: "создатель выбирает победителя", res: active, actor: creator, wantCalls: 1},
		{name: "админ выбирает победителя", res: active, actor: admin, wantCalls: 1},
		{name: "посторонний пользователь", res: active, actor: stranger, wantErr: apperrors.ErrUnauthorized},
		{
			name:    "ресурс не активен",
			res:     models.Resource{ID: uuid.New(), CreatorID: creator, Status: models.ResourceDraft},
			actor:   creator,
			wantErr: apperrors.ErrInvalidResourceState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repository_mocks.NewMockEscrowRepository(ctrl)
			repo.EXPECT().GetResource(gomock.Any(), tt.res.ID).Return(tt.res, nil)
			strategy := &recordingStrategy{}

			svc := NewEscrowService(repo, stubResolver{admin: true}, strategy, nil)
			got, err := svc.DrawWinner(context.Background(), tt.res.ID, tt.actor, winner)
			assert.Equal(t, tt.wantCalls, strategy.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, winner, *got.TempWinnerID)
			assert.Equal(t, int64(4), got.Version)
		})
	}
}

func TestEscrowService_Repick(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	creator := uuid.New()
	res := models.Resource{ID: uuid.New(), CreatorID: creator, Status: models.ResourceActive}
	repo := repository_mocks.NewMockEscrowRepository(ctrl)
	repo.EXPECT().GetResource(gomock.Any(), res.ID).Return(res, nil)
	strategy := &recordingStrategy{}

	svc := NewEscrowService(repo, stubResolver{}, strategy, nil)
	_, err := svc.Repick(context.Background(), res.ID, creator)
	require.NoError(t, err)
	assert.Nil(t, strategy.winner)
}

func TestSelectWinnerStrategy(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		err  error
		want string
	}{
		{name: "функция установлена", ok: true, want: "canonical"},
		{name: "функции нет", ok: false, want: "fallback"},
		{name: "ошибка проверки", err: errors.New("boom"), want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repository_mocks.NewMockEscrowRepository(ctrl)
			repo.EXPECT().HasWinnerFunction(gomock.Any()).Return(tt.ok, tt.err)

			assert.Equal(t, tt.want, SelectWinnerStrategy(context.Background(), repo).Name())
		})
	}
}

func TestWinnerStrategies_Pick(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor, winner := uuid.New(), uuid.New()
	res := models.Resource{ID: uuid.New(), Version: 7}

	repo := repository_mocks.NewMockEscrowRepository(ctrl)
	repo.EXPECT().PickWinnerCanonical(gomock.Any(), res.ID, &winner, int64(7)).Return(models.Resource{Version: 8}, nil)
	repo.EXPECT().PickWinnerDirect(gomock.Any(), res.ID, &winner, int64(7), actor, fallbackPickNote).
		Return(models.Resource{}, apperrors.ErrConcurrencyConflict)

	got, err := (&CanonicalStrategy{repo: repo}).Pick(context.Background(), res, &winner, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.Version)

	_, err = (&FallbackStrategy{repo: repo}).Pick(context.Background(), res, &winner, actor)
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
}
