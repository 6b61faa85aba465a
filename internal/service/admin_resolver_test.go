package service

import (
	"context"
	"errors"
	"testing"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/mocks/repository_mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeStrategy struct {
	name   string
	answer bool
	err    error
	calls  int
}

func (s *fakeStrategy) Name() string { return s.name }

func (s *fakeStrategy) IsAdmin(context.Context, uuid.UUID) (bool, error) {
	s.calls++
	return s.answer, s.err
}

func TestAdminResolver_IsAdmin(t *testing.T) {
	user := uuid.New()

	t.Run("первый положительный ответ побеждает", func(t *testing.T) {
		first := &fakeStrategy{name: "a", answer: true}
		second := &fakeStrategy{name: "b", answer: true}

		assert.True(t, NewAdminResolver(first, second).IsAdmin(context.Background(), user))
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 0, second.calls)
	})

	t.Run("ошибка стратегии пропускается", func(t *testing.T) {
		broken := &fakeStrategy{name: "rpc", err: errors.New("timeout")}
		role := &fakeStrategy{name: "role", answer: true}

		assert.True(t, NewAdminResolver(broken, role).IsAdmin(context.Background(), user))
		assert.Equal(t, 1, role.calls)
	})

	t.Run("все стратегии отвечают нет", func(t *testing.T) {
		a := &fakeStrategy{name: "a"}
		b := &fakeStrategy{name: "b", err: errors.New("down")}

		assert.False(t, NewAdminResolver(a, b).IsAdmin(context.Background(), user))
	})

	t.Run("нулевой идентификатор", func(t *testing.T) {
		a := &fakeStrategy{name: "a", answer: true}

		assert.False(t, NewAdminResolver(a).IsAdmin(context.Background(), uuid.Nil))
		assert.Equal(t, 0, a.calls)
	})

	t.Run("кэш на запрос", func(t *testing.T) {
		a := &fakeStrategy{name: "a", answer: true}
		r := NewAdminResolver(a)

		ctx := WithAdminCache(context.Background())
		r.IsAdmin(ctx, user)
		r.IsAdmin(ctx, user)
		assert.Equal(t, 1, a.calls)

		r.IsAdmin(context.Background(), user)
		r.IsAdmin(context.Background(), user)
		assert.Equal(t, 3, a.calls)
	})
}

func TestWhitelistStrategy(t *testing.T) {
	user := uuid.New()

	t.Run("email из токена", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository_mocks.NewMockAdminRepository(ctrl)
		s := NewWhitelistStrategy([]string{" Admin@Onagui.io "}, repo)

		ctx := WithKnownEmail(context.Background(), user, "admin@onagui.io")
		ok, err := s.IsAdmin(ctx, user)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("email из профиля", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository_mocks.NewMockAdminRepository(ctrl)
		repo.EXPECT().GetEmail(gomock.Any(), user).Return("someone@example.com", nil)
		s := NewWhitelistStrategy([]string{"admin@onagui.io"}, repo)

		ok, err := s.IsAdmin(context.Background(), user)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("профиль не найден", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository_mocks.NewMockAdminRepository(ctrl)
		repo.EXPECT().GetEmail(gomock.Any(), user).Return("", apperrors.ErrNotFound)
		s := NewWhitelistStrategy([]string{"admin@onagui.io"}, repo)

		ok, err := s.IsAdmin(context.Background(), user)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("пустой список", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		s := NewWhitelistStrategy(nil, repository_mocks.NewMockAdminRepository(ctrl))
		ok, err := s.IsAdmin(context.Background(), user)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestProfileAndRoleStrategies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := uuid.New()
	repo := repository_mocks.NewMockAdminRepository(ctrl)
	repo.EXPECT().IsProfileAdmin(gomock.Any(), user).Return(false, nil)
	repo.EXPECT().HasRole(gomock.Any(), user, "admin").Return(true, nil)

	r := NewAdminResolver(NewProfileFlagStrategy(repo), NewRoleStrategy(repo))
	assert.True(t, r.IsAdmin(context.Background(), user))
}
