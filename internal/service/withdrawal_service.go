package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/a2sh3r/onagui-ledger/internal/address"
	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/ledger"
	"github.com/a2sh3r/onagui-ledger/internal/metrics"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/repository"
	"github.com/a2sh3r/onagui-ledger/internal/tracing"
	"github.com/google/uuid"
)

//go:generate mockgen -source=withdrawal_service.go -destination=../mocks/service_mocks/withdrawal_service_mock.go -package=service_mocks

type WithdrawalService interface {
	Request(ctx context.Context, req models.WithdrawalRequest) (models.Withdrawal, bool, error)
	ValidateWithdrawal(ctx context.Context, req models.WithdrawalRequest) error
	StartReview(ctx context.Context, id, adminID uuid.UUID) (models.Withdrawal, error)
	Approve(ctx context.Context, id, approverID uuid.UUID, secondApproverID *uuid.UUID) (models.Withdrawal, error)
	Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (models.Withdrawal, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]models.Withdrawal, error)
	ListPending(ctx context.Context, limit int) ([]models.Withdrawal, error)
}

type withdrawalService struct {
	repo     repository.WithdrawalRepository
	resolver AdminResolver
	policy   ledger.Policy
	metrics  *metrics.Metrics
}

func NewWithdrawalService(repo repository.WithdrawalRepository, resolver AdminResolver, policy ledger.Policy, m *metrics.Metrics) WithdrawalService {
	return &withdrawalService{repo: repo, resolver: resolver, policy: policy, metrics: m}
}

func (s *withdrawalService) Request(ctx context.Context, req models.WithdrawalRequest) (models.Withdrawal, bool, error) {
	ctx, span := tracing.Start(ctx, "withdrawal.request")
	defer span.End()

	req, err := s.validate(req, true)
	if err != nil {
		s.metrics.Operation("withdrawal_request", outcome(err))
		return models.Withdrawal{}, false, err
	}

	var (
		w   models.Withdrawal
		dup bool
	)
	err = retryOnConflict(ctx, "withdrawal_request", s.metrics, func() error {
		var err error
		w, dup, err = s.repo.Create(ctx, req)
		return err
	})
	s.metrics.Operation("withdrawal_request", outcome(err))
	return w, dup, err
}

func (s *withdrawalService) ValidateWithdrawal(ctx context.Context, req models.WithdrawalRequest) error {
	req, err := s.validate(req, false)
	if err != nil {
		return err
	}
	return s.repo.CheckRequest(ctx, req)
}

func (s *withdrawalService) validate(req models.WithdrawalRequest, needKey bool) (models.WithdrawalRequest, error) {
	if req.UserID == uuid.Nil {
		return req, fmt.Errorf("%w: user id required", apperrors.ErrInvalidRequest)
	}
	if err := ledger.ValidateAmount(req.Amount); err != nil {
		return req, err
	}
	currency, err := ledger.NormalizeCurrency(req.Currency)
	if err != nil {
		return req, err
	}
	req.Currency = currency

	addr, err := address.ValidateEVM(req.ToAddress)
	if err != nil {
		return req, err
	}
	req.ToAddress = addr

	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if needKey && req.IdempotencyKey == "" {
		return req, fmt.Errorf("%w: idempotency key required", apperrors.ErrInvalidRequest)
	}
	return req, nil
}

func (s *withdrawalService) StartReview(ctx context.Context, id, adminID uuid.UUID) (models.Withdrawal, error) {
	if !s.resolver.IsAdmin(ctx, adminID) {
		return models.Withdrawal{}, apperrors.ErrUnauthorized
	}
	var w models.Withdrawal
	err := retryOnConflict(ctx, "withdrawal_review", s.metrics, func() error {
		var err error
		w, err = s.repo.MarkProcessing(ctx, id, adminID)
		return err
	})
	return w, err
}

// Approve settles a withdrawal. Amounts over the threshold need a second,
// distinct admin; the row stays untouched until both are present.
func (s *withdrawalService) Approve(ctx context.Context, id, approverID uuid.UUID, secondApproverID *uuid.UUID) (models.Withdrawal, error) {
	ctx, span := tracing.Start(ctx, "withdrawal.approve")
	defer span.End()

	if !s.resolver.IsAdmin(ctx, approverID) {
		return models.Withdrawal{}, apperrors.ErrUnauthorized
	}

	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Withdrawal{}, err
	}
	if w.Status.Terminal() {
		return w, nil
	}
	if err := s.policy.ValidateApprovers(w, approverID, secondApproverID); err != nil {
		s.metrics.Operation("withdrawal_approve", outcome(err))
		return models.Withdrawal{}, err
	}
	if s.policy.RequiresSecondApproval(w.Amount) && !s.resolver.IsAdmin(ctx, *secondApproverID) {
		s.metrics.Operation("withdrawal_approve", "denied")
		return models.Withdrawal{}, fmt.Errorf("%w: second approver is not an admin", apperrors.ErrUnauthorized)
	}

	cmd := models.ApprovalCommand{
		WithdrawalID:     id,
		ApproverID:       approverID,
		SecondApproverID: secondApproverID,
		Threshold:        s.policy.LargeWithdrawalThreshold,
	}
	err = retryOnConflict(ctx, "withdrawal_approve", s.metrics, func() error {
		var err error
		w, err = s.repo.Complete(ctx, cmd)
		return err
	})
	s.metrics.Operation("withdrawal_approve", outcome(err))
	if err != nil {
		return models.Withdrawal{}, err
	}
	return w, nil
}

func (s *withdrawalService) Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (models.Withdrawal, error) {
	if !s.resolver.IsAdmin(ctx, adminID) {
		return models.Withdrawal{}, apperrors.ErrUnauthorized
	}
	var w models.Withdrawal
	err := retryOnConflict(ctx, "withdrawal_reject", s.metrics, func() error {
		var err error
		w, err = s.repo.Reject(ctx, id, adminID, strings.TrimSpace(reason))
		return err
	})
	s.metrics.Operation("withdrawal_reject", outcome(err))
	return w, err
}

func (s *withdrawalService) List(ctx context.Context, userID uuid.UUID, limit int) ([]models.Withdrawal, error) {
	return s.repo.ListByUser(ctx, userID, listLimit(limit))
}

func (s *withdrawalService) ListPending(ctx context.Context, limit int) ([]models.Withdrawal, error) {
	return s.repo.ListPending(ctx, listLimit(limit))
}
