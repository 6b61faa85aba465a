package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/ledger"
	"github.com/a2sh3r/onagui-ledger/internal/metrics"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/repository"
	"github.com/a2sh3r/onagui-ledger/internal/tracing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=escrow_service.go -destination=../mocks/service_mocks/escrow_service_mock.go -package=service_mocks

type EscrowService interface {
	Register(ctx context.Context, req models.RegisterResourceRequest) (models.Resource, error)
	Get(ctx context.Context, resourceID uuid.UUID) (models.Resource, error)
	Activate(ctx context.Context, resourceID, actorID uuid.UUID, requiredAmount decimal.Decimal) (models.EscrowResult, error)
	Complete(ctx context.Context, resourceID, actorID uuid.UUID, winnerID *uuid.UUID) (models.EscrowResult, error)
	Cancel(ctx context.Context, resourceID, actorID uuid.UUID, reason string) (models.EscrowResult, error)
	Unpublish(ctx context.Context, resourceID, adminID uuid.UUID, reason string) (models.EscrowResult, error)
	DrawWinner(ctx context.Context, resourceID, actorID, winnerID uuid.UUID) (models.Resource, error)
	Repick(ctx context.Context, resourceID, actorID uuid.UUID) (models.Resource, error)
}

type escrowService struct {
	repo     repository.EscrowRepository
	resolver AdminResolver
	winners  WinnerStrategy
	metrics  *metrics.Metrics
}

func NewEscrowService(repo repository.EscrowRepository, resolver AdminResolver, winners WinnerStrategy, m *metrics.Metrics) EscrowService {
	return &escrowService{repo: repo, resolver: resolver, winners: winners, metrics: m}
}

func (s *escrowService) Register(ctx context.Context, req models.RegisterResourceRequest) (models.Resource, error) {
	if !req.Kind.Valid() {
		return models.Resource{}, fmt.Errorf("%w: unknown resource kind %q", apperrors.ErrInvalidRequest, req.Kind)
	}
	if req.CreatorID == uuid.Nil {
		return models.Resource{}, fmt.Errorf("%w: creator required", apperrors.ErrInvalidRequest)
	}
	if req.PrizeAmount.IsNegative() || !req.PrizeAmount.Equal(req.PrizeAmount.Round(ledger.Scale)) {
		return models.Resource{}, fmt.Errorf("%w: bad prize amount", apperrors.ErrInvalidAmount)
	}
	currency, err := ledger.NormalizeCurrency(req.Currency)
	if err != nil {
		return models.Resource{}, err
	}

	return s.repo.CreateResource(ctx, models.Resource{
		Kind:          req.Kind,
		CreatorID:     req.CreatorID,
		Title:         strings.TrimSpace(req.Title),
		PrizeAmount:   req.PrizeAmount,
		Currency:      currency,
		AdminAuthored: s.resolver.IsAdmin(ctx, req.CreatorID),
	})
}

func (s *escrowService) Get(ctx context.Context, resourceID uuid.UUID) (models.Resource, error) {
	return s.repo.GetResource(ctx, resourceID)
}

// Activate reserves the creator's funds for the prize. Resources created by
// an admin skip the reservation, whoever publishes them.
func (s *escrowService) Activate(ctx context.Context, resourceID, actorID uuid.UUID, requiredAmount decimal.Decimal) (models.EscrowResult, error) {
	ctx, span := tracing.Start(ctx, "escrow.activate")
	defer span.End()

	if requiredAmount.IsNegative() || !requiredAmount.Equal(requiredAmount.Round(ledger.Scale)) {
		return models.EscrowResult{}, apperrors.ErrInvalidAmount
	}
	creatorIsAdmin, err := s.creatorIsAdmin(ctx, resourceID)
	if err != nil {
		return models.EscrowResult{}, err
	}
	cmd := models.ActivationCommand{
		ResourceID:     resourceID,
		ActorID:        actorID,
		RequiredAmount: requiredAmount,
		ActorIsAdmin:   s.resolver.IsAdmin(ctx, actorID),
		CreatorIsAdmin: creatorIsAdmin,
	}

	var res models.EscrowResult
	err = retryOnConflict(ctx, "escrow_activate", s.metrics, func() error {
		var err error
		res, err = s.repo.Activate(ctx, cmd)
		return err
	})
	s.metrics.Operation("escrow_activate", outcome(err))
	return res, err
}

func (s *escrowService) Complete(ctx context.Context, resourceID, actorID uuid.UUID, winnerID *uuid.UUID) (models.EscrowResult, error) {
	ctx, span := tracing.Start(ctx, "escrow.complete")
	defer span.End()

	creatorIsAdmin, err := s.creatorIsAdmin(ctx, resourceID)
	if err != nil {
		return models.EscrowResult{}, err
	}
	cmd := models.CompletionCommand{
		ResourceID:     resourceID,
		ActorID:        actorID,
		WinnerID:       winnerID,
		ActorIsAdmin:   s.resolver.IsAdmin(ctx, actorID),
		CreatorIsAdmin: creatorIsAdmin,
	}
	var res models.EscrowResult
	err = retryOnConflict(ctx, "escrow_complete", s.metrics, func() error {
		var err error
		res, err = s.repo.Complete(ctx, cmd)
		return err
	})
	s.metrics.Operation("escrow_complete", outcome(err))
	return res, err
}

func (s *escrowService) creatorIsAdmin(ctx context.Context, resourceID uuid.UUID) (bool, error) {
	res, err := s.repo.GetResource(ctx, resourceID)
	if err != nil {
		return false, err
	}
	return res.AdminAuthored || s.resolver.IsAdmin(ctx, res.CreatorID), nil
}

func (s *escrowService) Cancel(ctx context.Context, resourceID, actorID uuid.UUID, reason string) (models.EscrowResult, error) {
	return s.moveTo(ctx, "escrow_cancel", models.CancelCommand{
		ResourceID:   resourceID,
		ActorID:      actorID,
		ActorIsAdmin: s.resolver.IsAdmin(ctx, actorID),
		Target:       models.ResourceCancelled,
		Reason:       reason,
	})
}

func (s *escrowService) Unpublish(ctx context.Context, resourceID, adminID uuid.UUID, reason string) (models.EscrowResult, error) {
	if !s.resolver.IsAdmin(ctx, adminID) {
		return models.EscrowResult{}, apperrors.ErrUnauthorized
	}
	if reason == "" {
		reason = "admin unpublish"
	}
	return s.moveTo(ctx, "escrow_unpublish", models.CancelCommand{
		ResourceID:   resourceID,
		ActorID:      adminID,
		ActorIsAdmin: true,
		Target:       models.ResourceDraft,
		Reason:       reason,
	})
}

func (s *escrowService) moveTo(ctx context.Context, op string, cmd models.CancelCommand) (models.EscrowResult, error) {
	var res models.EscrowResult
	err := retryOnConflict(ctx, op, s.metrics, func() error {
		var err error
		res, err = s.repo.Cancel(ctx, cmd)
		return err
	})
	s.metrics.Operation(op, outcome(err))
	return res, err
}

func (s *escrowService) DrawWinner(ctx context.Context, resourceID, actorID, winnerID uuid.UUID) (models.Resource, error) {
	if winnerID == uuid.Nil {
		return models.Resource{}, fmt.Errorf("%w: winner required", apperrors.ErrInvalidRequest)
	}
	return s.pick(ctx, resourceID, actorID, &winnerID)
}

func (s *escrowService) Repick(ctx context.Context, resourceID, actorID uuid.UUID) (models.Resource, error) {
	return s.pick(ctx, resourceID, actorID, nil)
}

func (s *escrowService) pick(ctx context.Context, resourceID, actorID uuid.UUID, winnerID *uuid.UUID) (models.Resource, error) {
	res, err := s.repo.GetResource(ctx, resourceID)
	if err != nil {
		return models.Resource{}, err
	}
	if res.CreatorID != actorID && !s.resolver.IsAdmin(ctx, actorID) {
		return models.Resource{}, apperrors.ErrUnauthorized
	}
	if res.Status != models.ResourceActive {
		return models.Resource{}, fmt.Errorf("%w: resource is %s", apperrors.ErrInvalidResourceState, res.Status)
	}

	out, err := s.winners.Pick(ctx, res, winnerID, actorID)
	s.metrics.Operation("winner_pick_"+s.winners.Name(), outcome(err))
	return out, err
}
