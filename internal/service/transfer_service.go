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
)

//go:generate mockgen -source=transfer_service.go -destination=../mocks/service_mocks/transfer_service_mock.go -package=service_mocks

type TransferService interface {
	Transfer(ctx context.Context, req models.TransferRequest) (models.TransferResult, error)
	ValidateTransfer(ctx context.Context, req models.TransferRequest) error
	ListTransfers(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transfer, error)
}

type transferService struct {
	ledger   repository.LedgerRepository
	resolver AdminResolver
	metrics  *metrics.Metrics
}

func NewTransferService(ledgerRepo repository.LedgerRepository, resolver AdminResolver, m *metrics.Metrics) TransferService {
	return &transferService{ledger: ledgerRepo, resolver: resolver, metrics: m}
}

// Transfer moves funds between two users in one transaction. Validation
// failures return before any database work.
func (s *transferService) Transfer(ctx context.Context, req models.TransferRequest) (models.TransferResult, error) {
	ctx, span := tracing.Start(ctx, "transfer")
	defer span.End()

	cmd, err := s.command(ctx, req)
	if err != nil {
		s.metrics.Operation("transfer", outcome(err))
		return models.TransferResult{}, err
	}

	var res models.TransferResult
	err = retryOnConflict(ctx, "transfer", s.metrics, func() error {
		var err error
		res, err = s.ledger.ExecuteTransfer(ctx, cmd)
		return err
	})
	s.metrics.Operation("transfer", outcome(err))
	if err != nil {
		return models.TransferResult{}, err
	}
	return res, nil
}

func (s *transferService) ValidateTransfer(ctx context.Context, req models.TransferRequest) error {
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		req.IdempotencyKey = "validate"
	}
	cmd, err := s.command(ctx, req)
	if err != nil {
		return err
	}
	return s.ledger.CheckTransfer(ctx, cmd)
}

func (s *transferService) command(ctx context.Context, req models.TransferRequest) (models.TransferCommand, error) {
	if err := ledger.ValidateAmount(req.Amount); err != nil {
		return models.TransferCommand{}, err
	}
	currency, err := ledger.NormalizeCurrency(req.Currency)
	if err != nil {
		return models.TransferCommand{}, err
	}
	if req.FromUser == uuid.Nil || req.ToUser == uuid.Nil {
		return models.TransferCommand{}, fmt.Errorf("%w: sender and recipient required", apperrors.ErrInvalidRequest)
	}
	if req.FromUser == req.ToUser {
		return models.TransferCommand{}, fmt.Errorf("%w: cannot transfer to self", apperrors.ErrInvalidRequest)
	}
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	if req.IdempotencyKey == "" {
		return models.TransferCommand{}, fmt.Errorf("%w: idempotency key required", apperrors.ErrInvalidRequest)
	}
	if ledger.ReservedKey(req.IdempotencyKey) {
		return models.TransferCommand{}, fmt.Errorf("%w: idempotency key uses a reserved prefix", apperrors.ErrInvalidRequest)
	}
	req.Currency = currency

	return models.TransferCommand{
		TransferRequest: req,
		Bypass:          s.resolver.IsAdmin(ctx, req.FromUser),
	}, nil
}

func (s *transferService) ListTransfers(ctx context.Context, userID uuid.UUID, limit int) ([]models.Transfer, error) {
	return s.ledger.ListTransfers(ctx, userID, listLimit(limit))
}
