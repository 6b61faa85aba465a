package service

import (
	"context"

	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const fallbackPickNote = "fallback pick (no rpc)"

// WinnerStrategy sets or clears the provisional winner with a version
// compare-and-swap. A nil winner clears it.
type WinnerStrategy interface {
	Name() string
	Pick(ctx context.Context, res models.Resource, winnerID *uuid.UUID, actorID uuid.UUID) (models.Resource, error)
}

type CanonicalStrategy struct {
	repo repository.EscrowRepository
}

func (s *CanonicalStrategy) Name() string { return "canonical" }

func (s *CanonicalStrategy) Pick(ctx context.Context, res models.Resource, winnerID *uuid.UUID, _ uuid.UUID) (models.Resource, error) {
	return s.repo.PickWinnerCanonical(ctx, res.ID, winnerID, res.Version)
}

type FallbackStrategy struct {
	repo repository.EscrowRepository
}

func (s *FallbackStrategy) Name() string { return "fallback" }

func (s *FallbackStrategy) Pick(ctx context.Context, res models.Resource, winnerID *uuid.UUID, actorID uuid.UUID) (models.Resource, error) {
	return s.repo.PickWinnerDirect(ctx, res.ID, winnerID, res.Version, actorID, fallbackPickNote)
}

// SelectWinnerStrategy checks once for the database function.
func SelectWinnerStrategy(ctx context.Context, repo repository.EscrowRepository) WinnerStrategy {
	ok, err := repo.HasWinnerFunction(ctx)
	if err != nil {
		logger.Log.Warn("winner function lookup failed, using fallback", zap.Error(err))
		return &FallbackStrategy{repo: repo}
	}
	if !ok {
		logger.Log.Info("pick_resource_winner not installed, using fallback")
		return &FallbackStrategy{repo: repo}
	}
	return &CanonicalStrategy{repo: repo}
}
