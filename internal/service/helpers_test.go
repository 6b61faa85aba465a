package service

import (
	"context"
	"testing"

	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type stubResolver map[uuid.UUID]bool

func (r stubResolver) IsAdmin(_ context.Context, id uuid.UUID) bool { return r[id] }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}
