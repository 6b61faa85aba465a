package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/middleware"
	"github.com/a2sh3r/onagui-ledger/internal/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Envelope
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

func asUser(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserIDKey, id))
}

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}
