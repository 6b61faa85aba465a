package service

import (
	"context"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/metrics"
	"go.uber.org/zap"
)

// Reconciler periodically rebuilds drifted wallet caches from the ledger and
// sweeps old idempotency keys.
type Reconciler struct {
	wallets  WalletService
	guard    GuardService
	interval time.Duration
	metrics  *metrics.Metrics
}

func NewReconciler(wallets WalletService, guard GuardService, interval time.Duration, m *metrics.Metrics) *Reconciler {
	return &Reconciler{wallets: wallets, guard: guard, interval: interval, metrics: m}
}

func (r *Reconciler) Run(ctx context.Context) {
	if r.interval <= 0 {
		logger.Log.Info("reconciler disabled")
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Reconciler) runOnce(ctx context.Context) {
	report, err := r.wallets.ReconcileAll(ctx, true)
	r.metrics.ReconcileRun(err == nil)
	if err != nil {
		logger.Log.Error("wallet reconcile failed", zap.Error(err))
	} else if len(report.Drifted) > 0 || report.Failures > 0 {
		logger.Log.Warn("wallet reconcile finished",
			zap.Int("checked", report.Checked), zap.Int("drifted", len(report.Drifted)), zap.Int("failures", report.Failures))
	}

	if r.guard == nil {
		return
	}
	n, err := r.guard.PurgeExpired(ctx)
	if err != nil {
		logger.Log.Error("failed to purge idempotency keys", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("purged idempotency keys", zap.Int64("count", n))
	}
}
