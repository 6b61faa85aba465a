package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/api/balance", 200, time.Millisecond)
	m.Operation("transfer", "ok")
	m.Retry("transfer")
	m.RateLimited("withdraw")
	m.EventPublished("transfer.completed", true)
	m.WalletDrift(1)
	m.ReconcileRun(false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.Operation("transfer", "ok")
	m.Operation("transfer", "ok")
	m.WalletDrift(3)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.operations.WithLabelValues("transfer", "ok")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.walletDrift))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ledger_wallet_cache_drift_total 3"))
}
