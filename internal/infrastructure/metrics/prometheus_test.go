package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
)

func TestObserveOperation(t *testing.T) {
	p := New(nil)
	p.ObserveOperation("batch_undo", inventory.OutcomeDegraded, 20*time.Millisecond)
	p.ObserveOperation("batch_undo", inventory.OutcomeDegraded, time.Millisecond)
	p.ObserveOperation("add_item", inventory.OutcomeOK, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.operations.WithLabelValues("batch_undo", inventory.OutcomeDegraded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.operations.WithLabelValues("add_item", inventory.OutcomeOK)))
	assert.Equal(t, 2, testutil.CollectAndCount(p.opLatency))
}

func TestSetStockLevels(t *testing.T) {
	p := New(nil)
	p.SetStockLevels(12, 3)
	assert.Equal(t, 12.0, testutil.ToFloat64(p.stockItems))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.lowStock))
}

func TestHandler(t *testing.T) {
	p := New(nil)
	p.ObserveHTTP(http.MethodGet, "/api/items", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `inventario_http_requests_total{method="GET",route="/api/items",status="200"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
