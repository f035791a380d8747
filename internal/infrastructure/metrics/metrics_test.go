package metrics_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/metrics"
)

func TestObserve_ClasificaResultado(t *testing.T) {
	m := metrics.New()

	m.Observe(inventory.OpReserve, nil)
	m.Observe(inventory.OpReserve, &domain.InsufficientStockError{Available: 1, Requested: 2})
	m.Observe(inventory.OpTransfer, domain.ErrNotFound)
	m.Observe(inventory.OpIncrement, errors.New("db caída"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InventoryOps.WithLabelValues("reserve", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InventoryOps.WithLabelValues("reserve", "insufficient_stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InventoryOps.WithLabelValues("transfer", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InventoryOps.WithLabelValues("increment", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InsufficientStock))
}

func TestEmit_CuentaAlertasPorNivel(t *testing.T) {
	m := metrics.New()
	require.NoError(t, m.Emit(context.Background(), []entity.StockAlert{
		{Level: entity.AlertLevelLow},
		{Level: entity.AlertLevelLow},
		{Level: entity.AlertLevelOutOfStock},
	}))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AlertsEmitted.WithLabelValues(entity.AlertLevelLow)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsEmitted.WithLabelValues(entity.AlertLevelOutOfStock)))
}

func TestInstrumentedSyncRuns_CuentaYDelega(t *testing.T) {
	m := metrics.New()
	log := &memory.SyncRunLog{}
	runs := metrics.NewInstrumentedSyncRuns(log, m)

	run := &entity.SyncRun{Direction: entity.SyncDirectionPull, Flavor: "absolute", Applied: 3, Skipped: 1}
	require.NoError(t, runs.Save(context.Background(), run))

	assert.Len(t, log.Runs(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncRuns.WithLabelValues(entity.SyncDirectionPull, "absolute", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SyncItems.WithLabelValues(entity.SyncDirectionPull, "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncItems.WithLabelValues(entity.SyncDirectionPull, "skipped")))
}

func TestHandler_ExponeMetricas(t *testing.T) {
	m := metrics.New()
	m.RecordPushDropped()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "tienda_extsync_push_dropped_total 1")
}
