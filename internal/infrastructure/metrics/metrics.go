// Package metrics métricas Prometheus del inventario y envoltorios instrumentados.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

const namespace = "tienda"

var (
	_ inventory.Observer  = (*Metrics)(nil)
	_ inventory.AlertSink = (*Metrics)(nil)
)

// Metrics agrupa los colectores y su registro.
type Metrics struct {
	registry *prometheus.Registry

	InventoryOps       *prometheus.CounterVec
	InsufficientStock  prometheus.Counter
	AlertsEmitted      *prometheus.CounterVec
	SyncRuns           *prometheus.CounterVec
	SyncItems          *prometheus.CounterVec
	PushDropped        prometheus.Counter
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPRequestSeconds *prometheus.HistogramVec
}

// New crea un registro propio con los colectores de Go y de proceso.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.InventoryOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_operations_total",
			Help:      "Operaciones del libro de stock por tipo y resultado",
		},
		[]string{"op", "result"},
	)
	m.InsufficientStock = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_insufficient_stock_total",
		Help:      "Reservas o traslados rechazados por stock insuficiente",
	})
	m.AlertsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_alerts_total",
			Help:      "Alertas de stock emitidas por nivel",
		},
		[]string{"level"},
	)
	m.SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extsync_runs_total",
			Help:      "Ejecuciones de sincronización externa por dirección y resultado",
		},
		[]string{"direction", "flavor", "result"},
	)
	m.SyncItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extsync_items_total",
			Help:      "Items procesados por la sincronización externa",
		},
		[]string{"direction", "outcome"},
	)
	m.PushDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extsync_push_dropped_total",
		Help:      "Lotes de push descartados con la cola llena",
	})
	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y estado",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(
		m.InventoryOps, m.InsufficientStock, m.AlertsEmitted,
		m.SyncRuns, m.SyncItems, m.PushDropped,
		m.HTTPRequestsTotal, m.HTTPRequestSeconds,
	)
	return m
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe implementa inventory.Observer.
func (m *Metrics) Observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInsufficientStock):
		result = "insufficient_stock"
		m.InsufficientStock.Inc()
	case errors.Is(err, domain.ErrInvalidInput):
		result = "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	m.InventoryOps.WithLabelValues(op, result).Inc()
}

// Emit cuenta alertas por nivel; se registra como un sink más del emisor.
func (m *Metrics) Emit(_ context.Context, alerts []entity.StockAlert) error {
	for _, a := range alerts {
		m.AlertsEmitted.WithLabelValues(a.Level).Inc()
	}
	return nil
}

// RecordPushDropped callback del dispatcher.
func (m *Metrics) RecordPushDropped() {
	m.PushDropped.Inc()
}

// RecordSyncRun contabiliza una ejecución de push o pull.
func (m *Metrics) RecordSyncRun(run *entity.SyncRun) {
	result := "ok"
	if run.Error != "" {
		result = "error"
	}
	m.SyncRuns.WithLabelValues(run.Direction, run.Flavor, result).Inc()
	add := func(outcome string, n int) {
		if n > 0 {
			m.SyncItems.WithLabelValues(run.Direction, outcome).Add(float64(n))
		}
	}
	add("applied", run.Applied)
	add("created", run.Created)
	add("skipped", run.Skipped)
	add("failed", run.Failed)
}

// RecordHTTPRequest registra una petición atendida.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestSeconds.WithLabelValues(method, path).Observe(d.Seconds())
}
