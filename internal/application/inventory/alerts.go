package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// AlertEmitter evalúa las filas tocadas por una mutación y entrega alertas a los sinks.
// Es por nivel: cada mutación que deja una fila bajo umbral emite de nuevo, un evento por umbral.
type AlertEmitter struct {
	critical int
	sinks    []AlertSink
	log      zerolog.Logger
	now      func() time.Time
}

// NewAlertEmitter construye el emisor. criticalThreshold <= 0 usa el valor por defecto.
func NewAlertEmitter(criticalThreshold int, log zerolog.Logger, sinks ...AlertSink) *AlertEmitter {
	if criticalThreshold <= 0 {
		criticalThreshold = DefaultSettings().CriticalThreshold
	}
	return &AlertEmitter{
		critical: criticalThreshold,
		sinks:    sinks,
		log:      log.With().Str("component", "alerts").Logger(),
		now:      time.Now,
	}
}

// AddSink agrega un destino de alertas.
func (e *AlertEmitter) AddSink(sink AlertSink) {
	e.sinks = append(e.sinks, sink)
}

// Levels devuelve los umbrales que la fila tiene cruzados, del más severo al más leve.
// Una fila en 0 cruza los tres: agotado, crítico y bajo.
func (e *AlertEmitter) Levels(row *entity.StockRow) []string {
	var levels []string
	if row.Quantity <= 0 {
		levels = append(levels, entity.AlertLevelOutOfStock)
	}
	if row.Quantity <= e.critical {
		levels = append(levels, entity.AlertLevelCritical)
	}
	if row.Quantity <= row.LowStockThreshold {
		levels = append(levels, entity.AlertLevelLow)
	}
	return levels
}

// Evaluate construye un evento por cada umbral cruzado y lo entrega a los sinks.
// Un sink que falla solo se registra en el log.
func (e *AlertEmitter) Evaluate(ctx context.Context, rows []*entity.StockRow) []entity.StockAlert {
	alerts := make([]entity.StockAlert, 0, len(rows))
	now := e.now()
	for _, row := range rows {
		for _, level := range e.Levels(row) {
			alerts = append(alerts, entity.StockAlert{
				ID:          uuid.New().String(),
				Level:       level,
				StockRowID:  row.ID,
				ProductID:   row.ProductID,
				VariantID:   row.VariantID,
				Size:        row.Size,
				Color:       row.Color,
				WarehouseID: row.WarehouseID,
				Quantity:    row.Quantity,
				Threshold:   e.thresholdFor(level, row),
				Message:     alertMessage(level, row),
				CreatedAt:   now,
			})
		}
	}
	if len(alerts) == 0 {
		return alerts
	}
	for _, sink := range e.sinks {
		if err := sink.Emit(ctx, alerts); err != nil {
			e.log.Error().Err(err).Int("alerts", len(alerts)).Msg("no se pudieron entregar alertas de stock")
		}
	}
	return alerts
}

func (e *AlertEmitter) thresholdFor(level string, row *entity.StockRow) int {
	switch level {
	case entity.AlertLevelCritical:
		return e.critical
	case entity.AlertLevelLow:
		return row.LowStockThreshold
	}
	return 0
}

func alertMessage(level string, row *entity.StockRow) string {
	ref := row.SKU().Key()
	switch level {
	case entity.AlertLevelOutOfStock:
		return fmt.Sprintf("%s agotado en bodega %s (cantidad %d)", ref, row.WarehouseID, row.Quantity)
	case entity.AlertLevelCritical:
		return fmt.Sprintf("%s en nivel crítico en bodega %s: quedan %d", ref, row.WarehouseID, row.Quantity)
	default:
		return fmt.Sprintf("%s con stock bajo en bodega %s: quedan %d", ref, row.WarehouseID, row.Quantity)
	}
}
