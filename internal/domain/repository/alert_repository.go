package repository

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// AlertRepository bandeja de alertas de stock para el panel administrativo.
type AlertRepository interface {
	SaveAll(ctx context.Context, alerts []entity.StockAlert) error
}

// SyncRunRepository bitácora de ejecuciones de sincronización externa.
type SyncRunRepository interface {
	Save(ctx context.Context, run *entity.SyncRun) error
}
