package repository

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// HistoryRepository libro de auditoría de solo inserción. El núcleo nunca lo lee ni lo reescribe.
type HistoryRepository interface {
	Append(ctx context.Context, entry *entity.HistoryEntry) error
}

// WarehouseMovementRepository persiste los traslados entre bodegas.
type WarehouseMovementRepository interface {
	Create(ctx context.Context, movement *entity.WarehouseMovement) error
}
