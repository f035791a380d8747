package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var (
	_ repository.HistoryRepository           = (*HistoryRepo)(nil)
	_ repository.WarehouseMovementRepository = (*WarehouseMovementRepo)(nil)
)

// HistoryRepo historial de stock de solo inserción.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Append inserta una entrada; nunca se actualiza ni se borra.
func (r *HistoryRepo) Append(ctx context.Context, e *entity.HistoryEntry) error {
	query := `
		INSERT INTO stock_history (id, stock_row_id, product_id, variant_id, size, color, warehouse_id, type,
			quantity, before_quantity, after_quantity, delta, reason, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.StockRowID, e.ProductID, nullable(e.VariantID), e.Size, e.Color, e.WarehouseID, e.Type,
		e.Quantity, e.BeforeQuantity, e.AfterQuantity, e.Delta, e.Reason, e.Actor, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock history: %w", err)
	}
	return nil
}

// WarehouseMovementRepo traslados entre bodegas.
type WarehouseMovementRepo struct {
	q Querier
}

// NewWarehouseMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseMovementRepository(q Querier) *WarehouseMovementRepo {
	return &WarehouseMovementRepo{q: q}
}

// Create persiste un traslado.
func (r *WarehouseMovementRepo) Create(ctx context.Context, m *entity.WarehouseMovement) error {
	query := `
		INSERT INTO warehouse_movements (id, product_id, variant_id, size, color, quantity,
			from_warehouse_id, to_warehouse_id, actor, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, nullable(m.VariantID), m.Size, m.Color, m.Quantity,
		m.FromWarehouseID, m.ToWarehouseID, m.Actor, m.Reason, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert warehouse movement: %w", err)
	}
	return nil
}
