package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// newHistoryEntry construye la entrada de auditoría de una mutación ya aplicada sobre row.
func newHistoryEntry(row *entity.StockRow, kind string, before int, reason, actor string) *entity.HistoryEntry {
	delta := row.Quantity - before
	qty := delta
	if qty < 0 {
		qty = -qty
	}
	return &entity.HistoryEntry{
		ID:             uuid.New().String(),
		StockRowID:     row.ID,
		ProductID:      row.ProductID,
		VariantID:      row.VariantID,
		Size:           row.Size,
		Color:          row.Color,
		WarehouseID:    row.WarehouseID,
		Type:           kind,
		Quantity:       qty,
		BeforeQuantity: before,
		AfterQuantity:  row.Quantity,
		Delta:          delta,
		Reason:         reason,
		Actor:          actor,
	}
}

func (s *Service) appendHistory(ctx context.Context, r TxRepos, row *entity.StockRow, kind string, before int, reason, actor string) error {
	entry := newHistoryEntry(row, kind, before, reason, actor)
	entry.CreatedAt = s.now()
	if err := r.History.Append(ctx, entry); err != nil {
		return fmt.Errorf("historial de stock: %w", err)
	}
	return nil
}

// historyType deriva el tipo a partir del signo del delta.
func historyType(delta int) string {
	if delta < 0 {
		return entity.HistoryTypeDecrease
	}
	return entity.HistoryTypeIncrease
}
