package inventory

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// Adjust fija la cantidad de una fila (conteo físico, corrección manual).
// Registra una entrada de tipo update y notifica el cambio neto al inventario externo.
func (s *Service) Adjust(ctx context.Context, sku entity.SKU, warehouseID string, qty int, actor, reason string) error {
	err := s.adjust(ctx, sku, warehouseID, qty, actor, reason)
	s.observe(OpAdjust, err)
	return err
}

func (s *Service) adjust(ctx context.Context, sku entity.SKU, warehouseID string, qty int, actor, reason string) error {
	if sku == nil || warehouseID == "" {
		return domain.ErrInvalidInput
	}
	if err := sku.Validate(); err != nil {
		return err
	}
	if qty < 0 && !s.settings.AllowNegativeStock {
		return domain.ErrInvalidInput
	}
	actor = actorOrSystem(actor)

	var out *mutationOutcome
	err := s.tx.Run(ctx, func(r TxRepos) error {
		out = newOutcome()
		if _, err := s.loadProduct(ctx, r, map[string]*entity.Product{}, sku); err != nil {
			return err
		}
		wh, err := r.Warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
		rows, err := s.lockRows(ctx, r, sku, actor, out)
		if err != nil {
			return err
		}
		var row *entity.StockRow
		for _, candidate := range rows {
			if candidate.WarehouseID == warehouseID {
				row = candidate
				break
			}
		}
		if row == nil {
			if row, err = s.ensureRow(ctx, r, sku, warehouseID); err != nil {
				return err
			}
		}
		if row.Quantity == qty {
			return nil
		}
		before := row.Quantity
		updated, err := r.Stock.SetQuantity(ctx, row.ID, qty)
		if err != nil {
			return err
		}
		if err := s.appendHistory(ctx, r, updated, entity.HistoryTypeUpdate, before, reason, actor); err != nil {
			return err
		}
		out.touch(updated)
		out.change(sku, qty-before)
		return s.recomputeAll(ctx, r, out.productIDs())
	})
	if err != nil {
		return err
	}
	s.afterCommit(ctx, out, true)
	return nil
}

// ApplyExternalQuantity lleva el total local del SKU (todas las bodegas) a la cantidad informada
// por el inventario externo, reutilizando el débito y el crédito con el motivo "external sync".
// Sin stock negativo la cantidad externa se acota a 0 y el débito nunca deja filas negativas.
// Si el total ya coincide no escribe nada y devuelve false. No genera push de vuelta.
func (s *Service) ApplyExternalQuantity(ctx context.Context, sku entity.SKU, qty int, actor string) (bool, error) {
	changed, err := s.applyExternal(ctx, sku, qty, actor)
	s.observe(OpExternal, err)
	return changed, err
}

func (s *Service) applyExternal(ctx context.Context, sku entity.SKU, qty int, actor string) (bool, error) {
	if sku == nil {
		return false, domain.ErrInvalidInput
	}
	if err := sku.Validate(); err != nil {
		return false, err
	}
	if qty < 0 && !s.settings.AllowNegativeStock {
		qty = 0
	}
	actor = actorOrSystem(actor)

	var out *mutationOutcome
	changed := false
	err := s.tx.Run(ctx, func(r TxRepos) error {
		out = newOutcome()
		changed = false
		if _, err := s.loadProduct(ctx, r, map[string]*entity.Product{}, sku); err != nil {
			return err
		}
		rows, err := s.lockRows(ctx, r, sku, actor, out)
		if err != nil {
			return err
		}
		delta := qty - sumQuantities(rows)
		switch {
		case delta > 0:
			err = s.credit(ctx, r, sku, rows, delta, entity.ReasonExternalSync, actor, out)
		case delta < 0:
			err = s.debit(ctx, r, sku, rows, -delta, s.settings.AllowNegativeStock, entity.ReasonExternalSync, actor, out)
		}
		if err != nil {
			return err
		}
		changed = delta != 0
		if len(out.rowOrder) == 0 {
			return nil
		}
		return s.recomputeAll(ctx, r, out.productIDs())
	})
	if err != nil {
		return false, err
	}
	s.afterCommit(ctx, out, false)
	return changed, nil
}
