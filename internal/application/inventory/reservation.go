package inventory

import (
	"context"
	"errors"
	"sort"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

type plannedItem struct {
	item    ItemRequest
	product *entity.Product
	rows    []*entity.StockRow
}

// Reserve descuenta stock para los items de una orden. Es todo o nada: si algún SKU no alcanza
// devuelve *domain.InsufficientStockError y ninguna fila queda modificada.
func (s *Service) Reserve(ctx context.Context, items []ItemRequest, actor string) error {
	norm, err := normalizeItems(items)
	if err != nil {
		s.observe(OpReserve, err)
		return err
	}
	actor = actorOrSystem(actor)

	var out *mutationOutcome
	err = s.tx.Run(ctx, func(r TxRepos) error {
		out = newOutcome()
		plans, err := s.planItems(ctx, r, norm, actor, out)
		if err != nil {
			return err
		}
		// 1. Verificar disponibilidad de todo el lote antes de tocar cualquier fila
		if !s.settings.AllowNegativeStock {
			for _, p := range plans {
				available := availableQuantity(p.rows)
				if available < p.item.Quantity {
					return &domain.InsufficientStockError{
						ProductID:   p.product.ID,
						ProductName: p.product.DisplayName(p.item.SKU),
						SKU:         p.item.SKU.Key(),
						Available:   available,
						Requested:   p.item.Quantity,
					}
				}
			}
		}
		// 2. Descontar
		for _, p := range plans {
			if err := s.debit(ctx, r, p.item.SKU, p.rows, p.item.Quantity, s.settings.AllowNegativeStock, entity.ReasonOrderReservation, actor, out); err != nil {
				return err
			}
		}
		return s.recomputeAll(ctx, r, out.productIDs())
	})
	s.observe(OpReserve, err)
	if err != nil {
		return err
	}
	s.afterCommit(ctx, out, true)
	return nil
}

// Increment suma stock (cancelaciones, devoluciones, entradas de mercancía).
func (s *Service) Increment(ctx context.Context, items []ItemRequest, actor, reason string) error {
	norm, err := normalizeItems(items)
	if err != nil {
		s.observe(OpIncrement, err)
		return err
	}
	actor = actorOrSystem(actor)

	var out *mutationOutcome
	err = s.tx.Run(ctx, func(r TxRepos) error {
		out = newOutcome()
		plans, err := s.planItems(ctx, r, norm, actor, out)
		if err != nil {
			return err
		}
		for _, p := range plans {
			if err := s.credit(ctx, r, p.item.SKU, p.rows, p.item.Quantity, reason, actor, out); err != nil {
				return err
			}
		}
		return s.recomputeAll(ctx, r, out.productIDs())
	})
	s.observe(OpIncrement, err)
	if err != nil {
		return err
	}
	s.afterCommit(ctx, out, true)
	return nil
}

// planItems valida el catálogo y bloquea las filas de cada SKU, en orden de clave.
func (s *Service) planItems(ctx context.Context, r TxRepos, items []ItemRequest, actor string, out *mutationOutcome) ([]plannedItem, error) {
	products := make(map[string]*entity.Product, len(items))
	plans := make([]plannedItem, 0, len(items))
	for _, it := range items {
		p, err := s.loadProduct(ctx, r, products, it.SKU)
		if err != nil {
			return nil, err
		}
		rows, err := s.lockRows(ctx, r, it.SKU, actor, out)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plannedItem{item: it, product: p, rows: rows})
	}
	return plans, nil
}

// availableQuantity suma solo cantidades positivas: una fila negativa no resta disponibilidad a las demás.
func availableQuantity(rows []*entity.StockRow) int {
	total := 0
	for _, row := range rows {
		if row.Quantity > 0 {
			total += row.Quantity
		}
	}
	return total
}

// debit descuenta qty de las filas, mayor cantidad primero. Cada fila toma
// min(restante, allowNegative ? restante : cantidad), así que con allowNegative la fila mayor
// absorbe todo el pedido y el negativo queda en una sola fila. Sin filas se crea una en la
// bodega por defecto.
func (s *Service) debit(ctx context.Context, r TxRepos, sku entity.SKU, rows []*entity.StockRow, qty int, allowNegative bool, reason, actor string, out *mutationOutcome) error {
	ordered := append([]*entity.StockRow(nil), rows...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Quantity > ordered[j].Quantity })

	takes := make([]int, len(ordered))
	remaining := qty
	for i, row := range ordered {
		if remaining == 0 {
			break
		}
		take := remaining
		if !allowNegative {
			take = min(remaining, max(row.Quantity, 0))
		}
		takes[i] = take
		remaining -= take
	}
	if remaining > 0 {
		if !allowNegative {
			return &domain.InsufficientStockError{
				ProductID: sku.Product(),
				SKU:       sku.Key(),
				Available: qty - remaining,
				Requested: qty,
			}
		}
		if len(ordered) == 0 {
			row, err := s.ensureDefaultRow(ctx, r, sku)
			if err != nil {
				return err
			}
			ordered = append(ordered, row)
			takes = append(takes, 0)
		}
		takes[0] += remaining
	}

	for i, row := range ordered {
		if takes[i] == 0 {
			continue
		}
		if err := s.applyDelta(ctx, r, row, -takes[i], allowNegative, reason, actor, out); err != nil {
			return err
		}
	}
	return nil
}

// credit reparte qty entre las filas en orden ascendente. Las filas con capacidad se llenan
// hasta su máximo; la primera fila sin capacidad recibe todo el resto. Si todas están llenas
// el resto cae sobre la primera fila. Sin filas se crea una en la bodega por defecto.
func (s *Service) credit(ctx context.Context, r TxRepos, sku entity.SKU, rows []*entity.StockRow, qty int, reason, actor string, out *mutationOutcome) error {
	ordered := append([]*entity.StockRow(nil), rows...)
	if len(ordered) == 0 {
		row, err := s.ensureDefaultRow(ctx, r, sku)
		if err != nil {
			return err
		}
		ordered = append(ordered, row)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Quantity < ordered[j].Quantity })

	adds := make([]int, len(ordered))
	remaining := qty
	for i, row := range ordered {
		if remaining == 0 {
			break
		}
		free := row.FreeCapacity()
		if free < 0 {
			adds[i] = remaining
			remaining = 0
			break
		}
		add := min(remaining, free)
		adds[i] = add
		remaining -= add
	}
	if remaining > 0 {
		adds[0] += remaining
	}

	for i, row := range ordered {
		if adds[i] == 0 {
			continue
		}
		if err := s.applyDelta(ctx, r, row, adds[i], true, reason, actor, out); err != nil {
			return err
		}
	}
	return nil
}

// applyDelta aplica la actualización condicional sobre una fila y registra el historial.
func (s *Service) applyDelta(ctx context.Context, r TxRepos, row *entity.StockRow, delta int, allowNegative bool, reason, actor string, out *mutationOutcome) error {
	updated, err := r.Stock.ApplyDelta(ctx, row.ID, delta, allowNegative)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return &domain.InsufficientStockError{
				ProductID: row.ProductID,
				SKU:       row.SKU().Key(),
				Available: max(row.Quantity, 0),
				Requested: -delta,
			}
		}
		return err
	}
	before := updated.Quantity - delta
	if err := s.appendHistory(ctx, r, updated, historyType(delta), before, reason, actor); err != nil {
		return err
	}
	*row = *updated
	out.touch(updated)
	out.change(updated.SKU(), delta)
	return nil
}
