package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// StockRepository implementa repository.StockRepository sobre el Store.
type StockRepository struct {
	s    *Store
	inTx bool
}

var _ repository.StockRepository = (*StockRepository)(nil)

func matchesSKU(r *entity.StockRow, sku entity.SKU) bool {
	productID, variantID, size, color := entity.SKUFields(sku)
	if r.ProductID != productID {
		return false
	}
	if variantID != "" {
		return r.VariantID == variantID
	}
	return r.VariantID == "" && r.Size == size && r.Color == color
}

// sortRows orden de bloqueo: bodega, antigüedad, ID.
func sortRows(rows []*entity.StockRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.WarehouseID != b.WarehouseID {
			return a.WarehouseID < b.WarehouseID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (r *StockRepository) collect(pred func(*entity.StockRow) bool) []*entity.StockRow {
	var out []*entity.StockRow
	r.s.with(r.inTx, func(st *state) {
		for _, row := range st.rows {
			if pred(row) {
				out = append(out, copyRow(row))
			}
		}
	})
	sortRows(out)
	return out
}

func (r *StockRepository) ListBySKUForUpdate(ctx context.Context, sku entity.SKU) ([]*entity.StockRow, error) {
	return r.collect(func(row *entity.StockRow) bool { return matchesSKU(row, sku) }), nil
}

func (r *StockRepository) ListBySKU(ctx context.Context, sku entity.SKU) ([]*entity.StockRow, error) {
	return r.collect(func(row *entity.StockRow) bool { return matchesSKU(row, sku) }), nil
}

func (r *StockRepository) GetForUpdate(ctx context.Context, sku entity.SKU, warehouseID string) (*entity.StockRow, error) {
	rows := r.collect(func(row *entity.StockRow) bool {
		return row.WarehouseID == warehouseID && matchesSKU(row, sku)
	})
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *StockRepository) ListByProduct(ctx context.Context, productID string) ([]*entity.StockRow, error) {
	return r.collect(func(row *entity.StockRow) bool { return row.ProductID == productID }), nil
}

func (r *StockRepository) Create(ctx context.Context, row *entity.StockRow) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		for _, existing := range st.rows {
			if existing.WarehouseID == row.WarehouseID && matchesSKU(existing, row.SKU()) {
				err = domain.ErrConcurrencyConflict
				return
			}
		}
		cp := copyRow(row)
		cp.RefreshStatus()
		st.rows[cp.ID] = cp
	})
	return err
}

func (r *StockRepository) ApplyDelta(ctx context.Context, rowID string, delta int, allowNegative bool) (*entity.StockRow, error) {
	var (
		out *entity.StockRow
		err error
	)
	r.s.with(r.inTx, func(st *state) {
		row, ok := st.rows[rowID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		if !allowNegative && delta < 0 && row.Quantity+delta < 0 {
			err = domain.ErrInsufficientStock
			return
		}
		row.Quantity += delta
		row.RefreshStatus()
		row.UpdatedAt = time.Now()
		out = copyRow(row)
	})
	return out, err
}

func (r *StockRepository) SetQuantity(ctx context.Context, rowID string, quantity int) (*entity.StockRow, error) {
	var (
		out *entity.StockRow
		err error
	)
	r.s.with(r.inTx, func(st *state) {
		row, ok := st.rows[rowID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		row.Quantity = quantity
		row.RefreshStatus()
		row.UpdatedAt = time.Now()
		out = copyRow(row)
	})
	return out, err
}

func (r *StockRepository) Delete(ctx context.Context, rowID string) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.rows[rowID]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(st.rows, rowID)
	})
	return err
}

func (r *StockRepository) Query(ctx context.Context, f repository.StockFilter) ([]*entity.StockRow, error) {
	rows := r.collect(func(row *entity.StockRow) bool {
		switch {
		case f.ProductID != "" && row.ProductID != f.ProductID:
			return false
		case f.VariantID != "" && row.VariantID != f.VariantID:
			return false
		case f.Size != "" && row.Size != f.Size:
			return false
		case f.Color != "" && row.Color != f.Color:
			return false
		case f.WarehouseID != "" && row.WarehouseID != f.WarehouseID:
			return false
		}
		return true
	})
	return page(rows, f.Limit, f.Offset), nil
}

func (r *StockRepository) ListLowStock(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockRow, error) {
	rows := r.collect(func(row *entity.StockRow) bool {
		if warehouseID != "" && row.WarehouseID != warehouseID {
			return false
		}
		return row.Quantity <= row.LowStockThreshold
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Quantity < rows[j].Quantity })
	return page(rows, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
