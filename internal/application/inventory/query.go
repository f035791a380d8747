package inventory

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// QueryStock lista filas por SKU y/o bodega. Se exige al menos producto o bodega.
func (s *Service) QueryStock(ctx context.Context, filter repository.StockFilter) ([]*entity.StockRow, error) {
	if filter.ProductID == "" && filter.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)
	return s.reader.Query(ctx, filter)
}

// ListLowStock filas en o bajo su umbral; warehouseID vacío consulta todas las bodegas.
func (s *Service) ListLowStock(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockRow, error) {
	limit, offset = normalizePage(limit, offset)
	return s.reader.ListLowStock(ctx, warehouseID, limit, offset)
}
