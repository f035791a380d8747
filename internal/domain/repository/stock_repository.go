package repository

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// StockFilter criterios para consultar filas por SKU y/o bodega. Campos vacíos no filtran.
type StockFilter struct {
	ProductID   string
	VariantID   string
	Size        string
	Color       string
	WarehouseID string
	Limit       int
	Offset      int
}

// StockRepository define el puerto del libro de stock (una fila por SKU y bodega).
// Las operaciones *ForUpdate y las mutaciones deben ejecutarse dentro de una transacción.
type StockRepository interface {
	// ListBySKUForUpdate devuelve y bloquea todas las filas del SKU (en todas las bodegas).
	ListBySKUForUpdate(ctx context.Context, sku entity.SKU) ([]*entity.StockRow, error)
	// GetForUpdate devuelve y bloquea la fila del SKU en la bodega; nil si no existe.
	GetForUpdate(ctx context.Context, sku entity.SKU, warehouseID string) (*entity.StockRow, error)
	// ListBySKU lectura sin bloqueo de las filas del SKU (total para el push absoluto).
	ListBySKU(ctx context.Context, sku entity.SKU) ([]*entity.StockRow, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockRow, error)
	// Create inserta una fila nueva. Devuelve domain.ErrConcurrencyConflict si otra transacción ganó la creación.
	Create(ctx context.Context, row *entity.StockRow) error
	// ApplyDelta suma delta a la cantidad de forma condicional: si allowNegative es false y el resultado
	// quedaría negativo no modifica nada y devuelve domain.ErrInsufficientStock.
	ApplyDelta(ctx context.Context, rowID string, delta int, allowNegative bool) (*entity.StockRow, error)
	SetQuantity(ctx context.Context, rowID string, quantity int) (*entity.StockRow, error)
	Delete(ctx context.Context, rowID string) error
	Query(ctx context.Context, filter StockFilter) ([]*entity.StockRow, error)
	// ListLowStock devuelve filas con cantidad <= su umbral, peor primero.
	ListLowStock(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockRow, error)
}
