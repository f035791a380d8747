package repository

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo más la escritura de los agregados de stock.
type ProductRepository interface {
	// GetByID devuelve el producto con sus variantes; nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate igual que GetByID pero bloquea la fila del producto hasta el fin de la transacción.
	// Serializa el recálculo de agregados entre transacciones que tocan SKUs distintos del mismo producto.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// FindByExternalRef busca el SKU mapeado a un item externo (por ID o código de barras).
	// Devuelve nil si no hay mapeo.
	FindByExternalRef(ctx context.Context, ref entity.ExternalRef) (entity.SKU, error)
	Create(ctx context.Context, product *entity.Product) error
	// UpdateStock escribe el agregado del producto y, si aplica, el de cada variante.
	UpdateStock(ctx context.Context, productID string, stock int, variantStocks map[string]int) error
}
