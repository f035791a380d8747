package entity

import (
	"encoding/json"
	"time"
)

// Estados derivados de la cantidad frente al umbral de la fila.
const (
	StockStatusInStock    = "in_stock"
	StockStatusLowStock   = "low_stock"
	StockStatusOutOfStock = "out_of_stock"
)

// DefaultLowStockThreshold umbral por defecto de una fila nueva.
const DefaultLowStockThreshold = 5

// StockRow representa la cantidad física de un SKU en una bodega. Es la fuente de verdad del inventario.
// VariantID vacío significa identidad legada (talla + color).
type StockRow struct {
	ID                 string
	ProductID          string
	VariantID          string
	Size               string
	Color              string
	WarehouseID        string
	Quantity           int // puede ser negativa solo si la política lo permite
	LowStockThreshold  int
	MaxQuantity        *int // capacidad opcional de la fila; nil = sin límite
	Status             string
	AttributesSnapshot json.RawMessage
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SKU devuelve la identidad tipada de la fila.
func (r *StockRow) SKU() SKU {
	return NewSKU(r.ProductID, r.VariantID, r.Size, r.Color)
}

// RefreshStatus recalcula Status a partir de Quantity y LowStockThreshold.
func (r *StockRow) RefreshStatus() {
	r.Status = StatusFor(r.Quantity, r.LowStockThreshold)
}

// FreeCapacity devuelve cuánto admite la fila antes de llenarse; -1 si no tiene capacidad configurada.
func (r *StockRow) FreeCapacity() int {
	if r.MaxQuantity == nil {
		return -1
	}
	free := *r.MaxQuantity - r.Quantity
	if free < 0 {
		return 0
	}
	return free
}

// StatusFor calcula el estado de una cantidad frente a un umbral.
func StatusFor(quantity, threshold int) string {
	switch {
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity <= threshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// NewStockRow crea una fila en cero para un SKU en una bodega.
func NewStockRow(id string, sku SKU, warehouseID string, threshold int, now time.Time) *StockRow {
	productID, variantID, size, color := SKUFields(sku)
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	row := &StockRow{
		ID:                id,
		ProductID:         productID,
		VariantID:         variantID,
		Size:              size,
		Color:             color,
		WarehouseID:       warehouseID,
		LowStockThreshold: threshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	row.RefreshStatus()
	return row
}
