package entity

import "time"

// Tipos de entrada del historial de stock.
const (
	HistoryTypeIncrease = "increase"
	HistoryTypeDecrease = "decrease"
	HistoryTypeUpdate   = "update"
)

// Motivos usados por el núcleo de inventario.
const (
	ReasonOrderReservation = "Order reservation"
	ReasonExternalSync     = "external sync"
)

// HistoryEntry registro inmutable de una mutación de una fila de stock.
type HistoryEntry struct {
	ID             string
	StockRowID     string
	ProductID      string
	VariantID      string
	Size           string
	Color          string
	WarehouseID    string
	Type           string
	Quantity       int // magnitud de la mutación (siempre >= 0)
	BeforeQuantity int
	AfterQuantity  int
	Delta          int // AfterQuantity - BeforeQuantity
	Reason         string
	Actor          string
	CreatedAt      time.Time
}
