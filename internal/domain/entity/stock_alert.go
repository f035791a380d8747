package entity

import "time"

// Niveles de alerta de stock.
const (
	AlertLevelOutOfStock = "out_of_stock"
	AlertLevelCritical   = "critical"
	AlertLevelLow        = "low"
)

// StockAlert notificación emitida tras una mutación cuando una fila queda bajo un umbral.
type StockAlert struct {
	ID          string
	Level       string
	StockRowID  string
	ProductID   string
	VariantID   string
	Size        string
	Color       string
	WarehouseID string
	Quantity    int
	Threshold   int
	Message     string
	CreatedAt   time.Time
}
