package entity

import "time"

// WarehouseMovement registro inmutable de un traslado entre bodegas (distinto del historial).
type WarehouseMovement struct {
	ID              string
	ProductID       string
	VariantID       string
	Size            string
	Color           string
	Quantity        int
	FromWarehouseID string
	ToWarehouseID   string
	Actor           string
	Reason          string
	CreatedAt       time.Time
}
