package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
// Solo una bodega puede ser la bodega por defecto.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
