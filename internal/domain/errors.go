package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia en fila de stock")
	ErrExternalSync        = errors.New("fallo de sincronización con inventario externo")
)

// InsufficientStockError detalla qué SKU no alcanzó a cubrir la reserva.
// errors.Is(err, ErrInsufficientStock) es true para este tipo.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	SKU         string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d", name, e.Available, e.Requested)
}

// Is permite comparar contra ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
