package inventory

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Stock      repository.StockRepository
	History    repository.HistoryRepository
	Movements  repository.WarehouseMovementRepository
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y no queda ningún cambio parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// StockChange cambio neto aplicado a un SKU en una operación ya confirmada.
type StockChange struct {
	SKU   entity.SKU
	Delta int
}

// ChangeNotifier recibe los cambios confirmados para el push al inventario externo.
// Notify no debe bloquear al llamador.
type ChangeNotifier interface {
	Notify(changes []StockChange)
}

// AlertSink destino de las alertas de stock (bandeja, broker de mensajes...).
type AlertSink interface {
	Emit(ctx context.Context, alerts []entity.StockAlert) error
}

// Observer recibe el resultado de cada operación del núcleo (métricas).
type Observer interface {
	Observe(op string, err error)
}

// Nombres de operación reportados al Observer.
const (
	OpReserve   = "reserve"
	OpIncrement = "increment"
	OpAdjust    = "adjust"
	OpExternal  = "external_sync"
	OpTransfer  = "transfer"
	OpRecompute = "recompute"
)
