package dto

import (
	"encoding/json"
	"time"
)

// StockItemRequest línea de stock identificada por variante o por talla/color.
type StockItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id,omitempty"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// ReserveRequest body para POST /api/inventory/reservations.
type ReserveRequest struct {
	Items []StockItemRequest `json:"items" validate:"required,min=1,dive"`
}

// IncrementRequest body para POST /api/inventory/increments (cancelación, devolución, entrada).
type IncrementRequest struct {
	Items  []StockItemRequest `json:"items" validate:"required,min=1,dive"`
	Reason string             `json:"reason" validate:"required,max=200"`
}

// AdjustRequest body para POST /api/inventory/adjustments.
type AdjustRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	VariantID   string `json:"variant_id,omitempty"`
	Size        string `json:"size,omitempty"`
	Color       string `json:"color,omitempty"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason" validate:"required,max=200"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	VariantID       string `json:"variant_id,omitempty"`
	Size            string `json:"size,omitempty"`
	Color           string `json:"color,omitempty"`
	Quantity        int    `json:"quantity" validate:"required,min=1"`
	FromWarehouseID string `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string `json:"to_warehouse_id" validate:"required,nefield=FromWarehouseID"`
	Reason          string `json:"reason,omitempty" validate:"max=200"`
}

// StockRowResponse salida de una fila de stock.
type StockRowResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	VariantID         string          `json:"variant_id,omitempty"`
	Size              string          `json:"size,omitempty"`
	Color             string          `json:"color,omitempty"`
	WarehouseID       string          `json:"warehouse_id"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	MaxQuantity       *int            `json:"max_quantity,omitempty"`
	Status            string          `json:"status"`
	Attributes        json.RawMessage `json:"attributes,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StockListResponse lista paginada de filas.
type StockListResponse struct {
	Items []StockRowResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// WarehouseMovementResponse registro de traslado.
type WarehouseMovementResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	VariantID       string    `json:"variant_id,omitempty"`
	Size            string    `json:"size,omitempty"`
	Color           string    `json:"color,omitempty"`
	Quantity        int       `json:"quantity"`
	FromWarehouseID string    `json:"from_warehouse_id"`
	ToWarehouseID   string    `json:"to_warehouse_id"`
	Actor           string    `json:"actor"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransferResponse resultado de un traslado.
type TransferResponse struct {
	Movement    WarehouseMovementResponse `json:"movement"`
	Source      StockRowResponse          `json:"source"`
	Destination StockRowResponse          `json:"destination"`
}

// InsufficientStockResponse cuerpo 409 cuando una reserva no alcanza.
type InsufficientStockResponse struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Available   int    `json:"available"`
	Requested   int    `json:"requested"`
}

// SyncRunResponse resumen de una ejecución de sincronización.
type SyncRunResponse struct {
	ID         string    `json:"id"`
	Direction  string    `json:"direction"`
	Flavor     string    `json:"flavor"`
	Items      int       `json:"items"`
	Applied    int       `json:"applied"`
	Created    int       `json:"created"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// SyncRunListResponse últimas ejecuciones de sincronización.
type SyncRunListResponse struct {
	Items []SyncRunResponse `json:"items"`
}
