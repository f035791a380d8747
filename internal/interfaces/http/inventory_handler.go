package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP del libro de stock (protegido).
type InventoryHandler struct {
	svc     *inventory.Service
	reports *inventory.ReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *inventory.Service, reports *inventory.ReportUseCase) *InventoryHandler {
	return &InventoryHandler{svc: svc, reports: reports}
}

// Reserve godoc
// @Summary      Reservar stock de una orden (todo o nada)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "items: product_id + variant_id o size/color, quantity"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/inventory/reservations [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := h.svc.ReserveFromRequest(c.UserContext(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Increment godoc
// @Summary      Sumar stock (cancelación, devolución, entrada)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.IncrementRequest  true  "items y motivo"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/increments [post]
func (h *InventoryHandler) Increment(c *fiber.Ctx) error {
	var in dto.IncrementRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := h.svc.IncrementFromRequest(c.UserContext(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust godoc
// @Summary      Fijar la cantidad de una fila (conteo físico)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.AdjustRequest  true  "SKU, bodega, cantidad y motivo"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if err := h.svc.AdjustFromRequest(c.UserContext(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transfer godoc
// @Summary      Trasladar unidades entre bodegas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "SKU, cantidad, bodega origen y destino"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	res, err := h.svc.MoveFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		Movement:    toMovementResponse(res.Movement),
		Source:      toStockRowResponse(res.Source),
		Destination: toStockRowResponse(res.Destination),
	})
}

// Recompute godoc
// @Summary      Recalcular el stock agregado de un producto
// @Tags         inventory
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/recompute [post]
func (h *InventoryHandler) Recompute(c *fiber.Ctx) error {
	if err := h.svc.Recompute(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// QueryStock godoc
// @Summary      Consultar filas de stock por SKU y/o bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        variant_id    query  string  false  "Variante"
// @Param        size          query  string  false  "Talla (SKU legado)"
// @Param        color         query  string  false  "Color (SKU legado)"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        limit         query  int     false  "Límite"  default(50)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) QueryStock(c *fiber.Ctx) error {
	page := pageFromQuery(c, dto.DefaultPageLimit, dto.MaxPageLimit)
	filter := repository.StockFilter{
		ProductID:   c.Query("product_id"),
		VariantID:   c.Query("variant_id"),
		Size:        c.Query("size"),
		Color:       c.Query("color"),
		WarehouseID: c.Query("warehouse_id"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	rows, err := h.svc.QueryStock(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockList(rows, page))
}

// ListLowStock godoc
// @Summary      Filas en o bajo su umbral, peor primero
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega (vacío = todas)"
// @Param        limit         query  int     false  "Límite"  default(50)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(c *fiber.Ctx) error {
	page := pageFromQuery(c, dto.DefaultPageLimit, dto.MaxPageLimit)
	rows, err := h.svc.ListLowStock(c.UserContext(), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockList(rows, page))
}

// LowStockReport godoc
// @Summary      Reporte PDF de reposición de stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        warehouse_id  query  string  false  "Bodega (vacío = todas)"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock/report [get]
func (h *InventoryHandler) LowStockReport(c *fiber.Ctx) error {
	data, filename, err := h.reports.LowStockPDF(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ── mapeo a DTO ───────────────────────────────────────────────────────────────

func pageFromQuery(c *fiber.Ctx, def, max int) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", def), Offset: c.QueryInt("offset", 0)}.Clamp(def, max)
}

func toStockRowResponse(r *entity.StockRow) dto.StockRowResponse {
	if r == nil {
		return dto.StockRowResponse{}
	}
	return dto.StockRowResponse{
		ID:                r.ID,
		ProductID:         r.ProductID,
		VariantID:         r.VariantID,
		Size:              r.Size,
		Color:             r.Color,
		WarehouseID:       r.WarehouseID,
		Quantity:          r.Quantity,
		LowStockThreshold: r.LowStockThreshold,
		MaxQuantity:       r.MaxQuantity,
		Status:            r.Status,
		Attributes:        r.AttributesSnapshot,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toStockList(rows []*entity.StockRow, page dto.PageRequest) dto.StockListResponse {
	items := make([]dto.StockRowResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, toStockRowResponse(r))
	}
	return dto.StockListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
}

func toMovementResponse(m *entity.WarehouseMovement) dto.WarehouseMovementResponse {
	if m == nil {
		return dto.WarehouseMovementResponse{}
	}
	return dto.WarehouseMovementResponse{
		ID:              m.ID,
		ProductID:       m.ProductID,
		VariantID:       m.VariantID,
		Size:            m.Size,
		Color:           m.Color,
		Quantity:        m.Quantity,
		FromWarehouseID: m.FromWarehouseID,
		ToWarehouseID:   m.ToWarehouseID,
		Actor:           m.Actor,
		Reason:          m.Reason,
		CreatedAt:       m.CreatedAt,
	}
}
