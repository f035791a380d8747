package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
	"github.com/jhoicas/Tienda-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Inventory   *inventory.Service
	Reports     *inventory.ReportUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	// Sync puede ser nil cuando no hay inventario externo configurado.
	Sync SyncPuller
	// SyncRuns puede ser nil cuando no hay MongoDB configurado.
	SyncRuns  SyncRunReader
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	staff := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)
	warehouseStaff := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", staff, warehouseHandler.List)
	warehouses.Get("/:id", staff, warehouseHandler.GetByID)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/:id", staff, productHandler.GetByID)

	// Inventory
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Inventory, deps.Reports)
	invGroup.Post("/reservations", RequireRole(jwt.RoleAdmin, jwt.RoleVendedor, jwt.RoleService), inventoryHandler.Reserve)
	invGroup.Post("/increments", RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor, jwt.RoleService), inventoryHandler.Increment)
	invGroup.Post("/adjustments", warehouseStaff, inventoryHandler.Adjust)
	invGroup.Post("/transfers", warehouseStaff, inventoryHandler.Transfer)
	invGroup.Post("/products/:id/recompute", adminOnly, inventoryHandler.Recompute)
	invGroup.Get("/stock", staff, inventoryHandler.QueryStock)
	invGroup.Get("/low-stock", staff, inventoryHandler.ListLowStock)
	invGroup.Get("/low-stock/report", warehouseStaff, inventoryHandler.LowStockReport)

	// Sincronización externa (manual) y bitácora
	syncHandler := NewSyncHandler(deps.Sync, deps.SyncRuns)
	invGroup.Post("/sync/pull", adminOnly, RequireFeature("sync", deps.Sync != nil), syncHandler.Pull)
	invGroup.Get("/sync/runs", adminOnly, RequireFeature("sync-log", deps.SyncRuns != nil), syncHandler.Runs)
}
