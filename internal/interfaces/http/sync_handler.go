package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// SyncPuller dispara un pull del inventario externo.
type SyncPuller interface {
	Pull(ctx context.Context) (*entity.SyncRun, error)
}

// SyncRunReader lee la bitácora de sincronización.
type SyncRunReader interface {
	Recent(ctx context.Context, limit int64) ([]entity.SyncRun, error)
}

// SyncHandler disparo manual y bitácora de la sincronización externa.
// Las rutas se protegen con RequireFeature, así que puller y runs no llegan nil a los handlers.
type SyncHandler struct {
	puller SyncPuller
	runs   SyncRunReader
}

func NewSyncHandler(puller SyncPuller, runs SyncRunReader) *SyncHandler {
	return &SyncHandler{puller: puller, runs: runs}
}

// Pull godoc
// @Summary      Ejecutar un pull del inventario externo
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncRunResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/sync/pull [post]
func (h *SyncHandler) Pull(c *fiber.Ctx) error {
	run, err := h.puller.Pull(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSyncRunResponse(*run))
}

// Runs godoc
// @Summary      Últimas ejecuciones de push/pull
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(20)
// @Success      200  {object}  dto.SyncRunListResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/sync/runs [get]
func (h *SyncHandler) Runs(c *fiber.Ctx) error {
	page := pageFromQuery(c, 20, 100)
	runs, err := h.runs.Recent(c.UserContext(), int64(page.Limit))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.SyncRunListResponse{Items: make([]dto.SyncRunResponse, 0, len(runs))}
	for _, run := range runs {
		out.Items = append(out.Items, toSyncRunResponse(run))
	}
	return c.JSON(out)
}

func toSyncRunResponse(run entity.SyncRun) dto.SyncRunResponse {
	return dto.SyncRunResponse{
		ID:         run.ID,
		Direction:  run.Direction,
		Flavor:     run.Flavor,
		Items:      run.Items,
		Applied:    run.Applied,
		Created:    run.Created,
		Skipped:    run.Skipped,
		Failed:     run.Failed,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}
