package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
)

// RequireFeature corta la petición con 503 cuando la funcionalidad no está configurada
// en este despliegue (por ejemplo la sincronización externa sin SYNC_BASE_URL).
func RequireFeature(name string, enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enabled {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "FEATURE_DISABLED",
				Message: "la funcionalidad '" + name + "' no está habilitada",
			})
		}
		return c.Next()
	}
}
