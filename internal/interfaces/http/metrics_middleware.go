package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestRecorder recibe la duración y el estado de cada petición.
type RequestRecorder interface {
	RecordHTTPRequest(method, path string, status int, d time.Duration)
}

// RequestMetrics registra cada petición usando la ruta registrada (no la URL) como etiqueta.
func RequestMetrics(rec RequestRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		rec.RecordHTTPRequest(c.Method(), path, status, time.Since(start))
		return err
	}
}
