package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-hotel/pkg/logger"
)

// HTTPObserver recibe cada petición terminada (lo implementa metrics.Prometheus).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestLogger registra método, ruta, estado y duración. obs puede ser nil.
func RequestLogger(log *logger.Logger, obs HTTPObserver) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if err, ok := c.Locals(localError).(error); ok {
			ev = ev.Err(err)
		}
		if user := GetUsername(c); user != "" {
			ev = ev.Str("user", user)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", elapsed).
			Msg("request")

		if obs != nil {
			obs.ObserveHTTP(c.Method(), route, status, elapsed)
		}
		return nil
	}
}
