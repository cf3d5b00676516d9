package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const requestIDKey = "requestid"

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestLogger logs one structured record per request.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Render now so the logged status is the one the client sees.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		s.logger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
			"request_id", requestID(c),
		)
		return nil
	}
}

// queryTimeout bounds the context handed to the service for each request.
func (s *Server) queryTimeout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s.opts.QueryTimeout <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), s.opts.QueryTimeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
