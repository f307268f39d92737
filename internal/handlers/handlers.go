// Package handlers serves the HTML pages, probes and the tool protocol HTTP
// transport. The JSON catalog API lives in handlers/api.
package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// plainError returns a bare {"error": message} body, the shape tool protocol
// clients expect outside a JSON-RPC envelope.
func plainError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
