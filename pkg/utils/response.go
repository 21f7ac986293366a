package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Error writes the API error body: {statusCode, message, error}.
// The error field carries the standard HTTP status text ("Unauthorized",
// "Conflict", ...), the message field the human-readable detail.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"statusCode": status,
		"message":    message,
		"error":      http.StatusText(status),
	})
}

// JSON writes data as the raw response body with the given status.
func JSON(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}
