package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WeOneApp/wardsponsor/internal/pkg/usercontext"
)

func sessionLoggedIn(c *fiber.Ctx) bool {
	if b, ok := c.Locals(usercontext.KeyFromProtected).(bool); ok {
		return b
	}
	return false
}

// RequireAPISessionAuth ensures a logged-in session and returns JSON 401 otherwise.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	if !sessionLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Login required",
		})
	}
	return c.Next()
}

// RequireAPIAdmin ensures a logged-in admin session; non-admins get JSON 403.
func RequireAPIAdmin(c *fiber.Ctx) error {
	if !sessionLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Login required",
		})
	}
	if isAdmin, ok := c.Locals(usercontext.KeyIsAdmin).(bool); !ok || !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "Admin access required",
		})
	}
	return c.Next()
}
