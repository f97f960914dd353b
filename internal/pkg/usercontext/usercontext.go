package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext is the resolved sponsor identity for one request.
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
}

// GetUserContext reads the user context the middleware stored in Locals.
// Requests outside the middleware chain resolve to an anonymous context.
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(KeyUserContext); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{}
}
