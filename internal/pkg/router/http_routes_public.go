package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WeOneApp/wardsponsor/app/controllers"
	"github.com/WeOneApp/wardsponsor/internal/pkg/constants"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get(constants.HealthRoute, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth
	app.Post(constants.RegisterRoute, controllers.HandleAuthRegister)
	app.Post(constants.LoginRoute, controllers.HandleAuthLogin)
	app.Post(constants.LogoutRoute, controllers.HandleAuthLogout)
}
