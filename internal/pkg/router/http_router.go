package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WeOneApp/wardsponsor/internal/pkg/middleware"
	"github.com/WeOneApp/wardsponsor/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
