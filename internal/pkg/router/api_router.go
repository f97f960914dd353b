package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/WeOneApp/wardsponsor/app/controllers"
	"github.com/WeOneApp/wardsponsor/internal/pkg/constants"
	"github.com/WeOneApp/wardsponsor/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New())

	// Hierarchy catalog (public)
	api.Get("/zones", controllers.HandleGetZones)
	api.Get("/districts", controllers.HandleGetDistricts)
	api.Get("/subdistricts", controllers.HandleGetSubdistricts)
	api.Get("/localbodies", controllers.HandleGetLocalBodies)
	api.Get("/wards", controllers.HandleGetWards)
	api.Get("/wards/summary", controllers.HandleGetWardSummary)
	api.Get("/wards/:id", controllers.HandleGetWard)

	// Session cart
	api.Get("/cart", controllers.HandleGetCart)
	api.Post("/cart/items", controllers.HandleAddCartItem)
	api.Post("/cart/bulk", controllers.HandleAddCartBulk)
	api.Post("/cart/batch", controllers.HandleAddCartBatch)
	api.Delete("/cart/items/:id", controllers.HandleRemoveCartItem)
	api.Delete("/cart", controllers.HandleClearCart)

	// Checkout and sponsorships (session required)
	api.Post("/checkout", middleware.RequireAPISessionAuth, controllers.HandleCheckoutSubmit)
	api.Post("/checkout/payment-order", middleware.RequireAPISessionAuth, controllers.HandleCheckoutPaymentOrder)
	api.Post("/checkout/verify", middleware.RequireAPISessionAuth, controllers.HandleCheckoutVerify)
	api.Get("/checkout/orders/:order_id", middleware.RequireAPISessionAuth, controllers.HandleCheckoutStatus)
	api.Get("/sponsorships", middleware.RequireAPISessionAuth, controllers.HandleMySponsorships)
	api.Get("/profile", middleware.RequireAPISessionAuth, controllers.HandleUserProfile)
	api.Put("/profile", middleware.RequireAPISessionAuth, controllers.HandleUpdateUserProfile)
	api.Post("/sponsorships/:id/cancel", middleware.RequireAPISessionAuth, controllers.HandleCancelSponsorship)

	// Admin
	admin := api.Group("/admin", middleware.RequireAPIAdmin)
	admin.Post("/wards/import", controllers.HandleImportWards)
	admin.Get("/sponsorships", controllers.HandleAdminSponsorships)
	admin.Get("/users", controllers.HandleAdminUsers)
	admin.Get("/queues", controllers.HandleAdminQueueStats)
	admin.Get("/queues/jobs", controllers.HandleAdminQueueJobs)
	admin.Delete("/queues/jobs", controllers.HandleAdminQueuePurge)
	admin.Post("/queues/expiry-sweep", controllers.HandleAdminExpirySweep)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
