package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/WeOneApp/wardsponsor/app/models"
	"github.com/WeOneApp/wardsponsor/app/repository"
	"github.com/WeOneApp/wardsponsor/internal/pkg/cartstore"
	"github.com/WeOneApp/wardsponsor/internal/pkg/checkout"
	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
	"github.com/WeOneApp/wardsponsor/internal/pkg/usercontext"
)

var checkoutService *checkout.Service

// SetCheckoutService installs the checkout service used by the order
// handlers. Called once during application startup.
func SetCheckoutService(svc *checkout.Service) {
	checkoutService = svc
}

type checkoutSubmitRequest struct {
	SponsorName    string `json:"sponsor_name"`
	SponsorEmail   string `json:"sponsor_email"`
	SponsorType    string `json:"sponsor_type"`
	DurationMonths int    `json:"duration_months"`
}

// HandleCheckoutSubmit turns the session cart into a pending order and a
// gateway order the payment widget can charge.
func HandleCheckoutSubmit(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	var req checkoutSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	sid, cart, err := loadCart(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session unavailable"})
	}

	order, gatewayOrder, err := checkoutService.SubmitOrder(c.Context(), checkout.SubmitInput{
		UserID:         userCtx.UserID,
		SponsorName:    req.SponsorName,
		SponsorEmail:   req.SponsorEmail,
		SponsorType:    req.SponsorType,
		DurationMonths: req.DurationMonths,
		Items:          cart.Items,
	})
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty_cart", "message": "Your cart is empty."})
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid sponsor details: " + verrs.Error()})
		}
		log.Errorf("[Checkout] order submission failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create order"})
	}

	if err := cartstore.Clear(sid); err != nil {
		log.Warnf("[Checkout] failed to clear cart for session %s: %v", sid, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"sponsorship":       order,
		"provider_order_id": gatewayOrder.ID,
		"amount":            gatewayOrder.Amount,
		"currency":          gatewayOrder.Currency,
		"key_id":            checkoutService.GatewayKeyID(),
	})
}

type paymentOrderRequest struct {
	SponsorshipID uint `json:"sponsorship_id"`
}

// HandleCheckoutPaymentOrder regenerates the gateway order for a pending
// sponsorship so the sponsor can retry a payment that never completed.
func HandleCheckoutPaymentOrder(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	var req paymentOrderRequest
	if err := c.BodyParser(&req); err != nil || req.SponsorshipID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "sponsorship_id is required"})
	}

	order, gatewayOrder, err := checkoutService.RecreatePaymentOrder(c.Context(), req.SponsorshipID, userCtx.UserID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrOrderNotFound), errors.Is(err, checkout.ErrNotAllowed):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Order not found"})
		case errors.Is(err, checkout.ErrInvalidState):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "invalid_state", "message": "Order is not awaiting payment"})
		}
		log.Errorf("[Checkout] payment order retry failed for sponsorship %d: %v", req.SponsorshipID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create payment order"})
	}

	return c.JSON(fiber.Map{
		"sponsorship":       order,
		"provider_order_id": gatewayOrder.ID,
		"amount":            gatewayOrder.Amount,
		"currency":          gatewayOrder.Currency,
		"key_id":            checkoutService.GatewayKeyID(),
	})
}

type checkoutVerifyRequest struct {
	ProviderOrderID string `json:"provider_order_id"`
	PaymentID       string `json:"payment_id"`
	Signature       string `json:"signature"`
}

// HandleCheckoutVerify verifies the gateway payment signature and activates
// the order, locking its wards.
func HandleCheckoutVerify(c *fiber.Ctx) error {
	var req checkoutVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	order, err := checkoutService.VerifyAndActivate(c.Context(), req.ProviderOrderID, req.PaymentID, req.Signature)
	if err != nil {
		var stale *checkout.StaleStateError
		switch {
		case errors.Is(err, checkout.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Order not found"})
		case errors.Is(err, checkout.ErrSignatureMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "signature_mismatch", "message": "Payment signature verification failed"})
		case errors.As(err, &stale):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":   "wards_unavailable",
				"message": stale.Error(),
				"wards":   stale.Wards,
			})
		case errors.Is(err, checkout.ErrInvalidState):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "invalid_state", "message": "Order is not awaiting payment"})
		}
		log.Errorf("[Checkout] payment verification failed for order %s: %v", req.ProviderOrderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Payment verification failed"})
	}

	return c.JSON(fiber.Map{"sponsorship": order})
}

// HandleCheckoutStatus reports the payment state of one order; the payment
// widget polls this after handing off to the gateway.
func HandleCheckoutStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	order, err := repository.GetGlobalRepositories().Sponsorship.GetByProviderOrderID(c.Params("order_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load order"})
	}
	if order.UserID != userCtx.UserID && !userCtx.IsAdmin {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Order not found"})
	}

	return c.JSON(fiber.Map{
		"provider_order_id": order.ProviderOrderID,
		"status":            order.Status,
		"total_amount":      order.TotalAmount,
		"payment_date":      order.PaymentDate,
		"start_date":        order.StartDate,
		"end_date":          order.EndDate,
	})
}

// HandleCancelSponsorship cancels an order. Non-owners get the same generic
// response as a missing order.
func HandleCancelSponsorship(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid sponsorship id"})
	}

	err = checkoutService.Cancel(c.Context(), uint(id), userCtx.UserID, userCtx.IsAdmin)
	if err != nil {
		if errors.Is(err, checkout.ErrOrderNotFound) || errors.Is(err, checkout.ErrNotAllowed) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Sponsorship not found"})
		}
		if errors.Is(err, checkout.ErrInvalidState) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "invalid_state", "message": "Sponsorship cannot be cancelled"})
		}
		log.Errorf("[Checkout] cancellation failed for sponsorship %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Cancellation failed"})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// HandleMySponsorships lists the logged-in sponsor's orders.
func HandleMySponsorships(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	orders, err := repository.GetGlobalRepositories().Sponsorship.GetByUserID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load sponsorships"})
	}

	return c.JSON(fiber.Map{"sponsorships": sponsorshipViews(orders)})
}

// HandleAdminSponsorships lists or searches all orders, paginated.
func HandleAdminSponsorships(c *fiber.Ctx) error {
	page, perPage := parsePagination(c)
	offset := (page - 1) * perPage

	repo := repository.GetGlobalRepositories().Sponsorship

	var (
		orders []models.Sponsorship
		err    error
	)
	if search := c.Query("search"); search != "" {
		orders, err = repo.Search(search, offset, perPage)
	} else if status := c.Query("status"); status != "" {
		orders, err = repo.ListByStatus(status, offset, perPage)
	} else {
		orders, err = repo.List(offset, perPage)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load sponsorships"})
	}

	total, err := repo.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count sponsorships"})
	}

	return c.JSON(fiber.Map{
		"sponsorships": sponsorshipViews(orders),
		"page":         page,
		"per_page":     perPage,
		"total":        total,
	})
}

// sponsorshipViews expands the stored cart snapshot onto each order for the
// API response.
func sponsorshipViews(orders []models.Sponsorship) []fiber.Map {
	views := make([]fiber.Map, 0, len(orders))
	for i := range orders {
		items, err := orders[i].Cart()
		if err != nil {
			items = []sponsorcart.CartItem{}
		}
		views = append(views, fiber.Map{
			"sponsorship": orders[i],
			"items":       items,
		})
	}
	return views
}
