package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

// dateLayout is the wire format for selection dates.
const dateLayout = "02/01/2006"

// parseDate parses a DD/MM/YYYY wire date.
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(value))
}

// parsePagination reads page/per_page query params with sane bounds.
func parsePagination(c *fiber.Ctx) (page, perPage int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.Query("per_page", "50"))
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}
	return page, perPage
}

// outcomeStatus maps a cart outcome to an HTTP status. Business rejections
// are client errors, never 500s.
func outcomeStatus(outcome sponsorcart.Outcome) int {
	if outcome.OK {
		return fiber.StatusOK
	}
	switch outcome.Summary {
	case "Selection Conflict":
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

// outcomeJSON renders a cart outcome plus the current cart state.
func outcomeJSON(c *fiber.Ctx, outcome sponsorcart.Outcome, cart *sponsorcart.Cart) error {
	return c.Status(outcomeStatus(outcome)).JSON(fiber.Map{
		"ok":       outcome.OK,
		"severity": outcome.Severity,
		"summary":  outcome.Summary,
		"detail":   outcome.Detail,
		"updated":  outcome.Updated,
		"cart":     cartJSON(cart),
	})
}

// cartJSON renders the cart with its derived totals.
func cartJSON(cart *sponsorcart.Cart) fiber.Map {
	return fiber.Map{
		"items":            cart.Items,
		"subtotal":         cart.Subtotal(),
		"gst":              sponsorcart.GST(cart.Subtotal()),
		"total_executives": cart.TotalExecutives(),
	}
}
