package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/WeOneApp/wardsponsor/app/repository"
	"github.com/WeOneApp/wardsponsor/internal/pkg/cartstore"
	"github.com/WeOneApp/wardsponsor/internal/pkg/session"
	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

func sessionID(c *fiber.Ctx) (string, error) {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return "", err
	}
	if sess.Fresh() {
		if err := sess.Save(); err != nil {
			return "", err
		}
	}
	return sess.ID(), nil
}

func loadCart(c *fiber.Ctx) (string, *sponsorcart.Cart, error) {
	sid, err := sessionID(c)
	if err != nil {
		return "", nil, err
	}
	return sid, cartstore.Load(sid), nil
}

// wardRefByID resolves a catalog ward to the snapshot a cart entry carries.
func wardRefByID(id uint) (*sponsorcart.WardRef, error) {
	ward, err := repository.GetGlobalRepositories().Ward.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &sponsorcart.WardRef{
		ID:            ward.ID,
		WardName:      ward.WardName,
		LocalBodyName: ward.LocalBodyName,
		LocalBodyType: ward.TypeCode(),
		District:      ward.District,
		Zone:          ward.Zone,
	}, nil
}

// availableExecutives resolves the ward's remaining capacity from the
// order ledger.
func availableExecutives(ref *sponsorcart.WardRef, subdistrict string) (int, error) {
	views, err := catalog().Wards(repository.WardQuery{
		Subdistrict:   subdistrict,
		LocalBodyName: ref.LocalBodyName,
	}, time.Now())
	if err != nil {
		return 0, err
	}
	for _, view := range views {
		if view.ID == ref.ID {
			return view.Occupancy.AvailableExecutives, nil
		}
	}
	return sponsorcart.MaxExecutivesFor(ref.LocalBodyType), nil
}

// HandleGetCart returns the session cart with totals.
func HandleGetCart(c *fiber.Ctx) error {
	_, cart, err := loadCart(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session unavailable"})
	}
	return c.JSON(cartJSON(cart))
}

type addItemRequest struct {
	WardID     uint   `json:"ward_id"`
	Executives int    `json:"executives"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// HandleAddCartItem adds or updates a single-ward selection.
func HandleAddCartItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "start_date must be DD/MM/YYYY"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "end_date must be DD/MM/YYYY"})
	}

	ward, err := repository.GetGlobalRepositories().Ward.GetByID(req.WardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Ward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load ward"})
	}

	ref := &sponsorcart.WardRef{
		ID:            ward.ID,
		WardName:      ward.WardName,
		LocalBodyName: ward.LocalBodyName,
		LocalBodyType: ward.TypeCode(),
		District:      ward.District,
		Zone:          ward.Zone,
	}

	available, err := availableExecutives(ref, ward.Subdistrict)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to resolve availability"})
	}
	if req.Executives > available {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "This ward does not have enough open executive slots.",
		})
	}

	sid, cart, err := loadCart(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session unavailable"})
	}

	result := cart.AddIndividual(*ref, req.Executives, start, end)
	if result.Outcome.OK {
		if err := cartstore.Save(sid, cart); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to persist cart"})
		}
	}
	return outcomeJSON(c, result.Outcome, cart)
}

type addBulkRequest struct {
	Level             string `json:"level"`
	Zone              string `json:"zone"`
	District          string `json:"district"`
	Subdistrict       string `json:"subdistrict"`
	Type              string `json:"type"`
	LocalBody         string `json:"local_body"`
	ExecutivesPerWard int    `json:"executives_per_ward"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
}

// HandleAddCartBulk claims every sponsorable ward under a hierarchy node.
func HandleAddCartBulk(c *fiber.Ctx) error {
	var req addBulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "start_date must be DD/MM/YYYY"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "end_date must be DD/MM/YYYY"})
	}

	level := sponsorcart.Level(req.Level)
	var identifier string
	query := repository.WardQuery{}

	switch level {
	case sponsorcart.LevelState:
		identifier = sponsorcart.StateName
	case sponsorcart.LevelZone:
		identifier = req.Zone
		query.Zone = req.Zone
	case sponsorcart.LevelDistrict:
		identifier = req.District
		query.Zone, query.District = req.Zone, req.District
	case sponsorcart.LevelSubdistrict:
		identifier = req.Subdistrict
		query.District, query.Subdistrict = req.District, req.Subdistrict
	case sponsorcart.LevelType:
		identifier = req.Subdistrict + " " + sponsorcart.TypeLabel(req.Type)
		query.Subdistrict, query.LocalBodyType = req.Subdistrict, req.Type
	case sponsorcart.LevelLocalBody:
		identifier = req.LocalBody
		query.Subdistrict, query.LocalBodyType, query.LocalBodyName = req.Subdistrict, req.Type, req.LocalBody
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid selection level"})
	}
	hierarchyData := sponsorcart.BuildHierarchyData(level, req.Zone, req.District, req.Subdistrict, req.Type, req.LocalBody)

	summary, err := catalog().Summarize(query, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to summarize selection"})
	}

	sid, cart, err := loadCart(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session unavailable"})
	}

	// Ward counts exclude fully occupied wards, so the preview estimate and
	// the activation-time lock pass agree on scope.
	result := cart.AddBulk(level, identifier, hierarchyData, summary.WardCount, req.ExecutivesPerWard, start, end, identifier)
	if !result.Outcome.OK {
		return outcomeJSON(c, result.Outcome, cart)
	}
	if err := cartstore.Save(sid, cart); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to persist cart"})
	}

	claimed, err := catalog().WardsUnderNode(*result.Item, time.Now())
	if err != nil {
		claimed = nil
	}
	return c.JSON(fiber.Map{
		"ok":            true,
		"severity":      result.Outcome.Severity,
		"summary":       result.Outcome.Summary,
		"detail":        result.Outcome.Detail,
		"updated":       result.Outcome.Updated,
		"cart":          cartJSON(cart),
		"claimed_wards": claimed,
	})
}

type addBatchRequest struct {
	WardIDs    []uint `json:"ward_ids"`
	Executives int    `json:"executives"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// HandleAddCartBatch adds a literal ward list atomically.
func HandleAddCartBatch(c *fiber.Ctx) error {
	var req addBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "start_date must be DD/MM/YYYY"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "end_date must be DD/MM/YYYY"})
	}

	wards := make([]sponsorcart.WardRef, 0, len(req.WardIDs))
	for _, id := range req.WardIDs {
		ref, err := wardRefByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Ward not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load wards"})
		}
		wards = append(wards, *ref)
	}

	sid, cart, err := loadCart(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session unavailable"})
	}

	outcome := cart.AddWardBatch(wards, req.Executives, start, end)
	if outcome.OK {
		if err := cartstore.Save(sid, cart); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to persist cart"})
		}
	}
	return outcomeJSON(c, outcome, cart)
}

// HandleRemoveCartItem deletes one cart entry.
func HandleRemoveCartItem(c *fiber.Ctx) error {
	itemID := c.Params("id")

	sid, cart, err := loadCart(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session unavailable"})
	}

	if !cart.Remove(itemID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Cart item not found"})
	}
	if err := cartstore.Save(sid, cart); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to persist cart"})
	}
	return c.JSON(cartJSON(cart))
}

// HandleClearCart empties the session cart.
func HandleClearCart(c *fiber.Ctx) error {
	sid, cart, err := loadCart(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session unavailable"})
	}

	cart.Clear()
	if err := cartstore.Clear(sid); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to clear cart"})
	}
	return c.JSON(cartJSON(cart))
}
