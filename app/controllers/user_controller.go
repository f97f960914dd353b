package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/WeOneApp/wardsponsor/app/models"
	"github.com/WeOneApp/wardsponsor/app/repository"
	"github.com/WeOneApp/wardsponsor/internal/pkg/usercontext"
)

// HandleUserProfile returns the logged-in sponsor's account data with a
// summary of their sponsorship activity.
func HandleUserProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load profile"})
	}

	orders, err := repos.Sponsorship.GetByUserID(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load sponsorships"})
	}

	var active, pending int
	var totalSpent int64
	for i := range orders {
		switch orders[i].Status {
		case models.SPONSORSHIP_ACTIVE:
			active++
			totalSpent += orders[i].TotalAmount
		case models.SPONSORSHIP_PENDING:
			pending++
		case models.SPONSORSHIP_EXPIRED:
			totalSpent += orders[i].TotalAmount
		}
	}

	return c.JSON(fiber.Map{
		"user":                 user,
		"active_sponsorships":  active,
		"pending_sponsorships": pending,
		"total_spent":          totalSpent,
	})
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	SponsorType string `json:"sponsor_type"`
}

// HandleUpdateUserProfile updates the sponsor's display name and type.
func HandleUpdateUserProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "User not found"})
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.SponsorType != "" {
		if req.SponsorType != models.SPONSOR_TYPE_INDIVIDUAL && req.SponsorType != models.SPONSOR_TYPE_COMPANY {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "sponsor_type must be individual or company"})
		}
		user.SponsorType = req.SponsorType
	}

	if err := user.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid profile data"})
	}
	if err := repos.User.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// HandleAdminUsers lists or searches registered sponsors, paginated.
func HandleAdminUsers(c *fiber.Ctx) error {
	page, perPage := parsePagination(c)
	offset := (page - 1) * perPage

	repos := repository.GetGlobalRepositories()

	var (
		users []models.User
		err   error
	)
	if search := c.Query("search"); search != "" {
		users, err = repos.User.Search(search, offset, perPage)
	} else {
		users, err = repos.User.List(offset, perPage)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load users"})
	}

	total, err := repos.User.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count users"})
	}

	return c.JSON(fiber.Map{
		"users":    users,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}
