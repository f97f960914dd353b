package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/WeOneApp/wardsponsor/app/models"
	"github.com/WeOneApp/wardsponsor/app/repository"
	"github.com/WeOneApp/wardsponsor/internal/pkg/database"
	"github.com/WeOneApp/wardsponsor/internal/pkg/session"
	"github.com/WeOneApp/wardsponsor/internal/pkg/usercontext"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	SponsorType string `json:"sponsor_type"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleAuthRegister creates a sponsor account.
func HandleAuthRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if req.SponsorType == "" {
		req.SponsorType = models.SPONSOR_TYPE_INDIVIDUAL
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password, req.SponsorType)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	repo := repository.GetGlobalRepositories().User
	if _, err := repo.GetByEmail(user.Email); err == nil {
		// notice: in production you should not inform the user
		// with detailed messages about registration failures
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "There is a problem with the registration process"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Registration failed"})
	}

	if err := repo.Create(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Registration failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"sponsor_type": user.SponsorType,
	})
}

// HandleAuthLogin verifies credentials and establishes the session.
func HandleAuthLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	// notice: in production you should not inform the user
	// with detailed messages about login failures
	denied := func() error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "There is a problem with the login process"})
	}

	repo := repository.GetGlobalRepositories().User
	user, err := repo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return denied()
	}

	if !models.CheckPasswordHash(req.Password, user.Password) {
		return denied()
	}

	if !user.IsActive() {
		return denied()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session unavailable"})
	}

	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)

	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session save failed"})
	}

	database.GetDB().Model(user).Update("last_login_at", time.Now())

	return c.JSON(fiber.Map{
		"id":       user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"is_admin": user.Role == models.ROLE_ADMIN,
	})
}

// HandleAuthLogout destroys the session.
func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}

	c.Locals(usercontext.KeyFromProtected, false)

	return c.JSON(fiber.Map{"ok": true})
}
