package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/WeOneApp/wardsponsor/app/models"
	"github.com/WeOneApp/wardsponsor/app/repository"
	"github.com/WeOneApp/wardsponsor/internal/pkg/hierarchy"
	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

func catalog() *hierarchy.Catalog {
	repos := repository.GetGlobalRepositories()
	return hierarchy.NewCatalog(repos.Ward, repos.Sponsorship)
}

// HandleGetZones lists the zones of the state.
func HandleGetZones(c *fiber.Ctx) error {
	zones, err := catalog().Zones()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load zones"})
	}
	return c.JSON(fiber.Map{"state": sponsorcart.StateName, "zones": zones})
}

// HandleGetDistricts lists the districts of a zone.
func HandleGetDistricts(c *fiber.Ctx) error {
	zone := c.Query("zone")
	if zone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "zone is required"})
	}
	districts, err := catalog().Districts(zone)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load districts"})
	}
	return c.JSON(fiber.Map{"zone": zone, "districts": districts})
}

// HandleGetSubdistricts lists the subdistricts of a district.
func HandleGetSubdistricts(c *fiber.Ctx) error {
	district := c.Query("district")
	if district == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "district is required"})
	}
	subdistricts, err := catalog().Subdistricts(district)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subdistricts"})
	}
	return c.JSON(fiber.Map{"district": district, "subdistricts": subdistricts})
}

// HandleGetLocalBodies lists the local bodies of one type in a subdistrict.
func HandleGetLocalBodies(c *fiber.Ctx) error {
	subdistrict := c.Query("subdistrict")
	localBodyType := c.Query("type")
	if subdistrict == "" || localBodyType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "subdistrict and type are required"})
	}
	names, err := catalog().LocalBodies(subdistrict, localBodyType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load local bodies"})
	}
	return c.JSON(fiber.Map{
		"subdistrict":  subdistrict,
		"type":         sponsorcart.NormalizeType(localBodyType),
		"local_bodies": names,
	})
}

// HandleGetWards lists wards under a hierarchy node with live occupancy.
func HandleGetWards(c *fiber.Ctx) error {
	query := repository.WardQuery{
		Zone:          c.Query("zone"),
		District:      c.Query("district"),
		Subdistrict:   c.Query("subdistrict"),
		LocalBodyType: c.Query("type"),
		LocalBodyName: c.Query("local_body"),
	}

	views, err := catalog().Wards(query, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load wards"})
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		needle := strings.ToLower(search)
		filtered := views[:0]
		for _, v := range views {
			if strings.Contains(strings.ToLower(v.WardName), needle) ||
				strings.Contains(strings.ToLower(v.LocalBodyName), needle) {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	return c.JSON(fiber.Map{"wards": views, "count": len(views)})
}

// HandleGetWardSummary aggregates the sponsorable capacity under a node,
// used by the bulk selection preview.
func HandleGetWardSummary(c *fiber.Ctx) error {
	query := repository.WardQuery{
		Zone:          c.Query("zone"),
		District:      c.Query("district"),
		Subdistrict:   c.Query("subdistrict"),
		LocalBodyType: c.Query("type"),
		LocalBodyName: c.Query("local_body"),
	}

	summary, err := catalog().Summarize(query, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to summarize wards"})
	}
	return c.JSON(summary)
}

// HandleGetWard returns one ward with occupancy.
func HandleGetWard(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid ward id"})
	}

	ward, err := repository.GetGlobalRepositories().Ward.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Ward not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load ward"})
	}

	views, err := catalog().Wards(repository.WardQuery{
		LocalBodyName: ward.LocalBodyName,
		Subdistrict:   ward.Subdistrict,
	}, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load ward"})
	}
	for _, view := range views {
		if view.ID == ward.ID {
			return c.JSON(view)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Ward not found"})
}

type wardImportRequest struct {
	Wards []wardImportEntry `json:"wards"`
}

type wardImportEntry struct {
	WardName      string `json:"ward_name"`
	LocalBodyName string `json:"local_body_name"`
	LocalBodyType string `json:"local_body_type"`
	Subdistrict   string `json:"subdistrict"`
	District      string `json:"district"`
	Zone          string `json:"zone"`
}

// HandleImportWards bulk-loads catalog rows (admin only). Names are
// normalized so later lookups are consistent regardless of source casing.
func HandleImportWards(c *fiber.Ctx) error {
	var req wardImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if len(req.Wards) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "No wards to import"})
	}

	repo := repository.GetGlobalRepositories().Ward

	wards := make([]models.Ward, 0, len(req.Wards))
	skipped := 0
	for i, entry := range req.Wards {
		ward := models.Ward{
			WardName:      hierarchy.NormalizeName(entry.WardName),
			LocalBodyName: hierarchy.NormalizeName(entry.LocalBodyName),
			LocalBodyType: sponsorcart.NormalizeType(entry.LocalBodyType),
			Subdistrict:   hierarchy.NormalizeName(entry.Subdistrict),
			District:      hierarchy.NormalizeName(entry.District),
			Zone:          hierarchy.NormalizeName(entry.Zone),
			State:         sponsorcart.StateName,
		}
		if err := ward.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "validation_failed",
				"message": "Invalid ward at index " + strconv.Itoa(i),
			})
		}
		// Re-imports are idempotent: rows already in the catalog are skipped.
		if _, err := repo.GetByNameAndLocalBody(ward.WardName, ward.LocalBodyName); err == nil {
			skipped++
			continue
		}
		wards = append(wards, ward)
	}

	if len(wards) > 0 {
		if err := repo.CreateBatch(wards); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Import failed"})
		}
	}

	catalog().InvalidateCache()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"imported": len(wards), "skipped": skipped})
}
