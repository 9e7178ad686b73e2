package handlers

import (
	"strconv"

	"github.com/campusgig/server/internal/config"
	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/lifecycle"
	"github.com/campusgig/server/internal/middleware"
	"github.com/campusgig/server/internal/models"
	"github.com/campusgig/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ApplicationHandler struct {
	service *services.ApplicationService
}

func NewApplicationHandler(db *database.DB, cfg *config.Config) *ApplicationHandler {
	settings := services.NewSettingService(db, cfg)
	return &ApplicationHandler{
		service: services.NewApplicationService(db, settings),
	}
}

// SetupGigApplicationRoutes mounts the routes nested under /gigs/:id.
func SetupGigApplicationRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewApplicationHandler(db, cfg)

	router.Post("/:id/applications",
		middleware.AuthRequired(cfg),
		middleware.RequireRole(models.RoleStudent),
		h.Apply)
	router.Get("/:id/applications",
		middleware.AuthRequired(cfg),
		middleware.RequireRole(models.RoleBusiness),
		h.ListByGig)
}

// SetupApplicationRoutes mounts the top-level /applications routes.
func SetupApplicationRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewApplicationHandler(db, cfg)

	router.Get("/me",
		middleware.RequireRole(models.RoleStudent),
		h.ListMine)
	router.Patch("/:id/status",
		middleware.RequireRole(models.RoleBusiness),
		h.UpdateStatus)
}

// Apply godoc
// @Summary Apply to a gig
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gig ID"
// @Param request body services.ApplyRequest true "Cover note"
// @Success 201 {object} models.Application
// @Failure 409 {object} ErrorResponse "Already applied"
// @Router /gigs/{id}/applications [post]
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	studentID := c.Locals("userID").(uint)

	gigID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gig ID"})
	}

	var req services.ApplyRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	application, err := h.service.Apply(studentID, uint(gigID), &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(application)
}

// ListByGig godoc
// @Summary List applications for an owned gig
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gig ID"
// @Success 200 {array} models.Application
// @Router /gigs/{id}/applications [get]
func (h *ApplicationHandler) ListByGig(c *fiber.Ctx) error {
	ownerID := c.Locals("userID").(uint)

	gigID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gig ID"})
	}

	applications, err := h.service.ListByGig(ownerID, uint(gigID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(applications)
}

// ListMine godoc
// @Summary List the current student's applications
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Application
// @Router /applications/me [get]
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	studentID := c.Locals("userID").(uint)

	applications, err := h.service.ListMine(studentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(applications)
}

// UpdateStatus godoc
// @Summary Move an application through its review lifecycle
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body services.UpdateApplicationStatusRequest true "New status"
// @Success 200 {object} models.Application
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Router /applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	ownerID := c.Locals("userID").(uint)

	applicationID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid application ID"})
	}

	var req services.UpdateApplicationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if _, err := lifecycle.ParseStatus(req.Status); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	application, err := h.service.UpdateStatus(c.Context(), ownerID, uint(applicationID), req.Status)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(application)
}
