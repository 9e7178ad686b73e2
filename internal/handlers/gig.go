package handlers

import (
	"strconv"
	"strings"

	"github.com/campusgig/server/internal/config"
	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/middleware"
	"github.com/campusgig/server/internal/models"
	"github.com/campusgig/server/internal/services"
	"github.com/campusgig/server/pkg/geo"
	"github.com/gofiber/fiber/v2"
)

type GigHandler struct {
	service *services.GigService
	match   *services.MatchService
}

func NewGigHandler(db *database.DB, cfg *config.Config) *GigHandler {
	settings := services.NewSettingService(db, cfg)
	return &GigHandler{
		service: services.NewGigService(db),
		match:   services.NewMatchService(db, settings),
	}
}

func SetupGigRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewGigHandler(db, cfg)

	router.Get("/", middleware.OptionalAuth(cfg), h.List)
	router.Get("/locations", h.Locations)
	router.Get("/matched",
		middleware.AuthRequired(cfg),
		middleware.RequireRole(models.RoleStudent),
		h.Matched)
	router.Post("/",
		middleware.AuthRequired(cfg),
		middleware.RequireRole(models.RoleBusiness),
		h.Create)
	router.Get("/:id", h.Get)
	router.Put("/:id",
		middleware.AuthRequired(cfg),
		middleware.RequireRole(models.RoleBusiness),
		h.Update)
	router.Delete("/:id",
		middleware.AuthRequired(cfg),
		middleware.RequireRole(models.RoleBusiness),
		h.Delete)
}

// List godoc
// @Summary Browse gigs with filters
// @Tags gigs
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param q query string false "Free-text search over title, description, location"
// @Param min_budget query int false "Minimum budget (inclusive)"
// @Param max_budget query int false "Maximum budget (inclusive)"
// @Param location query string false "Exact city filter"
// @Param skills query string false "Comma-separated skill tags (any match)"
// @Param lat query number false "Origin latitude"
// @Param lng query number false "Origin longitude"
// @Param radius_km query number false "Distance radius in km (5-500)"
// @Param sort query string false "Sort: -created_at, -budget, budget, distance"
// @Success 200 {object} services.GigListResponse
// @Router /gigs [get]
func (h *GigHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	lat, _ := strconv.ParseFloat(c.Query("lat", "0"), 64)
	lng, _ := strconv.ParseFloat(c.Query("lng", "0"), 64)

	filter := services.GigFilter{
		Page:     page,
		Limit:    limit,
		Query:    c.Query("q"),
		Location: c.Query("location"),
		Lat:      lat,
		Lng:      lng,
		Sort:     c.Query("sort"),
	}

	if raw := c.Query("min_budget"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid min_budget"})
		}
		filter.MinBudget = &v
	}
	if raw := c.Query("max_budget"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid max_budget"})
		}
		filter.MaxBudget = &v
	}
	if raw := c.Query("skills"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Skills = append(filter.Skills, s)
			}
		}
	}
	if raw := c.Query("radius_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 5 || v > 500 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "radius_km must be between 5 and 500"})
		}
		filter.RadiusKm = v
	}

	response, err := h.service.List(&filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(response)
}

// Locations godoc
// @Summary List the cities gigs can be geocoded against
// @Tags gigs
// @Accept json
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /gigs/locations [get]
func (h *GigHandler) Locations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"locations": geo.KnownCities(),
	})
}

// Matched godoc
// @Summary Personalized gig feed for the current student
// @Tags gigs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.MatchResponse
// @Router /gigs/matched [get]
func (h *GigHandler) Matched(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	response, err := h.match.GetMatches(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(response)
}

// Get godoc
// @Summary Get gig by ID
// @Tags gigs
// @Accept json
// @Produce json
// @Param id path int true "Gig ID"
// @Success 200 {object} models.Gig
// @Router /gigs/{id} [get]
func (h *GigHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gig ID"})
	}

	gig, err := h.service.GetByID(uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(gig)
}

// Create godoc
// @Summary Post a new gig
// @Tags gigs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateGigRequest true "Gig data"
// @Success 201 {object} models.Gig
// @Router /gigs [post]
func (h *GigHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.CreateGigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	gig, err := h.service.Create(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(gig)
}

// Update godoc
// @Summary Edit an owned gig
// @Tags gigs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gig ID"
// @Param request body services.UpdateGigRequest true "Fields to update"
// @Success 200 {object} models.Gig
// @Router /gigs/{id} [put]
func (h *GigHandler) Update(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gig ID"})
	}

	var req services.UpdateGigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	gig, err := h.service.Update(userID, uint(id), &req)
	if err != nil {
		switch err {
		case services.ErrGigNotFound, services.ErrNotGigOwner:
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(gig)
}

// Delete godoc
// @Summary Delete an owned gig and its applications
// @Tags gigs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gig ID"
// @Success 204
// @Router /gigs/{id} [delete]
func (h *GigHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gig ID"})
	}

	if err := h.service.Delete(userID, uint(id)); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
