package handlers

import (
	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(db *database.DB) *UserHandler {
	return &UserHandler{
		service: services.NewUserService(db),
	}
}

func SetupUserRoutes(router fiber.Router, db *database.DB) {
	h := NewUserHandler(db)

	router.Get("/me", h.GetMe)
	router.Put("/me", h.UpdateMe)
	router.Delete("/me", h.DeleteMe)
	router.Post("/me/devices", h.RegisterDevice)
	router.Delete("/me/devices", h.UnregisterDevice)
}

// GetMe godoc
// @Summary Get current user profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := h.service.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

// UpdateMe godoc
// @Summary Update profile (name, skills, coordinates)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.UpdateUserRequest true "Update data"
// @Success 200 {object} models.User
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.service.Update(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(user)
}

// DeleteMe godoc
// @Summary Deactivate current user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 204
// @Router /users/me [delete]
func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := h.service.Delete(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterDevice godoc
// @Summary Register a push notification token
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.RegisterDeviceRequest true "Device token"
// @Success 201 {object} models.Device
// @Router /users/me/devices [post]
func (h *UserHandler) RegisterDevice(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	device, err := h.service.RegisterDevice(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(device)
}

// UnregisterDevice godoc
// @Summary Deactivate a push notification token
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.UnregisterDeviceRequest true "Device token"
// @Success 204
// @Router /users/me/devices [delete]
func (h *UserHandler) UnregisterDevice(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.UnregisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.UnregisterDevice(userID, req.Token); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
