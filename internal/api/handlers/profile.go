/**
 * @description
 * Profile API handlers: read and update the caller's display identity.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/PandaBuilds/stock-league/internal/services
 */

package handlers

import (
	"github.com/PandaBuilds/stock-league/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	Service *services.ProfileService
}

func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{Service: service}
}

// GetMe returns the caller's profile
// GET /api/v1/profile
func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	profile, err := h.Service.Get(c.Context(), userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(profile)
}

type updateProfileRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateMe updates the caller's username and avatar
// PUT /api/v1/profile
func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.Service.Update(c.Context(), userID, req.Username, req.AvatarURL)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(profile)
}
