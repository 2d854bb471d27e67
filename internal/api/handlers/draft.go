/**
 * @description
 * Draft API handlers: read and save a member's percentage-allocation draft.
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

type DraftHandler struct {
	Service *services.DraftService
}

func NewDraftHandler(service *services.DraftService) *DraftHandler {
	return &DraftHandler{Service: service}
}

type saveDraftRequest struct {
	Lines []services.DraftLine `json:"lines"`
}

// GetDraft returns the caller's current draft reconstructed from holdings
// GET /api/v1/leagues/:id/draft
func (h *DraftHandler) GetDraft(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	leagueID, err := uuidParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	view, err := h.Service.GetDraft(c.Context(), userID, leagueID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(view)
}

// SaveDraft validates and persists the caller's allocations
// PUT /api/v1/leagues/:id/draft
func (h *DraftHandler) SaveDraft(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	leagueID, err := uuidParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	var req saveDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.Service.SaveDraft(c.Context(), userID, leagueID, req.Lines)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(result)
}
