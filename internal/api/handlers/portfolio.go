/**
 * @description
 * Portfolio API handlers: own summary, another member's picks and the dated
 * value history for dashboard charts.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/PandaBuilds/stock-league/internal/services
 */

package handlers

import (
	"github.com/PandaBuilds/stock-league/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PortfolioHandler struct {
	Service *services.PortfolioService
}

func NewPortfolioHandler(service *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{Service: service}
}

// GetSummary returns the caller's own portfolio in a league
// GET /api/v1/leagues/:id/portfolio
func (h *PortfolioHandler) GetSummary(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	leagueID, err := uuidParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	view, err := h.Service.Summary(c.Context(), userID, leagueID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(view)
}

// GetMemberHoldings returns another member's picks, respecting anonymous mode
// GET /api/v1/leagues/:id/members/:memberID/portfolio
func (h *PortfolioHandler) GetMemberHoldings(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	leagueID, err := uuidParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	memberID, err := uuidParam(c, "memberID")
	if err != nil {
		return errorJSON(c, err)
	}

	view, err := h.Service.MemberHoldings(c.Context(), userID, leagueID, memberID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(view)
}

// GetHistory returns the caller's dated portfolio values for one league
// GET /api/v1/portfolio/history?league_id=
func (h *PortfolioHandler) GetHistory(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	leagueID, err := uuid.Parse(c.Query("league_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or invalid league_id"})
	}

	history, err := h.Service.History(c.Context(), userID, leagueID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(history)
}
