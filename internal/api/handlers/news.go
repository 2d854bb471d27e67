/**
 * @description
 * News API handlers: general market headlines and the per-user feed covering
 * every symbol the caller holds.
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

type NewsHandler struct {
	Service *services.NewsService
}

func NewNewsHandler(service *services.NewsService) *NewsHandler {
	return &NewsHandler{Service: service}
}

// GetGeneral returns cached general market headlines
// GET /api/v1/news
func (h *NewsHandler) GetGeneral(c *fiber.Ctx) error {
	items, err := h.Service.GeneralNews(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(items)
}

// GetPortfolio returns company news for the caller's held symbols
// GET /api/v1/news/portfolio
func (h *NewsHandler) GetPortfolio(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	items, err := h.Service.PortfolioNews(c.Context(), userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(items)
}
