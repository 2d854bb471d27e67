/**
 * @description
 * League API handlers: lifecycle (create, join, list, get, delete), owner
 * toggles (lock, anonymous), leaderboard and the on-demand price refresh.
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

type LeagueHandler struct {
	Leagues     *services.LeagueService
	Leaderboard *services.LeaderboardService
	Valuation   *services.ValuationService
}

func NewLeagueHandler(leagues *services.LeagueService, leaderboard *services.LeaderboardService, valuation *services.ValuationService) *LeagueHandler {
	return &LeagueHandler{Leagues: leagues, Leaderboard: leaderboard, Valuation: valuation}
}

type createLeagueRequest struct {
	Name           string  `json:"name"`
	Budget         float64 `json:"budget"`
	JoinCode       string  `json:"join_code"`
	DurationMonths int     `json:"duration_months"`
}

// Create creates a league with the caller as owner
// POST /api/v1/leagues
func (h *LeagueHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req createLeagueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	league, err := h.Leagues.Create(c.Context(), userID, services.CreateLeagueParams{
		Name:           req.Name,
		Budget:         req.Budget,
		JoinCode:       req.JoinCode,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(league)
}

type joinLeagueRequest struct {
	JoinCode string `json:"join_code"`
}

// Join adds the caller to a league by its 4-digit code
// POST /api/v1/leagues/join
func (h *LeagueHandler) Join(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req joinLeagueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	member, err := h.Leagues.Join(c.Context(), userID, req.JoinCode)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(member)
}

// List returns every league the caller belongs to
// GET /api/v1/leagues
func (h *LeagueHandler) List(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	leagues, err := h.Leagues.ListForUser(c.Context(), userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(leagues)
}

// Get returns one league with the caller's role
// GET /api/v1/leagues/:id
func (h *LeagueHandler) Get(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	leagueID, err := uuidParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	view, err := h.Leagues.Get(c.Context(), userID, leagueID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(view)
}

// Delete removes a league and everything under it. Owner only.
// DELETE /api/v1/leagues/:id
func (h *LeagueHandler) Delete(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	leagueID, err := uuidParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	if err := h.Leagues.Delete(c.Context(), userID, leagueID); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

type toggleRequest struct {
	Enabled bool `json:"enabled"`
}

// SetLocked toggles the draft lock. Owner only.
// PATCH /api/v1/leagues/:id/lock
func (h *LeagueHandler) SetLocked(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	leagueID, err := uuidParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Leagues.SetLocked(c.Context(), userID, leagueID, req.Enabled); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"is_locked": req.Enabled})
}

// SetAnonymous toggles leaderboard masking. Owner only.
// PATCH /api/v1/leagues/:id/anonymous
func (h *LeagueHandler) SetAnonymous(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	leagueID, err := uuidParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Leagues.SetAnonymous(c.Context(), userID, leagueID, req.Enabled); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"anonymous_mode": req.Enabled})
}

// GetLeaderboard returns members ranked by total value
// GET /api/v1/leagues/:id/leaderboard
func (h *LeagueHandler) GetLeaderboard(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	leagueID, err := uuidParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	entries, err := h.Leaderboard.Build(c.Context(), leagueID, userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(entries)
}

// Refresh re-fetches quotes for the league's symbols and revalues portfolios
// POST /api/v1/leagues/:id/refresh
func (h *LeagueHandler) Refresh(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	leagueID, err := uuidParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}

	result, err := h.Valuation.RefreshLeague(c.Context(), userID, leagueID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(result)
}
