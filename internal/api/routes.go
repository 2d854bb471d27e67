/**
 * @description
 * API Route definitions.
 * Sets up the router groups and assigns handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/PandaBuilds/stock-league/internal/api/handlers
 * - github.com/PandaBuilds/stock-league/internal/api/middleware
 * - github.com/PandaBuilds/stock-league/internal/services
 * - github.com/PandaBuilds/stock-league/internal/finnhub
 */

package api

import (
	"log"

	"github.com/PandaBuilds/stock-league/internal/api/handlers"
	"github.com/PandaBuilds/stock-league/internal/api/middleware"
	"github.com/PandaBuilds/stock-league/internal/config"
	"github.com/PandaBuilds/stock-league/internal/finnhub"
	"github.com/PandaBuilds/stock-league/internal/services"
	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes on top of the injected store.
func SetupRoutes(app *fiber.App, st store.Store, rdb *redis.Client, cfg *config.Config) {
	// 1. Initialize Middleware
	if err := middleware.InitAuthMiddleware(cfg); err != nil {
		log.Printf("Failed to init auth middleware: %v", err)
		// We don't panic here to allow app to start in dev modes without valid keys,
		// but protected routes will fail.
	}

	// 2. Initialize Services
	finnhubClient := finnhub.NewClient(cfg)
	leagueService := services.NewLeagueService(st)
	draftService := services.NewDraftService(st)
	valuationService := services.NewValuationService(st, rdb, finnhubClient)
	leaderboardService := services.NewLeaderboardService(st)
	portfolioService := services.NewPortfolioService(st)
	newsService := services.NewNewsService(st, rdb, finnhubClient)
	profileService := services.NewProfileService(st)

	// 3. Initialize Handlers
	leagueHandler := handlers.NewLeagueHandler(leagueService, leaderboardService, valuationService)
	draftHandler := handlers.NewDraftHandler(draftService)
	stockHandler := handlers.NewStockHandler(finnhubClient, rdb)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	newsHandler := handlers.NewNewsHandler(newsService)
	profileHandler := handlers.NewProfileHandler(profileService)

	// 4. Define Routes
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Public Routes
	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Stock Routes (Public)
	stocks := v1.Group("/stocks")
	stocks.Get("/search", stockHandler.Search)
	stocks.Get("/quote", stockHandler.GetQuote)
	stocks.Get("/stream", stockHandler.StreamPriceUpdates)

	// News Routes (general feed is public, portfolio feed is not)
	v1.Get("/news", newsHandler.GetGeneral)
	v1.Get("/news/portfolio", middleware.Protected(), newsHandler.GetPortfolio)

	// League Routes (Protected)
	leagues := v1.Group("/leagues", middleware.Protected())
	leagues.Post("/", leagueHandler.Create)
	leagues.Post("/join", leagueHandler.Join)
	leagues.Get("/", leagueHandler.List)
	leagues.Get("/:id", leagueHandler.Get)
	leagues.Delete("/:id", leagueHandler.Delete)
	leagues.Patch("/:id/lock", leagueHandler.SetLocked)
	leagues.Patch("/:id/anonymous", leagueHandler.SetAnonymous)
	leagues.Get("/:id/leaderboard", leagueHandler.GetLeaderboard)
	leagues.Post("/:id/refresh", leagueHandler.Refresh)
	leagues.Get("/:id/draft", draftHandler.GetDraft)
	leagues.Put("/:id/draft", draftHandler.SaveDraft)
	leagues.Get("/:id/portfolio", portfolioHandler.GetSummary)
	leagues.Get("/:id/members/:memberID/portfolio", portfolioHandler.GetMemberHoldings)

	// Portfolio Routes (Protected)
	portfolio := v1.Group("/portfolio", middleware.Protected())
	portfolio.Get("/history", portfolioHandler.GetHistory)

	// Profile Routes (Protected)
	profile := v1.Group("/profile", middleware.Protected())
	profile.Get("/", profileHandler.GetMe)
	profile.Put("/", profileHandler.UpdateMe)
}
