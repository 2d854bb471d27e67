/**
 * @description
 * Stock API handlers: symbol search, single-quote lookup and the SSE stream of
 * refreshed prices.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/PandaBuilds/stock-league/internal/finnhub
 * - github.com/redis/go-redis/v9: pub/sub source for the SSE stream
 */

package handlers

import (
	"bufio"
	"context"
	"fmt"

	"github.com/PandaBuilds/stock-league/internal/finnhub"
	"github.com/PandaBuilds/stock-league/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type StockHandler struct {
	Finnhub *finnhub.Client
	Redis   *redis.Client
}

func NewStockHandler(client *finnhub.Client, rdb *redis.Client) *StockHandler {
	return &StockHandler{Finnhub: client, Redis: rdb}
}

// Search proxies symbol search to the market data provider
// GET /api/v1/stocks/search?q=
func (h *StockHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing query parameter q"})
	}

	result, err := h.Finnhub.Search(c.Context(), query)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(result)
}

// GetQuote returns the latest quote for one symbol
// GET /api/v1/stocks/quote?symbol=
func (h *StockHandler) GetQuote(c *fiber.Ctx) error {
	symbol := c.Query("symbol")
	if symbol == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing query parameter symbol"})
	}

	quote, err := h.Finnhub.GetQuote(c.Context(), symbol)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(quote)
}

// StreamPriceUpdates streams refreshed prices over SSE
// GET /api/v1/stocks/stream
func (h *StockHandler) StreamPriceUpdates(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	requestCtx := c.Context()

	ctx, cancel := context.WithCancel(context.Background())

	pubsub := h.Redis.Subscribe(ctx, services.PriceUpdateChannel)
	ch := pubsub.Channel()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cancel()
			_ = pubsub.Close()
		}()

		requestDone := requestCtx.Done()

		for {
			select {
			case <-requestDone:
				return
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fmt.Fprintf(w, "data: %s\n\n", msg.Payload)
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}
