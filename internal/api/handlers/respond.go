/**
 * @description
 * Shared error-to-HTTP mapping for API handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/PandaBuilds/stock-league/internal/apperr
 *
 * @notes
 * - Services return domain errors; handlers only translate them. Unknown
 *   errors become a 500 with a generic message so internals never leak.
 */

package handlers

import (
	"errors"

	"github.com/PandaBuilds/stock-league/internal/apperr"
	"github.com/PandaBuilds/stock-league/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errorJSON maps a domain error to its HTTP status and JSON body.
func errorJSON(c *fiber.Ctx, err error) error {
	switch {
	case apperr.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidCode):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid join code"})
	case errors.Is(err, apperr.ErrLeagueLocked):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "League is locked"})
	case errors.Is(err, apperr.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed"})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, apperr.ErrCodeTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Join code already in use"})
	case apperr.IsPriceUnavailable(err):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrExternalService):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Market data provider unavailable"})
	default:
		logger.Error("Unhandled error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

// requireUser pulls the authenticated user id set by the auth middleware.
func requireUser(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals("user_id").(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// uuidParam parses a route parameter as a UUID.
func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validationf("invalid %s", name)
	}
	return id, nil
}
