package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PandaBuilds/stock-league/internal/services"
	"github.com/PandaBuilds/stock-league/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp mounts the league routes behind a stub auth layer that injects a
// fixed user id, so handler tests exercise the real error mapping without JWTs.
func testApp(st store.Store, userID string) *fiber.App {
	leagues := services.NewLeagueService(st)
	leaderboard := services.NewLeaderboardService(st)
	valuation := services.NewValuationService(st, nil, nil)
	handler := NewLeagueHandler(leagues, leaderboard, valuation)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})

	group := app.Group("/api/v1/leagues")
	group.Post("/", handler.Create)
	group.Post("/join", handler.Join)
	group.Get("/", handler.List)
	group.Get("/:id", handler.Get)
	group.Delete("/:id", handler.Delete)
	group.Patch("/:id/lock", handler.SetLocked)
	group.Get("/:id/leaderboard", handler.GetLeaderboard)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreateLeagueEndpoint(t *testing.T) {
	app := testApp(store.NewMemoryStore(), "user_1")

	resp := postJSON(t, app, "/api/v1/leagues", fiber.Map{
		"name": "Degens", "budget": 100000, "join_code": "4242",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreateLeagueErrorMapping(t *testing.T) {
	st := store.NewMemoryStore()
	app := testApp(st, "user_1")

	// Malformed code -> 400
	resp := postJSON(t, app, "/api/v1/leagues", fiber.Map{
		"name": "Degens", "budget": 100000, "join_code": "12ab",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing name -> 400
	resp = postJSON(t, app, "/api/v1/leagues", fiber.Map{
		"budget": 100000, "join_code": "4242",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Duplicate code -> 409
	resp = postJSON(t, app, "/api/v1/leagues", fiber.Map{
		"name": "First", "budget": 100000, "join_code": "4242",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/v1/leagues", fiber.Map{
		"name": "Second", "budget": 100000, "join_code": "4242",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestJoinEndpointInvalidCode(t *testing.T) {
	app := testApp(store.NewMemoryStore(), "user_1")

	resp := postJSON(t, app, "/api/v1/leagues/join", fiber.Map{"join_code": "9999"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetLeagueNotFoundAndBadID(t *testing.T) {
	app := testApp(store.NewMemoryStore(), "user_1")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leagues/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/leagues/0e8cb0a6-7057-4e20-bb48-63b0d04f7aaf", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteLeagueForbidden(t *testing.T) {
	st := store.NewMemoryStore()
	ownerApp := testApp(st, "owner")
	strangerApp := testApp(st, "user_2")

	resp := postJSON(t, ownerApp, "/api/v1/leagues", fiber.Map{
		"name": "Degens", "budget": 100000, "join_code": "4242",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var league struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&league))

	resp2 := postJSON(t, strangerApp, "/api/v1/leagues/join", fiber.Map{"join_code": "4242"})
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/leagues/"+league.ID, nil)
	resp3, err := strangerApp.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp3.StatusCode)
}

func TestLeaderboardEndpoint(t *testing.T) {
	st := store.NewMemoryStore()
	app := testApp(st, "user_1")

	resp := postJSON(t, app, "/api/v1/leagues", fiber.Map{
		"name": "Degens", "budget": 100000, "join_code": "4242",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var league struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&league))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leagues/"+league.ID+"/leaderboard", nil)
	resp2, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var entries []services.Entry
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Rank)
	assert.True(t, entries[0].IsViewer)
}
