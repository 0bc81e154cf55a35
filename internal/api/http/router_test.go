package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-admin/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/observability"
	"github.com/spec-kit/helpdesk-admin/internal/persistence"
	"github.com/spec-kit/helpdesk-admin/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, *store.Store, *auth.TokenManager) {
	t.Helper()

	snapshots := persistence.NewFileSnapshotStore(filepath.Join(t.TempDir(), "state.json"))
	s, err := store.New(context.Background(), store.Dependencies{
		Snapshots:  snapshots,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	tokens := auth.NewTokenManager("test-secret", 60)
	metrics := observability.NewMetrics()

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", snapshots),
		Auth:           handlers.NewAuthHandler(s, tokens),
		Tickets:        handlers.NewTicketsHandler(s),
		Departments:    handlers.NewDepartmentsHandler(s),
		Users:          handlers.NewUsersHandler(s),
		Meta:           handlers.NewMetaHandler(s),
		Admin:          handlers.NewAdminHandler(s, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, s),
	})
	return app, s, tokens
}

// bearerFor issues a token for a seeded user id.
func bearerFor(t *testing.T, tokens *auth.TokenManager, s *store.Store, id string) string {
	t.Helper()
	user, err := s.GetUser(id)
	require.NoError(t, err)
	token, _, err := tokens.GenerateToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(method, target, bearer string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	return req
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/tickets", "", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutes_SubAdminBlockedFromOtherDepartmentTicket(t *testing.T) {
	app, s, tokens := newTestApp(t)
	bearer := bearerFor(t, tokens, s, "2") // sub-admin of department "1"

	// seeded ticket "2" belongs to department "2"
	resp, err := app.Test(jsonRequest(http.MethodPatch, "/tickets/2", bearer,
		fiber.Map{"subject": "hijacked"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ticket, err := s.GetTicket("2")
	require.NoError(t, err)
	assert.Equal(t, "Billing Question", ticket.Subject)
}

func TestRoutes_SubAdminUpdatesOwnDepartmentTicket(t *testing.T) {
	app, s, tokens := newTestApp(t)
	bearer := bearerFor(t, tokens, s, "2")

	_, err := s.SetUser(context.Background(), "2")
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(http.MethodPatch, "/tickets/1", bearer,
		fiber.Map{"subject": "Login Issues (triaged)"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ticket, err := s.GetTicket("1")
	require.NoError(t, err)
	assert.Equal(t, "Login Issues (triaged)", ticket.Subject)
}

func TestRoutes_MemberCannotUpdateTicket(t *testing.T) {
	app, s, tokens := newTestApp(t)
	bearer := bearerFor(t, tokens, s, "3") // member of department "1"

	resp, err := app.Test(jsonRequest(http.MethodPatch, "/tickets/1", bearer,
		fiber.Map{"subject": "member edit"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ticket, err := s.GetTicket("1")
	require.NoError(t, err)
	assert.Equal(t, "Login Issues", ticket.Subject)
}

func TestRoutes_SubAdminCannotCreateAdminAccount(t *testing.T) {
	app, s, tokens := newTestApp(t)
	bearer := bearerFor(t, tokens, s, "2")

	before := len(s.Users())
	resp, err := app.Test(jsonRequest(http.MethodPost, "/users", bearer, fiber.Map{
		"name":     "Backdoor",
		"email":    "backdoor@company.com",
		"password": "p",
		"role":     "admin",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, s.Users(), before)
}

func TestRoutes_SubAdminCannotMoveUserBetweenDepartments(t *testing.T) {
	app, s, tokens := newTestApp(t)
	bearer := bearerFor(t, tokens, s, "2")

	// "3" is a member of the sub-admin's own department "1"
	resp, err := app.Test(jsonRequest(http.MethodPatch, "/users/3", bearer,
		fiber.Map{"department_id": "2"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	user, err := s.GetUser("3")
	require.NoError(t, err)
	assert.Equal(t, "1", user.DepartmentID)
}

func TestRoutes_MemberCannotListUsers(t *testing.T) {
	app, s, tokens := newTestApp(t)
	bearer := bearerFor(t, tokens, s, "3")

	resp, err := app.Test(jsonRequest(http.MethodGet, "/users", bearer, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRoutes_TicketListScopedToSubAdminDepartment(t *testing.T) {
	app, s, tokens := newTestApp(t)
	bearer := bearerFor(t, tokens, s, "2")

	resp, err := app.Test(jsonRequest(http.MethodGet, "/tickets", bearer, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload struct {
		Data []struct {
			ID           string `json:"id"`
			DepartmentID string `json:"department_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "1", payload.Data[0].DepartmentID)
}
