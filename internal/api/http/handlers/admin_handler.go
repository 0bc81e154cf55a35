package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-admin/internal/observability"
	"github.com/spec-kit/helpdesk-admin/internal/store"
)

// AdminHandler exposes admin-only maintenance endpoints.
type AdminHandler struct {
	store   *store.Store
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(s *store.Store, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{store: s, metrics: metrics}
}

// Reset handles POST /admin/reset: discards persisted state and session,
// restoring the seed records.
func (h *AdminHandler) Reset(c *fiber.Ctx) error {
	if err := h.store.Reset(c.Context()); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Metrics handles GET /admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"requests": h.metrics.RequestTotals()}})
}
