package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-admin/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	snapshots   persistence.SnapshotStore
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, snapshots persistence.SnapshotStore) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, snapshots: snapshots}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness by probing the snapshot slot. An empty slot is
// fine; only a driver failure marks the service unready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := h.snapshots.Load(ctx); err != nil && !errors.Is(err, persistence.ErrNoSnapshot) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "snapshot store unavailable",
				"details": fiber.Map{"snapshot": err.Error()},
			},
		})
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": fiber.Map{"snapshot": "ok"},
	})
}
