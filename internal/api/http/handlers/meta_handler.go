package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-admin/internal/store"
)

// MetaHandler serves reference data for ticket forms.
type MetaHandler struct {
	store *store.Store
}

// NewMetaHandler constructs handler.
func NewMetaHandler(s *store.Store) *MetaHandler {
	return &MetaHandler{store: s}
}

// Options handles GET /meta.
func (h *MetaHandler) Options(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"company_sections": h.store.CompanySections(),
			"sources":          h.store.Sources(),
		},
	})
}
