package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-admin/internal/api/dto"
	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
	"github.com/spec-kit/helpdesk-admin/internal/store"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// TicketsHandler exposes ticket endpoints.
type TicketsHandler struct {
	store *store.Store
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(s *store.Store) *TicketsHandler {
	return &TicketsHandler{store: s}
}

// List handles GET /tickets. Non-admins see only their own department.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	filter := store.TicketFilter{
		DepartmentID:   c.Query("department_id"),
		AssignedUserID: c.Query("assigned_user_id"),
		Search:         c.Query("q"),
	}
	for _, raw := range splitQueryList(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(raw))
	}
	for _, raw := range splitQueryList(c.Query("level")) {
		filter.Levels = append(filter.Levels, domain.TicketLevel(raw))
	}
	if scope, restricted := departmentScope(principal); restricted {
		filter.DepartmentID = scope
	}

	tickets := h.store.ListTickets(filter)
	result := make([]dto.TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		result = append(result, dto.NewTicketResponse(ticket, h.departmentName(ticket.DepartmentID)))
	}
	return c.JSON(fiber.Map{"data": result})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	ticket, err := h.store.GetTicket(c.Params("id"))
	if err != nil {
		return err
	}
	if scope, restricted := departmentScope(principal); restricted && ticket.DepartmentID != scope {
		return apperrors.NewForbidden("ticket outside your department")
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket, h.departmentName(ticket.DepartmentID))})
}

// Create handles POST /tickets. Non-admins may only file into their own
// department; an omitted department defaults to it.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if scope, restricted := departmentScope(principal); restricted {
		if req.DepartmentID == "" {
			req.DepartmentID = scope
		} else if req.DepartmentID != scope {
			return apperrors.NewForbidden("cannot file tickets into another department")
		}
	}

	input := store.TicketCreateInput{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		CompanySection: req.CompanySection,
		Source:         req.Source,
		Subject:        req.Subject,
		Message:        req.Message,
		Recommendation: req.Recommendation,
		Level:          req.Level,
		Status:         req.Status,
		DepartmentID:   req.DepartmentID,
		AssignedUserID: req.AssignedUserID,
		AutoEmail:      req.AutoEmail,
	}
	if req.DateFiled != nil {
		input.DateFiled = *req.DateFiled
	}

	ticket, err := h.store.CreateTicket(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewTicketResponse(*ticket, h.departmentName(ticket.DepartmentID)),
	})
}

// Update handles PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	ticket, err := h.store.GetTicket(c.Params("id"))
	if err != nil {
		return err
	}
	if !canManageDepartment(principal, ticket.DepartmentID) {
		return apperrors.NewForbidden("cannot modify tickets outside your department")
	}

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.store.UpdateTicket(c.Context(), ticket.ID, store.TicketUpdate{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		CompanySection: req.CompanySection,
		Source:         req.Source,
		Subject:        req.Subject,
		Message:        req.Message,
		Recommendation: req.Recommendation,
		Level:          req.Level,
		Status:         req.Status,
		DepartmentID:   req.DepartmentID,
		AssignedUserID: req.AssignedUserID,
		AutoEmail:      req.AutoEmail,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*updated, h.departmentName(updated.DepartmentID))})
}

// Delete handles DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	ticket, err := h.store.GetTicket(c.Params("id"))
	if err != nil {
		return err
	}
	if !canManageDepartment(principal, ticket.DepartmentID) {
		return apperrors.NewForbidden("cannot delete tickets outside your department")
	}
	if err := h.store.DeleteTicket(c.Context(), ticket.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddLogEntry handles POST /tickets/:id/log, used by resolve/unresolve flows
// to record richer audit text than the generic update entry.
func (h *TicketsHandler) AddLogEntry(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	ticket, err := h.store.GetTicket(c.Params("id"))
	if err != nil {
		return err
	}
	if !canManageDepartment(principal, ticket.DepartmentID) {
		return apperrors.NewForbidden("cannot modify tickets outside your department")
	}

	var req dto.AddLogEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	actor := req.Actor
	if actor == "" && principal != nil && principal.User != nil {
		actor = principal.User.Name
	}

	entry, err := h.store.AddLogEntry(c.Context(), ticket.ID, store.LogEntryInput{
		Action:  req.Action,
		Actor:   actor,
		Details: req.Details,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.LogEntryResponse{
		ID:        entry.ID,
		Action:    entry.Action,
		Actor:     entry.Actor,
		Timestamp: entry.Timestamp,
		Details:   entry.Details,
	}})
}

func (h *TicketsHandler) departmentName(id string) string {
	dept, err := h.store.GetDepartment(id)
	if err != nil {
		return ""
	}
	return dept.Name
}

func splitQueryList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
