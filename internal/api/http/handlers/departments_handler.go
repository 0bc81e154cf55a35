package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-admin/internal/api/dto"
	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/store"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// DepartmentsHandler exposes department management endpoints.
type DepartmentsHandler struct {
	store *store.Store
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(s *store.Store) *DepartmentsHandler {
	return &DepartmentsHandler{store: s}
}

// List handles GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	departments := h.store.Departments()
	result := make([]dto.DepartmentResponse, 0, len(departments))
	for _, dept := range departments {
		result = append(result, dto.NewDepartmentResponse(dept, len(h.store.DepartmentMembers(dept.ID))))
	}
	return c.JSON(fiber.Map{"data": result})
}

// Create handles POST /departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	dept, err := h.store.CreateDepartment(c.Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(*dept, 0)})
}

// Update handles PATCH /departments/:id.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	dept, err := h.store.UpdateDepartment(c.Context(), c.Params("id"), store.DepartmentUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(*dept, len(h.store.DepartmentMembers(dept.ID)))})
}

// Delete handles DELETE /departments/:id. Rejected with CONFLICT while any
// user or ticket references the department.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.store.DeleteDepartment(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Members handles GET /departments/:id/users. Sub-admins may only list
// their own department.
func (h *DepartmentsHandler) Members(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	id := c.Params("id")
	if _, err := h.store.GetDepartment(id); err != nil {
		return err
	}
	if scope, restricted := departmentScope(principal); restricted && id != scope {
		return apperrors.NewForbidden("cannot list users outside your department")
	}

	members := h.store.DepartmentMembers(id)
	result := make([]dto.UserResponse, 0, len(members))
	for _, member := range members {
		result = append(result, dto.NewUserResponse(member))
	}
	return c.JSON(fiber.Map{"data": result})
}
