package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-admin/internal/api/dto"
	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
	"github.com/spec-kit/helpdesk-admin/internal/store"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// UsersHandler exposes account management endpoints. Admins manage all
// accounts; sub-admins manage member accounts inside their own department.
type UsersHandler struct {
	store *store.Store
}

// NewUsersHandler constructs handler.
func NewUsersHandler(s *store.Store) *UsersHandler {
	return &UsersHandler{store: s}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	users := h.store.Users()
	scope, restricted := departmentScope(principal)
	result := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		if restricted && (user.DepartmentID != scope || user.Role != domain.RoleUser) {
			continue
		}
		result = append(result, dto.NewUserResponse(user))
	}
	return c.JSON(fiber.Map{"data": result})
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if scope, restricted := departmentScope(principal); restricted {
		if req.Role != domain.RoleUser {
			return apperrors.NewForbidden("sub-admins may only create member accounts")
		}
		if req.DepartmentID == "" {
			req.DepartmentID = scope
		} else if req.DepartmentID != scope {
			return apperrors.NewForbidden("cannot create users outside your department")
		}
	}

	user, err := h.store.CreateUser(c.Context(), store.UserCreateInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

// Update handles PATCH /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	target, err := h.store.GetUser(c.Params("id"))
	if err != nil {
		return err
	}
	if err := h.checkManage(principal, target); err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if _, restricted := departmentScope(principal); restricted {
		if req.Role != nil && *req.Role != domain.RoleUser {
			return apperrors.NewForbidden("sub-admins cannot change roles")
		}
		if req.DepartmentID != nil && *req.DepartmentID != target.DepartmentID {
			return apperrors.NewForbidden("sub-admins cannot move users between departments")
		}
	}

	user, err := h.store.UpdateUser(c.Context(), target.ID, store.UserUpdate{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	target, err := h.store.GetUser(c.Params("id"))
	if err != nil {
		return err
	}
	if err := h.checkManage(principal, target); err != nil {
		return err
	}

	if err := h.store.DeleteUser(c.Context(), target.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AssignDepartment handles PUT /users/:id/department.
func (h *UsersHandler) AssignDepartment(c *fiber.Ctx) error {
	var req dto.AssignDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.store.AssignUserToDepartment(c.Context(), c.Params("id"), req.DepartmentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(*user)})
}

func (h *UsersHandler) checkManage(principal *auth.Principal, target *domain.User) error {
	scope, restricted := departmentScope(principal)
	if !restricted {
		return nil
	}
	if target.Role != domain.RoleUser || target.DepartmentID != scope {
		return apperrors.NewForbidden("cannot manage this account")
	}
	return nil
}
