package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Role         domain.Role `json:"role"`
	DepartmentID string      `json:"department_id"`
}

// UpdateUserRequest payload; omitted fields stay unchanged.
type UpdateUserRequest struct {
	Name         *string      `json:"name"`
	Email        *string      `json:"email"`
	Password     *string      `json:"password"`
	Role         *domain.Role `json:"role"`
	DepartmentID *string      `json:"department_id"`
}

// AssignDepartmentRequest payload.
type AssignDepartmentRequest struct {
	DepartmentID string `json:"department_id"`
}

// UserResponse never exposes the password hash.
type UserResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	DepartmentID string      `json:"department_id,omitempty"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
	}
}
