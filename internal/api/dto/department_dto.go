package dto

import "github.com/spec-kit/helpdesk-admin/internal/domain"

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateDepartmentRequest payload; omitted fields stay unchanged.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// DepartmentResponse includes the derived member count.
type DepartmentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UserCount   int    `json:"user_count"`
}

// NewDepartmentResponse maps a domain department.
func NewDepartmentResponse(d domain.Department, userCount int) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		UserCount:   userCount,
	}
}
