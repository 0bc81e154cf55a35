package handlers

import (
	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// departmentScope returns the department a non-admin principal is confined
// to. Admins are unrestricted.
func departmentScope(principal *auth.Principal) (string, bool) {
	if principal == nil || principal.User == nil || principal.User.Role == domain.RoleAdmin {
		return "", false
	}
	return principal.User.DepartmentID, true
}

// canManageDepartment reports whether the principal may mutate records in
// the given department. Sub-admins manage exactly their own department.
func canManageDepartment(principal *auth.Principal, departmentID string) bool {
	if principal == nil || principal.User == nil {
		return false
	}
	switch principal.User.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleSubAdmin:
		return principal.User.DepartmentID != "" && principal.User.DepartmentID == departmentID
	default:
		return false
	}
}
