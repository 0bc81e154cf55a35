package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// DepartmentUpdate carries partial department fields.
type DepartmentUpdate struct {
	Name        *string
	Description *string
}

// CreateDepartment appends a department with a synthesized id. Names must be
// unique; the source only enforced this at some call sites.
func (s *Store) CreateDepartment(ctx context.Context, name, description string) (*domain.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if s.departmentNameTaken(name, "") {
		return nil, apperrors.NewConflict("department name already exists", map[string]any{"name": name})
	}

	dept := domain.Department{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	s.departments = append(s.departments, dept)
	s.persist(ctx)
	s.logger.Info("department created", zap.String("department_id", dept.ID), zap.String("name", dept.Name))

	copied := dept
	return &copied, nil
}

// UpdateDepartment merges partial fields into the department.
func (s *Store) UpdateDepartment(ctx context.Context, id string, upd DepartmentUpdate) (*domain.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.departmentIndex(id)
	if idx < 0 {
		return nil, apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	dept := &s.departments[idx]

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name required", nil)
		}
		if s.departmentNameTaken(name, id) {
			return nil, apperrors.NewConflict("department name already exists", map[string]any{"name": name})
		}
		dept.Name = name
	}
	if upd.Description != nil {
		dept.Description = *upd.Description
	}

	s.persist(ctx)
	s.logger.Info("department updated", zap.String("department_id", id))
	copied := *dept
	return &copied, nil
}

// DeleteDepartment removes the department. Deletion is rejected while any
// user or ticket still references it, so id references never dangle.
func (s *Store) DeleteDepartment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.departmentIndex(id)
	if idx < 0 {
		return apperrors.NewNotFound("department", map[string]any{"id": id})
	}

	userRefs, ticketRefs := 0, 0
	for i := range s.users {
		if s.users[i].DepartmentID == id {
			userRefs++
		}
	}
	for i := range s.tickets {
		if s.tickets[i].DepartmentID == id {
			ticketRefs++
		}
	}
	if userRefs > 0 || ticketRefs > 0 {
		return apperrors.NewConflict("department still referenced", map[string]any{
			"users":   userRefs,
			"tickets": ticketRefs,
		})
	}

	s.departments = append(s.departments[:idx], s.departments[idx+1:]...)
	s.persist(ctx)
	s.logger.Info("department deleted", zap.String("department_id", id))
	return nil
}

// GetDepartment fetches a department by id.
func (s *Store) GetDepartment(id string) (*domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.departmentIndex(id)
	if idx < 0 {
		return nil, apperrors.NewNotFound("department", map[string]any{"id": id})
	}
	copied := s.departments[idx]
	return &copied, nil
}

// Departments returns all departments.
func (s *Store) Departments() []domain.Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Department{}, s.departments...)
}

// DepartmentMembers returns the users attached to the department, derived by
// filtering rather than stored membership.
func (s *Store) DepartmentMembers(id string) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.User
	for i := range s.users {
		if s.users[i].DepartmentID == id {
			result = append(result, s.users[i])
		}
	}
	return result
}

func (s *Store) departmentIndex(id string) int {
	for i := range s.departments {
		if s.departments[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) departmentNameTaken(name, excludeID string) bool {
	for i := range s.departments {
		if s.departments[i].ID == excludeID {
			continue
		}
		if strings.EqualFold(s.departments[i].Name, name) {
			return true
		}
	}
	return false
}
