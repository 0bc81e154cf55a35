package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// UserCreateInput describes account creation payload. Password arrives in
// plaintext and is stored only as a bcrypt hash.
type UserCreateInput struct {
	Name         string
	Email        string
	Password     string
	Role         domain.Role
	DepartmentID string
}

// UserUpdate carries partial user fields; nil means leave unchanged.
type UserUpdate struct {
	Name         *string
	Email        *string
	Password     *string
	Role         *domain.Role
	DepartmentID *string
}

// CreateUser appends an account with a synthesized id. Email uniqueness and
// the one-sub-admin-per-department invariant are enforced here rather than
// at call sites.
func (s *Store) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email, password required", nil)
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if s.emailTaken(input.Email, "") {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	}
	if input.DepartmentID != "" && s.departmentIndex(input.DepartmentID) < 0 {
		return nil, apperrors.NewNotFound("department", map[string]any{"id": input.DepartmentID})
	}
	if input.Role == domain.RoleSubAdmin && input.DepartmentID != "" && s.departmentHasSubAdmin(input.DepartmentID, "") {
		return nil, apperrors.NewConflict("department already has a sub-admin", map[string]any{"department_id": input.DepartmentID})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		DepartmentID: input.DepartmentID,
	}
	s.users = append(s.users, user)
	s.persist(ctx)
	s.logger.Info("user created",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))

	copied := user
	return &copied, nil
}

// UpdateUser merges partial fields into the user.
func (s *Store) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.userIndex(id)
	if idx < 0 {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	user := &s.users[idx]

	// Validate every field before touching the record so a rejected update
	// leaves nothing behind.
	email := user.Email
	if upd.Email != nil {
		email = strings.TrimSpace(*upd.Email)
		if email == "" {
			return nil, apperrors.NewValidationError("email required", nil)
		}
		if s.emailTaken(email, id) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
	}
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *upd.Role})
	}
	if upd.DepartmentID != nil && *upd.DepartmentID != "" && s.departmentIndex(*upd.DepartmentID) < 0 {
		return nil, apperrors.NewNotFound("department", map[string]any{"id": *upd.DepartmentID})
	}

	role := user.Role
	if upd.Role != nil {
		role = *upd.Role
	}
	deptID := user.DepartmentID
	if upd.DepartmentID != nil {
		deptID = *upd.DepartmentID
	}
	if role == domain.RoleSubAdmin && deptID != "" && s.departmentHasSubAdmin(deptID, id) {
		return nil, apperrors.NewConflict("department already has a sub-admin", map[string]any{"department_id": deptID})
	}

	passwordHash := user.PasswordHash
	if upd.Password != nil {
		if *upd.Password == "" {
			return nil, apperrors.NewValidationError("password required", nil)
		}
		hash, err := auth.HashPassword(*upd.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		passwordHash = hash
	}

	user.Email = email
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	user.Role = role
	user.DepartmentID = deptID
	user.PasswordHash = passwordHash

	if s.session != nil && s.session.ID == id {
		refreshed := *user
		s.session = &refreshed
	}

	s.persist(ctx)
	s.logger.Info("user updated", zap.String("user_id", id))
	copied := *user
	return &copied, nil
}

// DeleteUser removes the account. Ticket references (createdBy,
// assignedUser) are left as-is; log-trail actors are denormalized snapshots.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.userIndex(id)
	if idx < 0 {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	s.users = append(s.users[:idx], s.users[idx+1:]...)
	if s.session != nil && s.session.ID == id {
		s.session = nil
	}
	s.persist(ctx)
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// AssignUserToDepartment is a convenience wrapper over UpdateUser.
func (s *Store) AssignUserToDepartment(ctx context.Context, userID, departmentID string) (*domain.User, error) {
	return s.UpdateUser(ctx, userID, UserUpdate{DepartmentID: &departmentID})
}

// GetUser fetches a user by id. Also satisfies auth.UserDirectory.
func (s *Store) GetUser(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.userIndex(id)
	if idx < 0 {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	copied := s.users[idx]
	return &copied, nil
}

// Users returns all accounts.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User{}, s.users...)
}

func (s *Store) userIndex(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) emailTaken(email, excludeID string) bool {
	for i := range s.users {
		if s.users[i].ID == excludeID {
			continue
		}
		if strings.EqualFold(s.users[i].Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) departmentHasSubAdmin(departmentID, excludeUserID string) bool {
	for i := range s.users {
		if s.users[i].ID == excludeUserID {
			continue
		}
		if s.users[i].Role == domain.RoleSubAdmin && s.users[i].DepartmentID == departmentID {
			return true
		}
	}
	return false
}
