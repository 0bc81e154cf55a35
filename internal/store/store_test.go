package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
	"github.com/spec-kit/helpdesk-admin/internal/persistence"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return newTestStoreAt(t, filepath.Join(t.TempDir(), "state.json"))
}

func newTestStoreAt(t *testing.T, path string) *Store {
	t.Helper()
	s, err := New(context.Background(), Dependencies{
		Snapshots:  persistence.NewFileSnapshotStore(path),
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	return s
}

func loginAdmin(t *testing.T, s *Store) *domain.User {
	t.Helper()
	user, err := s.Login(context.Background(), SeedAdminEmail, "password")
	require.NoError(t, err)
	return user
}

func TestLogin_SeededAdmin(t *testing.T) {
	s := newTestStore(t)

	user := loginAdmin(t, s)
	assert.Equal(t, "Admin User", user.Name)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	session := s.CurrentUser()
	require.NotNil(t, session)
	assert.Equal(t, user.ID, session.ID)
}

func TestLogin_WrongPassword_LeavesSessionUntouched(t *testing.T) {
	s := newTestStore(t)
	loginAdmin(t, s)

	_, err := s.Login(context.Background(), SeedAdminEmail, "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))

	session := s.CurrentUser()
	require.NotNil(t, session, "failed login must not clear the session")
	assert.Equal(t, SeedAdminEmail, session.Email)
}

func TestLogin_UnknownEmail(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Login(context.Background(), "ghost@company.com", "password")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))
	assert.Nil(t, s.CurrentUser())
}

func TestLogout_ClearsSession(t *testing.T) {
	s := newTestStore(t)
	loginAdmin(t, s)

	s.Logout(context.Background())
	assert.Nil(t, s.CurrentUser())
}

func TestResetThenLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	loginAdmin(t, s)

	_, err := s.CreateDepartment(ctx, "Escalations", "")
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))
	assert.Nil(t, s.CurrentUser())
	assert.Len(t, s.Departments(), 3)

	user, err := s.Login(ctx, SeedAdminEmail, "password")
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)
}

func TestCreateTicket_SeedsLogTrail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	admin := loginAdmin(t, s)

	ticket, err := s.CreateTicket(ctx, TicketCreateInput{
		Name:         "Carol Caller",
		Email:        "carol@example.com",
		Subject:      "Printer on fire",
		Message:      "It is actually on fire.",
		Level:        domain.TicketLevelUrgent,
		DepartmentID: "1",
	})
	require.NoError(t, err)

	assert.Equal(t, admin.ID, ticket.CreatedBy)
	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	require.Len(t, ticket.LogTrail, 1)
	assert.Equal(t, LogActionTicketCreated, ticket.LogTrail[0].Action)
	assert.Equal(t, admin.Name, ticket.LogTrail[0].Actor)
}

func TestCreateTicket_DefaultsLevelAndStatus(t *testing.T) {
	s := newTestStore(t)
	loginAdmin(t, s)

	ticket, err := s.CreateTicket(context.Background(), TicketCreateInput{
		Subject:      "No level given",
		DepartmentID: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketLevelMedium, ticket.Level)
	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.False(t, ticket.DateFiled.IsZero())
}

func TestCreateTicket_NoSession(t *testing.T) {
	s := newTestStore(t)
	before := len(s.Tickets())

	_, err := s.CreateTicket(context.Background(), TicketCreateInput{
		Subject:      "Orphan",
		DepartmentID: "1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	assert.Len(t, s.Tickets(), before)
}

func TestCreateTicket_UnknownDepartment(t *testing.T) {
	s := newTestStore(t)
	loginAdmin(t, s)

	_, err := s.CreateTicket(context.Background(), TicketCreateInput{
		Subject:      "Lost",
		DepartmentID: "does-not-exist",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestUpdateTicket_AppendsExactlyOneLogEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	admin := loginAdmin(t, s)

	before, err := s.GetTicket("1")
	require.NoError(t, err)

	subject := "Login issues (escalated)"
	status := domain.TicketStatusInProgress
	updated, err := s.UpdateTicket(ctx, "1", TicketUpdate{
		Subject: &subject,
		Status:  &status,
	})
	require.NoError(t, err)

	require.Len(t, updated.LogTrail, len(before.LogTrail)+1)
	last := updated.LogTrail[len(updated.LogTrail)-1]
	assert.Equal(t, LogActionTicketUpdated, last.Action)
	assert.Equal(t, admin.Name, last.Actor)
	assert.Equal(t, "subject, status", last.Details)
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt), "updatedAt must strictly increase")
}

func TestUpdateTicket_NoSession(t *testing.T) {
	s := newTestStore(t)

	subject := "drive-by edit"
	_, err := s.UpdateTicket(context.Background(), "1", TicketUpdate{Subject: &subject})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	ticket, err := s.GetTicket("1")
	require.NoError(t, err)
	assert.Equal(t, "Login Issues", ticket.Subject)
	assert.Len(t, ticket.LogTrail, 1)
}

func TestUpdateTicket_NotFound(t *testing.T) {
	s := newTestStore(t)
	loginAdmin(t, s)

	subject := "ghost"
	_, err := s.UpdateTicket(context.Background(), "missing", TicketUpdate{Subject: &subject})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestUpdateTicket_StatusTransitions(t *testing.T) {
	cases := []struct {
		name string
		from domain.TicketStatus
		to   domain.TicketStatus
		ok   bool
	}{
		{"new to in-progress", domain.TicketStatusNew, domain.TicketStatusInProgress, true},
		{"new to completed", domain.TicketStatusNew, domain.TicketStatusCompleted, false},
		{"in-progress to paused", domain.TicketStatusInProgress, domain.TicketStatusPaused, true},
		{"in-progress to completed", domain.TicketStatusInProgress, domain.TicketStatusCompleted, true},
		{"paused to in-progress", domain.TicketStatusPaused, domain.TicketStatusInProgress, true},
		{"paused to new", domain.TicketStatusPaused, domain.TicketStatusNew, false},
		{"completed to in-progress (unresolve)", domain.TicketStatusCompleted, domain.TicketStatusInProgress, true},
		{"completed to paused", domain.TicketStatusCompleted, domain.TicketStatusPaused, false},
		{"same status", domain.TicketStatusPaused, domain.TicketStatusPaused, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, isValidTransition(tc.from, tc.to))
		})
	}
}

func TestUpdateTicket_RejectsInvalidTransition(t *testing.T) {
	s := newTestStore(t)
	loginAdmin(t, s)

	// seeded ticket "1" is new
	status := domain.TicketStatusCompleted
	_, err := s.UpdateTicket(context.Background(), "1", TicketUpdate{Status: &status})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestDeleteTicket(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.DeleteTicket(context.Background(), "1"))
	_, err := s.GetTicket("1")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	err = s.DeleteTicket(context.Background(), "1")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestAddLogEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry, err := s.AddLogEntry(ctx, "2", LogEntryInput{
		Action:  "Ticket Resolved",
		Actor:   "Sub Admin",
		Details: "Refund issued",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())

	ticket, err := s.GetTicket("2")
	require.NoError(t, err)
	assert.Equal(t, "Ticket Resolved", ticket.LogTrail[len(ticket.LogTrail)-1].Action)

	_, err = s.AddLogEntry(ctx, "missing", LogEntryInput{Action: "x", Actor: "y"})
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestDeleteUser_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := len(s.Users())
	require.NoError(t, s.DeleteUser(ctx, "4"))
	assert.Len(t, s.Users(), before-1)

	err := s.DeleteUser(ctx, "4")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	assert.Len(t, s.Users(), before-1, "second delete must not change the collection")
}

func TestDeleteUser_ClearsOwnSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	admin := loginAdmin(t, s)

	require.NoError(t, s.DeleteUser(ctx, admin.ID))
	assert.Nil(t, s.CurrentUser())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateUser(context.Background(), UserCreateInput{
		Name:     "Impostor",
		Email:    SeedAdminEmail,
		Password: "p",
		Role:     domain.RoleUser,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestCreateUser_OneSubAdminPerDepartment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// department "1" already has the seeded sub-admin
	_, err := s.CreateUser(ctx, UserCreateInput{
		Name:         "Second Sub",
		Email:        "second@company.com",
		Password:     "p",
		Role:         domain.RoleSubAdmin,
		DepartmentID: "1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	_, err = s.CreateUser(ctx, UserCreateInput{
		Name:         "Sales Sub",
		Email:        "salessub@company.com",
		Password:     "p",
		Role:         domain.RoleSubAdmin,
		DepartmentID: "3",
	})
	require.NoError(t, err)
}

func TestUpdateUser_RefreshesSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	admin := loginAdmin(t, s)

	name := "Renamed Admin"
	_, err := s.UpdateUser(ctx, admin.ID, UserUpdate{Name: &name})
	require.NoError(t, err)

	session := s.CurrentUser()
	require.NotNil(t, session)
	assert.Equal(t, "Renamed Admin", session.Name)
}

func TestUpdateUser_RejectedUpdateLeavesRecordUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	email := "changed@company.com"
	badRole := domain.Role("overlord")
	_, err := s.UpdateUser(ctx, "3", UserUpdate{Email: &email, Role: &badRole})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	user, err := s.GetUser("3")
	require.NoError(t, err)
	assert.Equal(t, "john@company.com", user.Email, "rejected update must not apply any field")
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestUpdateUser_ConflictLeavesRecordUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Promoting "4" to sub-admin of department "1" collides with the seeded
	// sub-admin; the accompanying name change must not stick either.
	name := "Promoted Jane"
	role := domain.RoleSubAdmin
	deptID := "1"
	_, err := s.UpdateUser(ctx, "4", UserUpdate{Name: &name, Role: &role, DepartmentID: &deptID})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	user, err := s.GetUser("4")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", user.Name)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "2", user.DepartmentID)
}

func TestDeleteDepartment_BlockedWhileReferenced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// "1" is referenced by seeded users and a ticket
	err := s.DeleteDepartment(ctx, "1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	// "3" (Sales) has no references
	require.NoError(t, s.DeleteDepartment(ctx, "3"))
	assert.Len(t, s.Departments(), 2)
}

func TestCreateDepartment_DuplicateName(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateDepartment(context.Background(), "sales", "case-insensitive duplicate")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestAssignUserToDepartment(t *testing.T) {
	s := newTestStore(t)

	user, err := s.AssignUserToDepartment(context.Background(), "3", "2")
	require.NoError(t, err)
	assert.Equal(t, "2", user.DepartmentID)

	members := s.DepartmentMembers("2")
	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.ID)
	}
	assert.Contains(t, ids, "3")
}

func TestListTickets_FilterAndSearch(t *testing.T) {
	s := newTestStore(t)

	techOnly := s.ListTickets(TicketFilter{DepartmentID: "1"})
	require.Len(t, techOnly, 1)
	assert.Equal(t, "Login Issues", techOnly[0].Subject)

	byStatus := s.ListTickets(TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusInProgress}})
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Billing Question", byStatus[0].Subject)

	bySearch := s.SearchTickets("invoice")
	require.Len(t, bySearch, 1)
	assert.Equal(t, "2", bySearch[0].ID)

	assert.Empty(t, s.SearchTickets("zebra"))
}

func TestListTickets_NewestUpdateFirst(t *testing.T) {
	s := newTestStore(t)
	loginAdmin(t, s)

	// seeded ticket "2" was updated a day after "1"; updating "1" moves it
	// to the front
	tickets := s.Tickets()
	require.Len(t, tickets, 2)
	assert.Equal(t, "2", tickets[0].ID)

	subject := "Login Issues (reopened)"
	_, err := s.UpdateTicket(context.Background(), "1", TicketUpdate{Subject: &subject})
	require.NoError(t, err)

	tickets = s.Tickets()
	require.Len(t, tickets, 2)
	assert.Equal(t, "1", tickets[0].ID)
}

func TestEndToEndBillingScenario(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Reset(ctx))
	loginAdmin(t, s)

	dept, err := s.CreateDepartment(ctx, "Billing", "Invoices and refunds")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, UserCreateInput{
		Name:         "Ada",
		Email:        "ada@x.com",
		Password:     "p",
		Role:         domain.RoleUser,
		DepartmentID: dept.ID,
	})
	require.NoError(t, err)

	ticket, err := s.CreateTicket(ctx, TicketCreateInput{
		Name:         "Ada",
		Email:        "ada@x.com",
		Subject:      "Double charge",
		Message:      "Charged twice this month.",
		Level:        domain.TicketLevelHigh,
		DepartmentID: dept.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, dept.ID, ticket.DepartmentID)
	require.NotEmpty(t, ticket.LogTrail)
	assert.Equal(t, LogActionTicketCreated, ticket.LogTrail[0].Action)
}

func TestRehydrateFromSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	first := newTestStoreAt(t, path)
	loginAdmin(t, first)
	dept, err := first.CreateDepartment(ctx, "Billing", "")
	require.NoError(t, err)

	second := newTestStoreAt(t, path)
	got, err := second.GetDepartment(dept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Billing", got.Name)

	session := second.CurrentUser()
	require.NotNil(t, session, "session survives rehydration")
	assert.Equal(t, SeedAdminEmail, session.Email)
}

func TestRehydrate_VersionMismatchFallsBackToSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version":1,"users":[]}`), 0o600))

	s := newTestStoreAt(t, path)
	assert.Len(t, s.Users(), 4)
	assert.Len(t, s.Departments(), 3)
	assert.Len(t, s.Tickets(), 2)
}
