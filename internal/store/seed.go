package store

import (
	"time"

	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// Demo credentials for a freshly reset store. Every seeded account shares
// seedPassword; only its bcrypt hash is ever stored.
const (
	SeedAdminEmail = "admin@company.com"
	seedPassword   = "password"
)

func seedUsers(bcryptCost int) ([]domain.User, error) {
	hash, err := auth.HashPassword(seedPassword, bcryptCost)
	if err != nil {
		return nil, err
	}
	return []domain.User{
		{
			ID:           "1",
			Name:         "Admin User",
			Email:        SeedAdminEmail,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
		},
		{
			ID:           "2",
			Name:         "Sub Admin",
			Email:        "subadmin@company.com",
			PasswordHash: hash,
			Role:         domain.RoleSubAdmin,
			DepartmentID: "1",
		},
		{
			ID:           "3",
			Name:         "John Doe",
			Email:        "john@company.com",
			PasswordHash: hash,
			Role:         domain.RoleUser,
			DepartmentID: "1",
		},
		{
			ID:           "4",
			Name:         "Jane Smith",
			Email:        "jane@company.com",
			PasswordHash: hash,
			Role:         domain.RoleUser,
			DepartmentID: "2",
		},
	}, nil
}

func seedDepartments() []domain.Department {
	return []domain.Department{
		{
			ID:          "1",
			Name:        "Technical Support",
			Description: "Handles all technical issues and support requests.",
		},
		{
			ID:          "2",
			Name:        "Customer Service",
			Description: "Manages customer inquiries, feedback, and general support.",
		},
		{
			ID:          "3",
			Name:        "Sales",
			Description: "Responsible for new client acquisition and sales operations.",
		},
	}
}

func seedTickets() []domain.Ticket {
	first := time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)
	second := time.Date(2024, time.January, 16, 14, 20, 0, 0, time.UTC)
	return []domain.Ticket{
		{
			ID:             "1",
			Name:           "John Customer",
			Phone:          "+1234567890",
			Email:          "john.customer@email.com",
			CompanySection: "Sales",
			Source:         "Email",
			DateFiled:      first,
			Subject:        "Login Issues",
			Message:        "I'm having trouble logging into my account. The password reset doesn't seem to work.",
			Level:          domain.TicketLevelHigh,
			Status:         domain.TicketStatusNew,
			DepartmentID:   "1",
			AutoEmail:      true,
			CreatedBy:      "1",
			UpdatedAt:      first,
			LogTrail: []domain.LogEntry{{
				ID:        "1",
				Action:    LogActionTicketCreated,
				Actor:     "Admin User",
				Timestamp: first,
			}},
		},
		{
			ID:             "2",
			Name:           "Jane Smith",
			Phone:          "+1987654321",
			Email:          "jane.smith@email.com",
			CompanySection: "Support",
			Source:         "Phone",
			DateFiled:      second,
			Subject:        "Billing Question",
			Message:        "I have a question about my recent invoice. There seems to be an extra charge.",
			Level:          domain.TicketLevelMedium,
			Status:         domain.TicketStatusInProgress,
			DepartmentID:   "2",
			AutoEmail:      false,
			CreatedBy:      "1",
			UpdatedAt:      second,
			LogTrail: []domain.LogEntry{{
				ID:        "1",
				Action:    LogActionTicketCreated,
				Actor:     "Admin User",
				Timestamp: second,
			}},
		},
	}
}

func seedCompanySections() []string {
	return []string{"Sales", "Marketing", "Support", "Development", "HR"}
}

func seedSources() []string {
	return []string{"Tawk.to", "Walk-in", "Phone", "Email", "Website Form"}
}
