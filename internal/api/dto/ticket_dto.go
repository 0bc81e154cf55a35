package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Name           string              `json:"name"`
	Phone          string              `json:"phone"`
	Email          string              `json:"email"`
	CompanySection string              `json:"company_section"`
	Source         string              `json:"source"`
	DateFiled      *time.Time          `json:"date_filed"`
	Subject        string              `json:"subject"`
	Message        string              `json:"message"`
	Recommendation string              `json:"recommendation"`
	Level          domain.TicketLevel  `json:"level"`
	Status         domain.TicketStatus `json:"status"`
	DepartmentID   string              `json:"department_id"`
	AssignedUserID string              `json:"assigned_user_id"`
	AutoEmail      bool                `json:"auto_email"`
}

// UpdateTicketRequest payload; omitted fields stay unchanged.
type UpdateTicketRequest struct {
	Name           *string              `json:"name"`
	Phone          *string              `json:"phone"`
	Email          *string              `json:"email"`
	CompanySection *string              `json:"company_section"`
	Source         *string              `json:"source"`
	Subject        *string              `json:"subject"`
	Message        *string              `json:"message"`
	Recommendation *string              `json:"recommendation"`
	Level          *domain.TicketLevel  `json:"level"`
	Status         *domain.TicketStatus `json:"status"`
	DepartmentID   *string              `json:"department_id"`
	AssignedUserID *string              `json:"assigned_user_id"`
	AutoEmail      *bool                `json:"auto_email"`
}

// AddLogEntryRequest payload.
type AddLogEntryRequest struct {
	Action  string `json:"action"`
	Actor   string `json:"actor"`
	Details string `json:"details"`
}

// TicketResponse provides full ticket info.
type TicketResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Phone          string              `json:"phone"`
	Email          string              `json:"email"`
	CompanySection string              `json:"company_section"`
	Source         string              `json:"source"`
	DateFiled      time.Time           `json:"date_filed"`
	Subject        string              `json:"subject"`
	Message        string              `json:"message"`
	Recommendation string              `json:"recommendation,omitempty"`
	Level          domain.TicketLevel  `json:"level"`
	Status         domain.TicketStatus `json:"status"`
	DepartmentID   string              `json:"department_id"`
	DepartmentName string              `json:"department_name,omitempty"`
	AssignedUserID string              `json:"assigned_user_id,omitempty"`
	AutoEmail      bool                `json:"auto_email"`
	CreatedBy      string              `json:"created_by"`
	UpdatedAt      time.Time           `json:"updated_at"`
	LogTrail       []LogEntryResponse  `json:"log_trail"`
}

// LogEntryResponse represents one audit record.
type LogEntryResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// NewTicketResponse maps a domain ticket, resolving the department display
// name at the presentation boundary.
func NewTicketResponse(t domain.Ticket, departmentName string) TicketResponse {
	trail := make([]LogEntryResponse, 0, len(t.LogTrail))
	for _, entry := range t.LogTrail {
		trail = append(trail, LogEntryResponse{
			ID:        entry.ID,
			Action:    entry.Action,
			Actor:     entry.Actor,
			Timestamp: entry.Timestamp,
			Details:   entry.Details,
		})
	}
	return TicketResponse{
		ID:             t.ID,
		Name:           t.Name,
		Phone:          t.Phone,
		Email:          t.Email,
		CompanySection: t.CompanySection,
		Source:         t.Source,
		DateFiled:      t.DateFiled,
		Subject:        t.Subject,
		Message:        t.Message,
		Recommendation: t.Recommendation,
		Level:          t.Level,
		Status:         t.Status,
		DepartmentID:   t.DepartmentID,
		DepartmentName: departmentName,
		AssignedUserID: t.AssignedUserID,
		AutoEmail:      t.AutoEmail,
		CreatedBy:      t.CreatedBy,
		UpdatedAt:      t.UpdatedAt,
		LogTrail:       trail,
	}
}
