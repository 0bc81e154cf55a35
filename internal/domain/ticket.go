package domain

import "time"

// TicketStatus enumerates workflow states.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusPaused     TicketStatus = "paused"
	TicketStatusCompleted  TicketStatus = "completed"
)

// Valid reports whether the status is a known workflow state.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusPaused, TicketStatusCompleted:
		return true
	}
	return false
}

// TicketLevel enumerates priority levels.
type TicketLevel string

const (
	TicketLevelUrgent TicketLevel = "urgent"
	TicketLevelHigh   TicketLevel = "high"
	TicketLevelMedium TicketLevel = "medium"
	TicketLevelCasual TicketLevel = "casual"
)

// Valid reports whether the level is a known priority.
func (l TicketLevel) Valid() bool {
	switch l {
	case TicketLevelUrgent, TicketLevelHigh, TicketLevelMedium, TicketLevelCasual:
		return true
	}
	return false
}

// Ticket is the primary work item: a customer request tracked through the
// status workflow with an append-only audit trail.
type Ticket struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email"`
	CompanySection string       `json:"company_section"`
	Source         string       `json:"source"`
	DateFiled      time.Time    `json:"date_filed"`
	Subject        string       `json:"subject"`
	Message        string       `json:"message"`
	Recommendation string       `json:"recommendation,omitempty"`
	Level          TicketLevel  `json:"level"`
	Status         TicketStatus `json:"status"`
	DepartmentID   string       `json:"department_id"`
	AssignedUserID string       `json:"assigned_user_id,omitempty"`
	AutoEmail      bool         `json:"auto_email"`
	CreatedBy      string       `json:"created_by"`
	UpdatedAt      time.Time    `json:"updated_at"`
	LogTrail       []LogEntry   `json:"log_trail"`
}

// LogEntry is an immutable audit record attached to a ticket. Actor holds
// the display name at the time of the action, not a live user reference.
type LogEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}
