package events

import (
	"time"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated     EventType = "ticket_created"
	EventTicketUpdated     EventType = "ticket_updated"
	EventTicketDeleted     EventType = "ticket_deleted"
	EventTicketLogAppended EventType = "ticket_log_appended"
)

// Actor identifies the session user who triggered the event.
type Actor struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Event represents a domain event emitted by the store.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DepartmentID string              `json:"department_id"`
	Subject      string              `json:"subject"`
	Level        domain.TicketLevel  `json:"level"`
	AutoEmail    bool                `json:"auto_email"`
	Requester    string              `json:"requester"`
	Status       domain.TicketStatus `json:"status"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	ChangedFields []string            `json:"changed_fields"`
	Status        domain.TicketStatus `json:"status"`
	AutoEmail     bool                `json:"auto_email"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Subject      string `json:"subject"`
	DepartmentID string `json:"department_id"`
}

// TicketLogAppendedPayload payload.
type TicketLogAppendedPayload struct {
	Action  string `json:"action"`
	Details string `json:"details,omitempty"`
}
