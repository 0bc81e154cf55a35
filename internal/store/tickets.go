package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
	"github.com/spec-kit/helpdesk-admin/internal/events"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// Audit trail action labels.
const (
	LogActionTicketCreated = "Ticket Created"
	LogActionTicketUpdated = "Ticket Updated"
)

// allowedTransitions restricts status changes to the workflow
// new → in-progress → paused → completed, with completed → in-progress as
// the unresolve path. Rewriting the current status is always permitted.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusNew:        {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress: {domain.TicketStatusPaused, domain.TicketStatusCompleted},
	domain.TicketStatusPaused:     {domain.TicketStatusInProgress, domain.TicketStatusCompleted},
	domain.TicketStatusCompleted:  {domain.TicketStatusInProgress},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	if current == next {
		return true
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Name           string
	Phone          string
	Email          string
	CompanySection string
	Source         string
	DateFiled      time.Time
	Subject        string
	Message        string
	Recommendation string
	Level          domain.TicketLevel
	Status         domain.TicketStatus
	DepartmentID   string
	AssignedUserID string
	AutoEmail      bool
}

// TicketUpdate carries partial ticket fields; nil means leave unchanged.
type TicketUpdate struct {
	Name           *string
	Phone          *string
	Email          *string
	CompanySection *string
	Source         *string
	Subject        *string
	Message        *string
	Recommendation *string
	Level          *domain.TicketLevel
	Status         *domain.TicketStatus
	DepartmentID   *string
	AssignedUserID *string
	AutoEmail      *bool
}

// LogEntryInput is a caller-supplied audit entry; id and timestamp are
// stamped by the store.
type LogEntryInput struct {
	Action  string
	Actor   string
	Details string
}

// TicketFilter selects tickets via a linear predicate scan.
type TicketFilter struct {
	DepartmentID   string
	AssignedUserID string
	CreatedBy      string
	Statuses       []domain.TicketStatus
	Levels         []domain.TicketLevel
	Search         string
}

// CreateTicket creates a ticket attributed to the session user and seeds its
// audit trail with a single "Ticket Created" entry.
func (s *Store) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperrors.NewUnauthorized("no active session")
	}
	if strings.TrimSpace(input.Subject) == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}
	if s.departmentIndex(input.DepartmentID) < 0 {
		return nil, apperrors.NewNotFound("department", map[string]any{"id": input.DepartmentID})
	}
	if input.AssignedUserID != "" && s.userIndex(input.AssignedUserID) < 0 {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": input.AssignedUserID})
	}
	if input.Level == "" {
		input.Level = domain.TicketLevelMedium
	}
	if !input.Level.Valid() {
		return nil, apperrors.NewValidationError("unknown ticket level", map[string]any{"level": input.Level})
	}
	if input.Status == "" {
		input.Status = domain.TicketStatusNew
	}
	if !input.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown ticket status", map[string]any{"status": input.Status})
	}

	now := time.Now()
	if input.DateFiled.IsZero() {
		input.DateFiled = now
	}

	ticket := domain.Ticket{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(input.Name),
		Phone:          strings.TrimSpace(input.Phone),
		Email:          strings.TrimSpace(input.Email),
		CompanySection: input.CompanySection,
		Source:         input.Source,
		DateFiled:      input.DateFiled,
		Subject:        strings.TrimSpace(input.Subject),
		Message:        input.Message,
		Recommendation: input.Recommendation,
		Level:          input.Level,
		Status:         input.Status,
		DepartmentID:   input.DepartmentID,
		AssignedUserID: input.AssignedUserID,
		AutoEmail:      input.AutoEmail,
		CreatedBy:      s.session.ID,
		UpdatedAt:      now,
		LogTrail: []domain.LogEntry{{
			ID:        uuid.NewString(),
			Action:    LogActionTicketCreated,
			Actor:     s.session.Name,
			Timestamp: now,
		}},
	}

	s.tickets = append(s.tickets, ticket)
	s.persist(ctx)
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("department_id", ticket.DepartmentID),
		zap.String("level", string(ticket.Level)))
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    s.sessionActor(),
		Payload: events.TicketCreatedPayload{
			DepartmentID: ticket.DepartmentID,
			Subject:      ticket.Subject,
			Level:        ticket.Level,
			AutoEmail:    ticket.AutoEmail,
			Requester:    ticket.Email,
			Status:       ticket.Status,
		},
	})

	copied := copyTicket(ticket)
	return &copied, nil
}

// UpdateTicket merges partial fields into the ticket, refreshes UpdatedAt,
// and appends a "Ticket Updated" entry listing the changed field names.
func (s *Store) UpdateTicket(ctx context.Context, id string, upd TicketUpdate) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, apperrors.NewUnauthorized("no active session")
	}
	idx := s.ticketIndex(id)
	if idx < 0 {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	ticket := &s.tickets[idx]

	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, apperrors.NewValidationError("unknown ticket status", map[string]any{"status": *upd.Status})
		}
		if !isValidTransition(ticket.Status, *upd.Status) {
			return nil, apperrors.NewConflict("invalid status transition", map[string]any{
				"from": ticket.Status,
				"to":   *upd.Status,
			})
		}
	}
	if upd.Level != nil && !upd.Level.Valid() {
		return nil, apperrors.NewValidationError("unknown ticket level", map[string]any{"level": *upd.Level})
	}
	if upd.DepartmentID != nil && s.departmentIndex(*upd.DepartmentID) < 0 {
		return nil, apperrors.NewNotFound("department", map[string]any{"id": *upd.DepartmentID})
	}
	if upd.AssignedUserID != nil && *upd.AssignedUserID != "" && s.userIndex(*upd.AssignedUserID) < 0 {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": *upd.AssignedUserID})
	}

	changed := applyTicketUpdate(ticket, upd)

	now := time.Now()
	// UpdatedAt must strictly increase even within one clock tick.
	if !now.After(ticket.UpdatedAt) {
		now = ticket.UpdatedAt.Add(time.Nanosecond)
	}
	ticket.UpdatedAt = now
	ticket.LogTrail = append(ticket.LogTrail, domain.LogEntry{
		ID:        uuid.NewString(),
		Action:    LogActionTicketUpdated,
		Actor:     s.session.Name,
		Timestamp: now,
		Details:   strings.Join(changed, ", "),
	})

	s.persist(ctx)
	s.logger.Info("ticket updated",
		zap.String("ticket_id", ticket.ID),
		zap.Strings("fields", changed))
	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Actor:    s.sessionActor(),
		Payload: events.TicketUpdatedPayload{
			ChangedFields: changed,
			Status:        ticket.Status,
			AutoEmail:     ticket.AutoEmail,
		},
	})

	copied := copyTicket(*ticket)
	return &copied, nil
}

// DeleteTicket removes the ticket. Hard delete: no tombstone, no log entry.
func (s *Store) DeleteTicket(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.ticketIndex(id)
	if idx < 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	removed := s.tickets[idx]
	s.tickets = append(s.tickets[:idx], s.tickets[idx+1:]...)
	s.persist(ctx)
	s.logger.Info("ticket deleted", zap.String("ticket_id", id))
	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Actor:    s.sessionActor(),
		Payload: events.TicketDeletedPayload{
			Subject:      removed.Subject,
			DepartmentID: removed.DepartmentID,
		},
	})
	return nil
}

// AddLogEntry appends a caller-supplied audit entry to the ticket, stamping
// id and timestamp. Used for richer audit text (resolve/unresolve flows)
// than the generic update entry carries.
func (s *Store) AddLogEntry(ctx context.Context, ticketID string, input LogEntryInput) (*domain.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.ticketIndex(ticketID)
	if idx < 0 {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	if strings.TrimSpace(input.Action) == "" {
		return nil, apperrors.NewValidationError("action required", nil)
	}

	entry := domain.LogEntry{
		ID:        uuid.NewString(),
		Action:    input.Action,
		Actor:     input.Actor,
		Timestamp: time.Now(),
		Details:   input.Details,
	}
	s.tickets[idx].LogTrail = append(s.tickets[idx].LogTrail, entry)
	s.persist(ctx)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketLogAppended,
		TicketID: ticketID,
		Actor:    s.sessionActor(),
		Payload: events.TicketLogAppendedPayload{
			Action:  entry.Action,
			Details: entry.Details,
		},
	})
	return &entry, nil
}

// GetTicket fetches a ticket by id.
func (s *Store) GetTicket(id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.ticketIndex(id)
	if idx < 0 {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	copied := copyTicket(s.tickets[idx])
	return &copied, nil
}

// Tickets returns all tickets.
func (s *Store) Tickets() []domain.Ticket {
	return s.ListTickets(TicketFilter{})
}

// ListTickets returns tickets matching the filter, newest update first.
func (s *Store) ListTickets(filter TicketFilter) []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Ticket, 0, len(s.tickets))
	for i := range s.tickets {
		if ticketMatches(&s.tickets[i], filter) {
			result = append(result, copyTicket(s.tickets[i]))
		}
	}
	sortTicketsByUpdatedDesc(result)
	return result
}

// SearchTickets is a substring scan over requester name, email, phone,
// subject, and message body.
func (s *Store) SearchTickets(term string) []domain.Ticket {
	return s.ListTickets(TicketFilter{Search: term})
}

func (s *Store) ticketIndex(id string) int {
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func ticketMatches(t *domain.Ticket, filter TicketFilter) bool {
	if filter.DepartmentID != "" && t.DepartmentID != filter.DepartmentID {
		return false
	}
	if filter.AssignedUserID != "" && t.AssignedUserID != filter.AssignedUserID {
		return false
	}
	if filter.CreatedBy != "" && t.CreatedBy != filter.CreatedBy {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status) {
		return false
	}
	if len(filter.Levels) > 0 && !containsLevel(filter.Levels, t.Level) {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		haystacks := []string{t.Name, t.Email, t.Phone, t.Subject, t.Message}
		found := false
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsStatus(list []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range list {
		if candidate == status {
			return true
		}
	}
	return false
}

func containsLevel(list []domain.TicketLevel, level domain.TicketLevel) bool {
	for _, candidate := range list {
		if candidate == level {
			return true
		}
	}
	return false
}

func sortTicketsByUpdatedDesc(tickets []domain.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].UpdatedAt.After(tickets[j].UpdatedAt)
	})
}

func applyTicketUpdate(t *domain.Ticket, upd TicketUpdate) []string {
	changed := []string{}
	if upd.Name != nil {
		t.Name = *upd.Name
		changed = append(changed, "name")
	}
	if upd.Phone != nil {
		t.Phone = *upd.Phone
		changed = append(changed, "phone")
	}
	if upd.Email != nil {
		t.Email = *upd.Email
		changed = append(changed, "email")
	}
	if upd.CompanySection != nil {
		t.CompanySection = *upd.CompanySection
		changed = append(changed, "company_section")
	}
	if upd.Source != nil {
		t.Source = *upd.Source
		changed = append(changed, "source")
	}
	if upd.Subject != nil {
		t.Subject = *upd.Subject
		changed = append(changed, "subject")
	}
	if upd.Message != nil {
		t.Message = *upd.Message
		changed = append(changed, "message")
	}
	if upd.Recommendation != nil {
		t.Recommendation = *upd.Recommendation
		changed = append(changed, "recommendation")
	}
	if upd.Level != nil {
		t.Level = *upd.Level
		changed = append(changed, "level")
	}
	if upd.Status != nil {
		t.Status = *upd.Status
		changed = append(changed, "status")
	}
	if upd.DepartmentID != nil {
		t.DepartmentID = *upd.DepartmentID
		changed = append(changed, "department_id")
	}
	if upd.AssignedUserID != nil {
		t.AssignedUserID = *upd.AssignedUserID
		changed = append(changed, "assigned_user_id")
	}
	if upd.AutoEmail != nil {
		t.AutoEmail = *upd.AutoEmail
		changed = append(changed, "auto_email")
	}
	return changed
}

func copyTicket(t domain.Ticket) domain.Ticket {
	t.LogTrail = append([]domain.LogEntry{}, t.LogTrail...)
	return t
}
