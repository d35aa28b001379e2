package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ticketmania/ticketmania-backend/internal/core/errors"
)

// Title/description minimums are enforced at creation only. Edits are free
// to shorten either field; that matches the product's original behavior.
const (
	MinTitleLength       = 5
	MinDescriptionLength = 10
)

// TicketStatus represents the possible states of a ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "Open"
	StatusInProgress TicketStatus = "In Progress"
	StatusClosed     TicketStatus = "Closed"
)

// IsValid reports whether the status is one of the known values.
// Comparison is case-sensitive.
func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "Low"
	PriorityMedium TicketPriority = "Medium"
	PriorityHigh   TicketPriority = "High"
)

// IsValid reports whether the priority is one of the known values.
// Comparison is case-sensitive.
func (p TicketPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ComputeXP maps a priority to the XP awarded at ticket creation.
// Unknown priorities fall back to the Low value.
func ComputeXP(priority TicketPriority) int {
	switch priority {
	case PriorityLow:
		return 10
	case PriorityMedium:
		return 25
	case PriorityHigh:
		return 50
	default:
		return 10
	}
}

// Ticket is the core domain entity.
type Ticket struct {
	ID             uuid.UUID
	Title          string
	Description    string
	Priority       TicketPriority
	Status         TicketStatus
	XP             int
	CreatedBy      uuid.UUID
	CreatedByEmail string
	CreatedAt      time.Time
}

// TicketParams holds the caller-supplied fields for creating a ticket.
type TicketParams struct {
	Title          string
	Description    string
	Priority       TicketPriority
	CreatedBy      uuid.UUID
	CreatedByEmail string
}

// Validate checks the creation-time field constraints and reports one
// message per violated field.
func (p *TicketParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	if len(strings.TrimSpace(p.Title)) < MinTitleLength {
		errs.Add("title", "Title must be at least 5 characters long.")
	}
	if len(strings.TrimSpace(p.Description)) < MinDescriptionLength {
		errs.Add("description", "Description must be at least 10 characters long.")
	}
	if p.Priority != "" && !p.Priority.IsValid() {
		errs.Add("priority", "Priority must be one of: Low, Medium, High")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// NewTicket is a factory function to create a valid new ticket.
// Status is always Open and XP is derived from the priority exactly once;
// neither is ever recomputed afterwards. The ID and CreatedAt are assigned
// by the store on persist.
func NewTicket(params TicketParams) (*Ticket, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.CreatedBy == uuid.Nil {
		return nil, apperrors.ErrCreatorRequired
	}

	priority := params.Priority
	if priority == "" {
		priority = PriorityLow
	}

	return &Ticket{
		Title:          params.Title,
		Description:    params.Description,
		Priority:       priority,
		Status:         StatusOpen,
		XP:             ComputeXP(priority),
		CreatedBy:      params.CreatedBy,
		CreatedByEmail: params.CreatedByEmail,
	}, nil
}

// TicketEdit carries the four editable fields of a ticket. XP and CreatedAt
// are deliberately absent: editing the priority never changes the stored XP.
type TicketEdit struct {
	Title       string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
}

// Validate checks the edit fields. Length minimums apply at creation only,
// so only the enum fields are validated here.
func (e *TicketEdit) Validate() error {
	errs := apperrors.NewValidationErrors()

	if !e.Priority.IsValid() {
		errs.Add("priority", "Priority must be one of: Low, Medium, High")
	}
	if !e.Status.IsValid() {
		errs.Add("status", "Status must be one of: Open, In Progress, Closed")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ApplyEdit writes the edit buffer back onto the ticket.
func (t *Ticket) ApplyEdit(edit TicketEdit) error {
	if err := edit.Validate(); err != nil {
		return err
	}

	t.Title = edit.Title
	t.Description = edit.Description
	t.Priority = edit.Priority
	t.Status = edit.Status
	return nil
}

// Close sets the status to Closed. A ticket that is already closed cannot
// be closed again; the control is only offered for non-closed tickets.
func (t *Ticket) Close() error {
	if t.Status == StatusClosed {
		return apperrors.ErrTicketAlreadyClosed
	}
	t.Status = StatusClosed
	return nil
}

// IsOwnedBy reports whether the given user created this ticket. Ownership
// gates edit, close, and delete.
func (t *Ticket) IsOwnedBy(userID uuid.UUID) bool {
	return t.CreatedBy == userID
}
