package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
)

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// CreateTicketParams defines the required input for creating a new ticket.
type CreateTicketParams struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	ActorID     uuid.UUID
	ActorEmail  string
}

// UpdateTicketParams defines the input for the inline-edit writeback. The
// four fields mirror the edit buffer; XP and CreatedAt are never written.
type UpdateTicketParams struct {
	TicketID    uuid.UUID
	Title       string
	Description string
	Priority    domain.TicketPriority
	Status      domain.TicketStatus
	ActorID     uuid.UUID
}

// ListTicketsParams defines the input for the derived list view.
type ListTicketsParams struct {
	StatusFilter string
	Search       string
	Page         int
}

// CreateCommentParams defines the input for appending a comment.
type CreateCommentParams struct {
	TicketID   uuid.UUID
	Text       string
	ActorID    uuid.UUID
	ActorEmail string
}

// TicketService defines the core business operations for managing tickets.
type TicketService interface {
	CreateTicket(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error)
	ListTickets(ctx context.Context, params ListTicketsParams) (domain.TicketListPage, error)
	UpdateTicket(ctx context.Context, params UpdateTicketParams) (*domain.Ticket, error)
	CloseTicket(ctx context.Context, ticketID, actorID uuid.UUID) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, ticketID, actorID uuid.UUID) error
}

// CommentService defines the port for comment-related business logic.
type CommentService interface {
	CreateComment(ctx context.Context, params CreateCommentParams) (*domain.Comment, error)
	GetCommentsForTicket(ctx context.Context, ticketID uuid.UUID) ([]*domain.Comment, error)
}

// StatsService defines the port for the dashboard aggregates.
type StatsService interface {
	GetStats(ctx context.Context, userID uuid.UUID) (domain.DerivedStats, error)
}

// EventBroadcaster defines the port for real-time event fan-out.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
