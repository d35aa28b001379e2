package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
)

// UserRepository is the port for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// TicketRepository is the port for ticket persistence.
//
// List and ListByCreator return the full matching set ordered by CreatedAt
// descending; pagination happens in the view projection, not at the store.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Ticket, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Ticket, error)
}

// CommentRepository is the port for comment persistence. Comments are
// append-only; there is no update or delete.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	ListByTicketID(ctx context.Context, ticketID uuid.UUID) ([]*domain.Comment, error)
}
