package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
	"github.com/ticketmania/ticketmania-backend/internal/core/ports"
)

// CommentService implements comment business logic
type CommentService struct {
	commentRepo ports.CommentRepository
	ticketRepo  ports.TicketRepository
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger
}

var _ ports.CommentService = (*CommentService)(nil)

// NewCommentService creates a new comment service
func NewCommentService(commentRepo ports.CommentRepository, ticketRepo ports.TicketRepository, broadcaster ports.EventBroadcaster, logger *slog.Logger) ports.CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		ticketRepo:  ticketRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// CreateComment appends a comment to a ticket. Any authenticated user may
// comment; ownership only gates ticket mutations.
func (s *CommentService) CreateComment(ctx context.Context, params ports.CreateCommentParams) (*domain.Comment, error) {
	// Verify the ticket exists before appending
	if _, err := s.ticketRepo.GetByID(ctx, params.TicketID); err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(domain.CommentParams{
		TicketID:       params.TicketID,
		Text:           params.Text,
		CreatedBy:      params.ActorID,
		CreatedByEmail: params.ActorEmail,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	s.broadcastCommentAdded(created)

	return created, nil
}

// GetCommentsForTicket returns a ticket's comments ordered oldest first.
func (s *CommentService) GetCommentsForTicket(ctx context.Context, ticketID uuid.UUID) ([]*domain.Comment, error) {
	if _, err := s.ticketRepo.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByTicketID(ctx, ticketID)
}

func (s *CommentService) broadcastCommentAdded(comment *domain.Comment) {
	if s.broadcaster == nil {
		return
	}
	event := domain.Event{
		Type:     domain.EventCommentAdded,
		TicketID: comment.TicketID,
		Payload:  domain.NewCommentSnapshot(comment),
		Scope:    domain.ScopeTicket,
	}
	go func() {
		if err := s.broadcaster.Broadcast(event); err != nil {
			s.logger.Error("failed to broadcast comment event",
				slog.String("ticket_id", comment.TicketID.String()),
				slog.Any("error", err))
		}
	}()
}
