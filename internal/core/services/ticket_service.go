package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
	apperrors "github.com/ticketmania/ticketmania-backend/internal/core/errors"
	"github.com/ticketmania/ticketmania-backend/internal/core/ports"
)

// TicketService implements ticket business logic
type TicketService struct {
	ticketRepo  ports.TicketRepository
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo ports.TicketRepository, broadcaster ports.EventBroadcaster, logger *slog.Logger) ports.TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// CreateTicket creates a new ticket. Status is always Open and XP is derived
// from the priority at creation time; neither is caller controlled.
func (s *TicketService) CreateTicket(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	ticket, err := domain.NewTicket(domain.TicketParams{
		Title:          params.Title,
		Description:    params.Description,
		Priority:       params.Priority,
		CreatedBy:      params.ActorID,
		CreatedByEmail: params.ActorEmail,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.broadcast(domain.Event{
		Type:    domain.EventTicketCreated,
		Payload: domain.NewTicketSnapshot(created),
		Scope:   domain.ScopeGlobal,
	})

	return created, nil
}

// GetTicket returns a single ticket by ID
func (s *TicketService) GetTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, ticketID)
}

// ListTickets returns one page of the caller's ticket list view. Filtering by
// status and searching happen before pagination, over the full ordered set.
func (s *TicketService) ListTickets(ctx context.Context, params ports.ListTicketsParams) (domain.TicketListPage, error) {
	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return domain.TicketListPage{}, err
	}

	view := domain.NewTicketListView()
	view.SetStatusFilter(params.StatusFilter)
	view.SetSearch(params.Search)
	view.SetPage(params.Page, view.TotalPages(tickets))

	return view.Apply(tickets), nil
}

// UpdateTicket applies an edit to a ticket. Only the creator may edit; XP is
// never recomputed even when the priority changes.
func (s *TicketService) UpdateTicket(ctx context.Context, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	if !ticket.IsOwnedBy(params.ActorID) {
		return nil, apperrors.ErrForbidden
	}

	edit := domain.TicketEdit{
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		Status:      params.Status,
	}
	if err := ticket.ApplyEdit(edit); err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.broadcast(domain.Event{
		Type:     domain.EventTicketUpdated,
		TicketID: updated.ID,
		Payload:  domain.NewTicketSnapshot(updated),
		Scope:    domain.ScopeGlobal,
	})

	return updated, nil
}

// CloseTicket transitions a ticket to Closed. Closing an already closed
// ticket is a conflict, not a no-op.
func (s *TicketService) CloseTicket(ctx context.Context, ticketID, actorID uuid.UUID) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !ticket.IsOwnedBy(actorID) {
		return nil, apperrors.ErrForbidden
	}

	if err := ticket.Close(); err != nil {
		return nil, err
	}

	updated, err := s.ticketRepo.Update(ctx, ticket)
	if err != nil {
		return nil, err
	}

	s.broadcast(domain.Event{
		Type:     domain.EventTicketUpdated,
		TicketID: updated.ID,
		Payload:  domain.NewTicketSnapshot(updated),
		Scope:    domain.ScopeGlobal,
	})

	return updated, nil
}

// DeleteTicket removes a ticket and, via the database cascade, its comments.
func (s *TicketService) DeleteTicket(ctx context.Context, ticketID, actorID uuid.UUID) error {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}

	if !ticket.IsOwnedBy(actorID) {
		return apperrors.ErrForbidden
	}

	if err := s.ticketRepo.Delete(ctx, ticketID); err != nil {
		return err
	}

	s.broadcast(domain.Event{
		Type:     domain.EventTicketDeleted,
		TicketID: ticketID,
		Payload:  map[string]string{"id": ticketID.String()},
		Scope:    domain.ScopeGlobal,
	})

	return nil
}

func (s *TicketService) broadcast(event domain.Event) {
	if s.broadcaster == nil {
		return
	}
	go func() {
		if err := s.broadcaster.Broadcast(event); err != nil {
			s.logger.Error("failed to broadcast ticket event",
				slog.String("event_type", string(event.Type)),
				slog.Any("error", err))
		}
	}()
}
