package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
	apperrors "github.com/ticketmania/ticketmania-backend/internal/core/errors"
	"github.com/ticketmania/ticketmania-backend/internal/core/mocks"
	"github.com/ticketmania/ticketmania-backend/internal/core/ports"
	"github.com/ticketmania/ticketmania-backend/internal/core/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBroadcaster() *mocks.MockEventBroadcaster {
	// Events fan out on a separate goroutine; allow any number of calls.
	b := mocks.NewMockEventBroadcaster()
	b.On("Broadcast", mock.AnythingOfType("domain.Event")).Return(nil).Maybe()
	return b
}

func TestTicketService_CreateTicket(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success derives xp and opens the ticket", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Ticket")).
			Run(func(args mock.Arguments) {
				ticket := args.Get(1).(*domain.Ticket)
				assert.Equal(t, domain.StatusOpen, ticket.Status)
				assert.Equal(t, 50, ticket.XP)
			}).
			Return(&domain.Ticket{
				ID:             uuid.New(),
				Title:          "Payment page crashes",
				Description:    "Checkout fails on submit",
				Priority:       domain.PriorityHigh,
				Status:         domain.StatusOpen,
				XP:             50,
				CreatedBy:      userID,
				CreatedByEmail: "alice@example.com",
			}, nil)

		ticket, err := svc.CreateTicket(ctx, ports.CreateTicketParams{
			Title:       "Payment page crashes",
			Description: "Checkout fails on submit",
			Priority:    domain.PriorityHigh,
			ActorID:     userID,
			ActorEmail:  "alice@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusOpen, ticket.Status)
		assert.Equal(t, 50, ticket.XP)
		mockRepo.AssertExpectations(t)
	})

	t.Run("validation failure never reaches the store", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		ticket, err := svc.CreateTicket(ctx, ports.CreateTicketParams{
			Title:       "Bug",
			Description: "Checkout fails on submit",
			Priority:    domain.PriorityHigh,
			ActorID:     userID,
		})

		assert.Nil(t, ticket)
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestTicketService_ListTickets(t *testing.T) {
	ctx := context.Background()

	makeTickets := func(n int) []*domain.Ticket {
		tickets := make([]*domain.Ticket, 0, n)
		for i := 0; i < n; i++ {
			tickets = append(tickets, &domain.Ticket{
				ID:          uuid.New(),
				Title:       "Repeating issue",
				Description: "Same thing every time",
				Status:      domain.StatusOpen,
				Priority:    domain.PriorityLow,
				XP:          10,
			})
		}
		return tickets
	}

	t.Run("projects the full set into one page", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("List", ctx).Return(makeTickets(12), nil)

		page, err := svc.ListTickets(ctx, ports.ListTicketsParams{Page: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Tickets, 5)
	})

	t.Run("out of range page falls back to page one", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("List", ctx).Return(makeTickets(7), nil)

		page, err := svc.ListTickets(ctx, ports.ListTicketsParams{Page: 9})

		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
	})
}

func TestTicketService_UpdateTicket(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	ticketID := uuid.New()

	existing := func() *domain.Ticket {
		return &domain.Ticket{
			ID:          ticketID,
			Title:       "Login broken",
			Description: "Cannot sign in at all",
			Priority:    domain.PriorityHigh,
			Status:      domain.StatusOpen,
			XP:          50,
			CreatedBy:   ownerID,
		}
	}

	t.Run("owner edit keeps xp across a priority change", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("GetByID", ctx, ticketID).Return(existing(), nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Ticket")).
			Run(func(args mock.Arguments) {
				ticket := args.Get(1).(*domain.Ticket)
				assert.Equal(t, domain.PriorityLow, ticket.Priority)
				assert.Equal(t, 50, ticket.XP)
			}).
			Return(existing(), nil)

		_, err := svc.UpdateTicket(ctx, ports.UpdateTicketParams{
			TicketID:    ticketID,
			Title:       "Login broken",
			Description: "Cannot sign in at all",
			Priority:    domain.PriorityLow,
			Status:      domain.StatusOpen,
			ActorID:     ownerID,
		})

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("GetByID", ctx, ticketID).Return(existing(), nil)

		_, err := svc.UpdateTicket(ctx, ports.UpdateTicketParams{
			TicketID:    ticketID,
			Title:       "Hijacked",
			Description: "Should not be allowed",
			Priority:    domain.PriorityLow,
			Status:      domain.StatusOpen,
			ActorID:     uuid.New(),
		})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Update")
	})
}

func TestTicketService_CloseTicket(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	ticketID := uuid.New()

	t.Run("owner closes an open ticket", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("GetByID", ctx, ticketID).Return(&domain.Ticket{
			ID:        ticketID,
			Status:    domain.StatusOpen,
			CreatedBy: ownerID,
		}, nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Ticket")).
			Return(&domain.Ticket{
				ID:        ticketID,
				Status:    domain.StatusClosed,
				CreatedBy: ownerID,
			}, nil)

		ticket, err := svc.CloseTicket(ctx, ticketID, ownerID)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusClosed, ticket.Status)
	})

	t.Run("closing a closed ticket is a conflict", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("GetByID", ctx, ticketID).Return(&domain.Ticket{
			ID:        ticketID,
			Status:    domain.StatusClosed,
			CreatedBy: ownerID,
		}, nil)

		_, err := svc.CloseTicket(ctx, ticketID, ownerID)

		assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyClosed)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("non-owner cannot close", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("GetByID", ctx, ticketID).Return(&domain.Ticket{
			ID:        ticketID,
			Status:    domain.StatusOpen,
			CreatedBy: ownerID,
		}, nil)

		_, err := svc.CloseTicket(ctx, ticketID, uuid.New())

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestTicketService_DeleteTicket(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	ticketID := uuid.New()

	t.Run("owner deletes", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("GetByID", ctx, ticketID).Return(&domain.Ticket{
			ID:        ticketID,
			CreatedBy: ownerID,
		}, nil)
		mockRepo.On("Delete", ctx, ticketID).Return(nil)

		err := svc.DeleteTicket(ctx, ticketID, ownerID)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("GetByID", ctx, ticketID).Return(&domain.Ticket{
			ID:        ticketID,
			CreatedBy: ownerID,
		}, nil)

		err := svc.DeleteTicket(ctx, ticketID, uuid.New())

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("missing ticket propagates not found", func(t *testing.T) {
		mockRepo := mocks.NewMockTicketRepository()
		svc := services.NewTicketService(mockRepo, newBroadcaster(), testLogger())

		mockRepo.On("GetByID", ctx, ticketID).Return(nil, apperrors.ErrTicketNotFound)

		err := svc.DeleteTicket(ctx, ticketID, ownerID)

		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})
}
