package services_test

import (
	"context"
	"testing"
	"time"

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

func TestCommentService_CreateComment(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()
	actorID := uuid.New()

	t.Run("appends a comment to an existing ticket", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockTickets := mocks.NewMockTicketRepository()
		svc := services.NewCommentService(mockComments, mockTickets, newBroadcaster(), testLogger())

		mockTickets.On("GetByID", ctx, ticketID).Return(&domain.Ticket{ID: ticketID}, nil)
		mockComments.On("Create", ctx, mock.AnythingOfType("*domain.Comment")).
			Return(&domain.Comment{
				ID:             uuid.New(),
				TicketID:       ticketID,
				Text:           "Have you tried clearing the cache?",
				CreatedBy:      actorID,
				CreatedByEmail: "bob@example.com",
				CreatedAt:      time.Now(),
			}, nil)

		comment, err := svc.CreateComment(ctx, ports.CreateCommentParams{
			TicketID:   ticketID,
			Text:       "Have you tried clearing the cache?",
			ActorID:    actorID,
			ActorEmail: "bob@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, ticketID, comment.TicketID)
		mockComments.AssertExpectations(t)
	})

	t.Run("missing ticket propagates not found", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockTickets := mocks.NewMockTicketRepository()
		svc := services.NewCommentService(mockComments, mockTickets, newBroadcaster(), testLogger())

		mockTickets.On("GetByID", ctx, ticketID).Return(nil, apperrors.ErrTicketNotFound)

		_, err := svc.CreateComment(ctx, ports.CreateCommentParams{
			TicketID: ticketID,
			Text:     "Orphaned comment",
			ActorID:  actorID,
		})

		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
		mockComments.AssertNotCalled(t, "Create")
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockTickets := mocks.NewMockTicketRepository()
		svc := services.NewCommentService(mockComments, mockTickets, newBroadcaster(), testLogger())

		mockTickets.On("GetByID", ctx, ticketID).Return(&domain.Ticket{ID: ticketID}, nil)

		_, err := svc.CreateComment(ctx, ports.CreateCommentParams{
			TicketID: ticketID,
			Text:     "   ",
			ActorID:  actorID,
		})

		assert.Error(t, err)
		mockComments.AssertNotCalled(t, "Create")
	})
}

func TestCommentService_GetCommentsForTicket(t *testing.T) {
	ctx := context.Background()
	ticketID := uuid.New()

	t.Run("returns the thread oldest first", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockTickets := mocks.NewMockTicketRepository()
		svc := services.NewCommentService(mockComments, mockTickets, newBroadcaster(), testLogger())

		first := &domain.Comment{ID: uuid.New(), TicketID: ticketID, Text: "first", CreatedAt: time.Now().Add(-time.Hour)}
		second := &domain.Comment{ID: uuid.New(), TicketID: ticketID, Text: "second", CreatedAt: time.Now()}

		mockTickets.On("GetByID", ctx, ticketID).Return(&domain.Ticket{ID: ticketID}, nil)
		mockComments.On("ListByTicketID", ctx, ticketID).Return([]*domain.Comment{first, second}, nil)

		comments, err := svc.GetCommentsForTicket(ctx, ticketID)

		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Text)
	})

	t.Run("missing ticket propagates not found", func(t *testing.T) {
		mockComments := mocks.NewMockCommentRepository()
		mockTickets := mocks.NewMockTicketRepository()
		svc := services.NewCommentService(mockComments, mockTickets, newBroadcaster(), testLogger())

		mockTickets.On("GetByID", ctx, ticketID).Return(nil, apperrors.ErrTicketNotFound)

		_, err := svc.GetCommentsForTicket(ctx, ticketID)

		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
		mockComments.AssertNotCalled(t, "ListByTicketID")
	})
}
