package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/ticketmania/ticketmania-backend/internal/adapters/primary/http/middleware"
	"github.com/ticketmania/ticketmania-backend/internal/auth"
	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
	apperrors "github.com/ticketmania/ticketmania-backend/internal/core/errors"
	"github.com/ticketmania/ticketmania-backend/internal/core/mocks"
	"github.com/ticketmania/ticketmania-backend/internal/core/ports"
)

func newTicketRouter(ticketService ports.TicketService) (*chi.Mux, *auth.TokenManager) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)
	ticketHandler := NewTicketHandler(ticketService, nil, errorHandler, logger)
	tokenManager := auth.NewTokenManager("test-secret", time.Hour)

	router := chi.NewRouter()
	router.Use(mw.JWTMiddleware(tokenManager))
	router.Route("/tickets", ticketHandler.RegisterRoutes)

	return router, tokenManager
}

func bearerToken(t *testing.T, tm *auth.TokenManager, userID uuid.UUID) string {
	t.Helper()
	token, err := tm.GenerateToken(userID, "alice@example.com", "alice")
	require.NoError(t, err)
	return "Bearer " + token
}

func TestCreateTicketEndpoint(t *testing.T) {
	userID := uuid.New()

	t.Run("valid request returns 201 with the snapshot", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		created := &domain.Ticket{
			ID:             uuid.New(),
			Title:          "Printer on fire",
			Description:    "Smoke coming from the office printer",
			Priority:       domain.PriorityHigh,
			Status:         domain.StatusOpen,
			XP:             50,
			CreatedBy:      userID,
			CreatedByEmail: "alice@example.com",
			CreatedAt:      time.Now(),
		}
		mockService.On("CreateTicket", mock.Anything, mock.AnythingOfType("ports.CreateTicketParams")).
			Return(created, nil)

		body, _ := json.Marshal(CreateTicketRequest{
			Title:       "Printer on fire",
			Description: "Smoke coming from the office printer",
			Priority:    "High",
		})
		req := httptest.NewRequest(stdhttp.MethodPost, "/tickets", bytes.NewReader(body))
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusCreated, recorder.Code)

		var snapshot domain.TicketSnapshot
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&snapshot))
		assert.Equal(t, "Printer on fire", snapshot.Title)
		assert.Equal(t, 50, snapshot.XP)
		assert.Equal(t, "Open", snapshot.Status)
	})

	t.Run("short title returns 422 with a field error", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		body, _ := json.Marshal(CreateTicketRequest{
			Title:       "Bug",
			Description: "Smoke coming from the office printer",
			Priority:    "High",
		})
		req := httptest.NewRequest(stdhttp.MethodPost, "/tickets", bytes.NewReader(body))
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)

		var response ValidationErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Contains(t, response.Fields, "title")
		mockService.AssertNotCalled(t, "CreateTicket")
	})

	t.Run("missing token returns 401", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, _ := newTicketRouter(mockService)

		req := httptest.NewRequest(stdhttp.MethodPost, "/tickets", bytes.NewReader([]byte(`{}`)))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
	})
}

func TestListTicketsEndpoint(t *testing.T) {
	userID := uuid.New()

	t.Run("forwards the filter, search and page and wraps the result", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		tickets := []*domain.Ticket{
			{ID: uuid.New(), Title: "Open issue", Status: domain.StatusOpen, Priority: domain.PriorityLow, XP: 10},
		}
		mockService.On("ListTickets", mock.Anything, ports.ListTicketsParams{
			StatusFilter: "Open",
			Search:       "printer",
			Page:         2,
		}).Return(domain.TicketListPage{
			Tickets:       tickets,
			Page:          2,
			TotalPages:    3,
			TotalMatching: 11,
		}, nil)

		req := httptest.NewRequest(stdhttp.MethodGet, "/tickets?status=Open&q=printer&page=2", nil)
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response PaginatedResponse[domain.TicketSnapshot]
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, 2, response.Pagination.Page)
		assert.Equal(t, 3, response.Pagination.TotalPages)
		assert.Equal(t, 11, response.Pagination.TotalCount)
		require.Len(t, response.Data, 1)
		mockService.AssertExpectations(t)
	})

	t.Run("malformed page falls back to one", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		mockService.On("ListTickets", mock.Anything, ports.ListTicketsParams{Page: 1}).
			Return(domain.TicketListPage{Tickets: []*domain.Ticket{}, Page: 1, TotalPages: 1}, nil)

		req := httptest.NewRequest(stdhttp.MethodGet, "/tickets?page=banana", nil)
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})
}

func TestUpdateTicketEndpoint(t *testing.T) {
	userID := uuid.New()
	ticketID := uuid.New()

	t.Run("non-owner gets 403", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		mockService.On("UpdateTicket", mock.Anything, mock.AnythingOfType("ports.UpdateTicketParams")).
			Return(nil, apperrors.ErrForbidden)

		body, _ := json.Marshal(UpdateTicketRequest{
			Title:       "Someone else's ticket",
			Description: "Trying to edit another user's work",
			Priority:    "Low",
			Status:      "Open",
		})
		req := httptest.NewRequest(stdhttp.MethodPut, "/tickets/"+ticketID.String(), bytes.NewReader(body))
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusForbidden, recorder.Code)
	})

	t.Run("edit may shorten title and description below the creation minimums", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		mockService.On("UpdateTicket", mock.Anything, mock.AnythingOfType("ports.UpdateTicketParams")).
			Return(&domain.Ticket{
				ID:          ticketID,
				Title:       "Fix",
				Description: "Short now",
				Priority:    domain.PriorityLow,
				Status:      domain.StatusOpen,
				XP:          10,
				CreatedBy:   userID,
			}, nil)

		body, _ := json.Marshal(UpdateTicketRequest{
			Title:       "Fix",
			Description: "Short now",
			Priority:    "Low",
			Status:      "Open",
		})
		req := httptest.NewRequest(stdhttp.MethodPut, "/tickets/"+ticketID.String(), bytes.NewReader(body))
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var snapshot domain.TicketSnapshot
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&snapshot))
		assert.Equal(t, "Fix", snapshot.Title)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown status enum gets 422", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		body, _ := json.Marshal(UpdateTicketRequest{
			Title:       "Valid title here",
			Description: "Valid description goes here",
			Priority:    "Low",
			Status:      "Reopened",
		})
		req := httptest.NewRequest(stdhttp.MethodPut, "/tickets/"+ticketID.String(), bytes.NewReader(body))
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)
		mockService.AssertNotCalled(t, "UpdateTicket")
	})
}

func TestCloseTicketEndpoint(t *testing.T) {
	userID := uuid.New()
	ticketID := uuid.New()

	t.Run("closing an already closed ticket returns 409", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		mockService.On("CloseTicket", mock.Anything, ticketID, userID).
			Return(nil, apperrors.ErrTicketAlreadyClosed)

		req := httptest.NewRequest(stdhttp.MethodPost, "/tickets/"+ticketID.String()+"/close", nil)
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusConflict, recorder.Code)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, "TICKET_ALREADY_CLOSED", response.Code)
	})

	t.Run("success returns the closed snapshot", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		mockService.On("CloseTicket", mock.Anything, ticketID, userID).
			Return(&domain.Ticket{
				ID:        ticketID,
				Title:     "Printer on fire",
				Status:    domain.StatusClosed,
				Priority:  domain.PriorityHigh,
				XP:        50,
				CreatedBy: userID,
			}, nil)

		req := httptest.NewRequest(stdhttp.MethodPost, "/tickets/"+ticketID.String()+"/close", nil)
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var snapshot domain.TicketSnapshot
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&snapshot))
		assert.Equal(t, "Closed", snapshot.Status)
	})
}

func TestDeleteTicketEndpoint(t *testing.T) {
	userID := uuid.New()
	ticketID := uuid.New()

	t.Run("owner delete returns 204", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		mockService.On("DeleteTicket", mock.Anything, ticketID, userID).Return(nil)

		req := httptest.NewRequest(stdhttp.MethodDelete, "/tickets/"+ticketID.String(), nil)
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusNoContent, recorder.Code)
	})

	t.Run("garbage ticket id returns 422", func(t *testing.T) {
		mockService := mocks.NewMockTicketService()
		router, tm := newTicketRouter(mockService)

		req := httptest.NewRequest(stdhttp.MethodDelete, "/tickets/not-a-uuid", nil)
		req.Header.Set("Authorization", bearerToken(t, tm, userID))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)
		mockService.AssertNotCalled(t, "DeleteTicket")
	})
}
