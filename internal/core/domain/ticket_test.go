package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
	apperrors "github.com/ticketmania/ticketmania-backend/internal/core/errors"
)

func TestTicketPriority_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		priority domain.TicketPriority
		want     bool
	}{
		{"Low is valid", domain.PriorityLow, true},
		{"Medium is valid", domain.PriorityMedium, true},
		{"High is valid", domain.PriorityHigh, true},
		{"empty is invalid", domain.TicketPriority(""), false},
		{"Urgent is invalid", domain.TicketPriority("Urgent"), false},
		{"lowercase is invalid", domain.TicketPriority("low"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.priority.IsValid())
		})
	}
}

func TestTicketStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status domain.TicketStatus
		want   bool
	}{
		{"Open is valid", domain.StatusOpen, true},
		{"In Progress is valid", domain.StatusInProgress, true},
		{"Closed is valid", domain.StatusClosed, true},
		{"empty is invalid", domain.TicketStatus(""), false},
		{"Pending is invalid", domain.TicketStatus("Pending"), false},
		{"uppercase is invalid", domain.TicketStatus("OPEN"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestComputeXP(t *testing.T) {
	tests := []struct {
		name     string
		priority domain.TicketPriority
		want     int
	}{
		{"Low awards 10", domain.PriorityLow, 10},
		{"Medium awards 25", domain.PriorityMedium, 25},
		{"High awards 50", domain.PriorityHigh, 50},
		{"unknown falls back to 10", domain.TicketPriority("Critical"), 10},
		{"empty falls back to 10", domain.TicketPriority(""), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ComputeXP(tt.priority))
		})
	}
}

func TestNewTicket(t *testing.T) {
	creatorID := uuid.New()

	tests := []struct {
		name        string
		params      domain.TicketParams
		expectError bool
		errorField  string
	}{
		{
			name: "valid ticket",
			params: domain.TicketParams{
				Title:          "Login broken",
				Description:    "Cannot sign in with valid credentials",
				Priority:       domain.PriorityMedium,
				CreatedBy:      creatorID,
				CreatedByEmail: "alice@example.com",
			},
			expectError: false,
		},
		{
			name: "title exactly at minimum",
			params: domain.TicketParams{
				Title:          "12345",
				Description:    "1234567890",
				Priority:       domain.PriorityLow,
				CreatedBy:      creatorID,
				CreatedByEmail: "alice@example.com",
			},
			expectError: false,
		},
		{
			name: "title too short",
			params: domain.TicketParams{
				Title:          "Bug",
				Description:    "Something is very wrong here",
				Priority:       domain.PriorityMedium,
				CreatedBy:      creatorID,
				CreatedByEmail: "alice@example.com",
			},
			expectError: true,
			errorField:  "title",
		},
		{
			name: "whitespace does not count toward title length",
			params: domain.TicketParams{
				Title:          "  ab  ",
				Description:    "Something is very wrong here",
				Priority:       domain.PriorityMedium,
				CreatedBy:      creatorID,
				CreatedByEmail: "alice@example.com",
			},
			expectError: true,
			errorField:  "title",
		},
		{
			name: "description too short",
			params: domain.TicketParams{
				Title:          "Login broken",
				Description:    "too short",
				Priority:       domain.PriorityMedium,
				CreatedBy:      creatorID,
				CreatedByEmail: "alice@example.com",
			},
			expectError: true,
			errorField:  "description",
		},
		{
			name: "invalid priority",
			params: domain.TicketParams{
				Title:          "Login broken",
				Description:    "Cannot sign in with valid credentials",
				Priority:       domain.TicketPriority("Urgent"),
				CreatedBy:      creatorID,
				CreatedByEmail: "alice@example.com",
			},
			expectError: true,
			errorField:  "priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket, err := domain.NewTicket(tt.params)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, ticket)

				var validationErrs *apperrors.ValidationErrors
				require.ErrorAs(t, err, &validationErrs)
				assert.Contains(t, validationErrs.Errors, tt.errorField)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, ticket)
			assert.Equal(t, domain.StatusOpen, ticket.Status)
			assert.Equal(t, domain.ComputeXP(ticket.Priority), ticket.XP)
			assert.Equal(t, creatorID, ticket.CreatedBy)
		})
	}
}

func TestNewTicket_DefaultsToLowPriority(t *testing.T) {
	ticket, err := domain.NewTicket(domain.TicketParams{
		Title:          "Login broken",
		Description:    "Cannot sign in with valid credentials",
		CreatedBy:      uuid.New(),
		CreatedByEmail: "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLow, ticket.Priority)
	assert.Equal(t, 10, ticket.XP)
}

func TestNewTicket_RequiresCreator(t *testing.T) {
	ticket, err := domain.NewTicket(domain.TicketParams{
		Title:       "Login broken",
		Description: "Cannot sign in with valid credentials",
		Priority:    domain.PriorityHigh,
	})

	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, apperrors.ErrCreatorRequired)
}

func TestTicket_ApplyEdit(t *testing.T) {
	creatorID := uuid.New()

	newTicket := func() *domain.Ticket {
		ticket, err := domain.NewTicket(domain.TicketParams{
			Title:          "Login broken",
			Description:    "Cannot sign in with valid credentials",
			Priority:       domain.PriorityHigh,
			CreatedBy:      creatorID,
			CreatedByEmail: "alice@example.com",
		})
		require.NoError(t, err)
		return ticket
	}

	t.Run("edit updates the four editable fields", func(t *testing.T) {
		ticket := newTicket()

		err := ticket.ApplyEdit(domain.TicketEdit{
			Title:       "Login still broken",
			Description: "Reproduces on every browser",
			Priority:    domain.PriorityMedium,
			Status:      domain.StatusInProgress,
		})

		require.NoError(t, err)
		assert.Equal(t, "Login still broken", ticket.Title)
		assert.Equal(t, "Reproduces on every browser", ticket.Description)
		assert.Equal(t, domain.PriorityMedium, ticket.Priority)
		assert.Equal(t, domain.StatusInProgress, ticket.Status)
	})

	t.Run("editing priority never changes xp", func(t *testing.T) {
		ticket := newTicket()
		require.Equal(t, 50, ticket.XP)

		err := ticket.ApplyEdit(domain.TicketEdit{
			Title:       ticket.Title,
			Description: ticket.Description,
			Priority:    domain.PriorityLow,
			Status:      ticket.Status,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PriorityLow, ticket.Priority)
		assert.Equal(t, 50, ticket.XP, "xp is fixed at creation time")
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		ticket := newTicket()

		err := ticket.ApplyEdit(domain.TicketEdit{
			Title:       ticket.Title,
			Description: ticket.Description,
			Priority:    ticket.Priority,
			Status:      domain.TicketStatus("Archived"),
		})

		require.Error(t, err)
		var validationErrs *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.Errors, "status")
	})

	t.Run("edits may shorten title below the creation minimum", func(t *testing.T) {
		ticket := newTicket()

		err := ticket.ApplyEdit(domain.TicketEdit{
			Title:       "Bug",
			Description: "x",
			Priority:    ticket.Priority,
			Status:      ticket.Status,
		})

		require.NoError(t, err)
		assert.Equal(t, "Bug", ticket.Title)
	})
}

func TestTicket_Close(t *testing.T) {
	ticket, err := domain.NewTicket(domain.TicketParams{
		Title:          "Login broken",
		Description:    "Cannot sign in with valid credentials",
		Priority:       domain.PriorityMedium,
		CreatedBy:      uuid.New(),
		CreatedByEmail: "alice@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, ticket.Close())
	assert.Equal(t, domain.StatusClosed, ticket.Status)

	err = ticket.Close()
	assert.ErrorIs(t, err, apperrors.ErrTicketAlreadyClosed)
}

func TestTicket_IsOwnedBy(t *testing.T) {
	owner := uuid.New()
	ticket := &domain.Ticket{CreatedBy: owner}

	assert.True(t, ticket.IsOwnedBy(owner))
	assert.False(t, ticket.IsOwnedBy(uuid.New()))
}

func TestNewComment(t *testing.T) {
	ticketID := uuid.New()
	authorID := uuid.New()

	t.Run("valid comment", func(t *testing.T) {
		comment, err := domain.NewComment(domain.CommentParams{
			TicketID:       ticketID,
			Text:           "Looking into it",
			CreatedBy:      authorID,
			CreatedByEmail: "bob@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, ticketID, comment.TicketID)
		assert.Equal(t, "Looking into it", comment.Text)
	})

	t.Run("blank text rejected", func(t *testing.T) {
		_, err := domain.NewComment(domain.CommentParams{
			TicketID:  ticketID,
			Text:      "   ",
			CreatedBy: authorID,
		})

		assert.ErrorIs(t, err, apperrors.ErrCommentTextRequired)
	})

	t.Run("missing ticket rejected", func(t *testing.T) {
		_, err := domain.NewComment(domain.CommentParams{
			Text:      "Looking into it",
			CreatedBy: authorID,
		})

		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})
}
