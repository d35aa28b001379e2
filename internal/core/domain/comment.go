package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ticketmania/ticketmania-backend/internal/core/errors"
)

// Comment is an append-only entry in a ticket's thread. Comments are never
// edited or deleted; they disappear only when their ticket is deleted.
type Comment struct {
	ID             uuid.UUID
	TicketID       uuid.UUID
	Text           string
	CreatedBy      uuid.UUID
	CreatedByEmail string
	CreatedAt      time.Time
}

// CommentParams holds the caller-supplied fields for creating a comment.
type CommentParams struct {
	TicketID       uuid.UUID
	Text           string
	CreatedBy      uuid.UUID
	CreatedByEmail string
}

// NewComment validates and builds a comment. The ID and CreatedAt are
// assigned by the store on persist.
func NewComment(params CommentParams) (*Comment, error) {
	if strings.TrimSpace(params.Text) == "" {
		return nil, apperrors.ErrCommentTextRequired
	}
	if params.TicketID == uuid.Nil {
		return nil, apperrors.ErrTicketNotFound
	}
	if params.CreatedBy == uuid.Nil {
		return nil, apperrors.ErrCreatorRequired
	}

	return &Comment{
		TicketID:       params.TicketID,
		Text:           params.Text,
		CreatedBy:      params.CreatedBy,
		CreatedByEmail: params.CreatedByEmail,
	}, nil
}
