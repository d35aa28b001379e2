package domain

import "time"

// TicketSnapshot matches the API response shape for tickets and is the
// payload of ticket-scoped events.
type TicketSnapshot struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	XP             int    `json:"xp"`
	CreatedBy      string `json:"createdBy"`
	CreatedByEmail string `json:"createdByEmail"`
	CreatedAt      string `json:"createdAt"`
}

// CommentSnapshot matches the API response shape for comments.
type CommentSnapshot struct {
	ID             string `json:"id"`
	TicketID       string `json:"ticketId"`
	Text           string `json:"text"`
	CreatedBy      string `json:"createdBy"`
	CreatedByEmail string `json:"createdByEmail"`
	CreatedAt      string `json:"createdAt"`
}

// NewTicketSnapshot builds a ticket snapshot from a domain ticket.
func NewTicketSnapshot(ticket *Ticket) TicketSnapshot {
	return TicketSnapshot{
		ID:             ticket.ID.String(),
		Title:          ticket.Title,
		Description:    ticket.Description,
		Priority:       string(ticket.Priority),
		Status:         string(ticket.Status),
		XP:             ticket.XP,
		CreatedBy:      ticket.CreatedBy.String(),
		CreatedByEmail: ticket.CreatedByEmail,
		CreatedAt:      ticket.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewCommentSnapshot builds a comment snapshot from a domain comment.
func NewCommentSnapshot(comment *Comment) CommentSnapshot {
	return CommentSnapshot{
		ID:             comment.ID.String(),
		TicketID:       comment.TicketID.String(),
		Text:           comment.Text,
		CreatedBy:      comment.CreatedBy.String(),
		CreatedByEmail: comment.CreatedByEmail,
		CreatedAt:      comment.CreatedAt.UTC().Format(time.RFC3339),
	}
}
