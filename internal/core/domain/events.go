package domain

import "github.com/google/uuid"

// EventType defines the type of real-time event.
type EventType string

const (
	EventTicketCreated EventType = "TICKET_CREATED"
	EventTicketUpdated EventType = "TICKET_UPDATED"
	EventTicketDeleted EventType = "TICKET_DELETED"
	EventCommentAdded  EventType = "COMMENT_ADDED"

	// EventPong answers a client-side keep-alive.
	EventPong EventType = "PONG"
)

// EventScope controls how the hub routes an event.
type EventScope string

const (
	// ScopeGlobal fans the event out to every connected client. Ticket
	// collection changes use this: the list and dashboard views follow the
	// whole collection.
	ScopeGlobal EventScope = "global"

	// ScopeTicket fans the event out only to clients subscribed to the
	// ticket's room. Comment additions use this: only the thread view cares.
	ScopeTicket EventScope = "ticket"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type     EventType   `json:"type"`
	TicketID uuid.UUID   `json:"ticketId"`
	Payload  interface{} `json:"payload,omitempty"`
	Scope    EventScope  `json:"-"`
}
