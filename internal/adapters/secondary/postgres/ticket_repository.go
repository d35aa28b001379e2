package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
	apperrors "github.com/ticketmania/ticketmania-backend/internal/core/errors"
	"github.com/ticketmania/ticketmania-backend/internal/core/ports"
)

const ticketColumns = `id, title, description, priority, status, xp, created_by, created_by_email, created_at`

type TicketRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

func NewTicketRepository(pool *pgxpool.Pool) ports.TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	const query = `
INSERT INTO tickets (title, description, priority, status, xp, created_by, created_by_email)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + ticketColumns

	row := r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		string(ticket.Priority),
		string(ticket.Status),
		ticket.XP,
		pgtype.UUID{Bytes: ticket.CreatedBy, Valid: true},
		ticket.CreatedByEmail,
	)

	return scanTicket(row)
}

func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const query = `
SELECT ` + ticketColumns + `
FROM tickets
WHERE id = $1
`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, pgtype.UUID{Bytes: id, Valid: true}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	// XP and created_at are immutable once written.
	const query = `
UPDATE tickets
SET title = $2, description = $3, priority = $4, status = $5
WHERE id = $1
RETURNING ` + ticketColumns

	row := r.pool.QueryRow(ctx, query,
		pgtype.UUID{Bytes: ticket.ID, Valid: true},
		ticket.Title,
		ticket.Description,
		string(ticket.Priority),
		string(ticket.Status),
	)

	updated, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *TicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM tickets WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, pgtype.UUID{Bytes: id, Valid: true})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}
	return nil
}

// List returns the full ticket set, newest first. Filtering, searching and
// paging happen in the domain projection, not in SQL.
func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	const query = `
SELECT ` + ticketColumns + `
FROM tickets
ORDER BY created_at DESC, id DESC
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTickets(rows)
}

func (r *TicketRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Ticket, error) {
	const query = `
SELECT ` + ticketColumns + `
FROM tickets
WHERE created_by = $1
ORDER BY created_at DESC, id DESC
`

	rows, err := r.pool.Query(ctx, query, pgtype.UUID{Bytes: userID, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTickets(rows)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		id        pgtype.UUID
		ticket    domain.Ticket
		priority  string
		status    string
		createdBy pgtype.UUID
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&id,
		&ticket.Title,
		&ticket.Description,
		&priority,
		&status,
		&ticket.XP,
		&createdBy,
		&ticket.CreatedByEmail,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	ticket.ID = id.Bytes
	ticket.Priority = domain.TicketPriority(priority)
	ticket.Status = domain.TicketStatus(status)
	ticket.CreatedBy = createdBy.Bytes
	ticket.CreatedAt = createdAt.Time
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]*domain.Ticket, error) {
	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
