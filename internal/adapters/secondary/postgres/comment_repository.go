package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
	apperrors "github.com/ticketmania/ticketmania-backend/internal/core/errors"
	"github.com/ticketmania/ticketmania-backend/internal/core/ports"
)

// foreignKeyViolation is the Postgres error code for FK constraint violations.
const foreignKeyViolation = "23503"

type CommentRepository struct {
	pool *pgxpool.Pool
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(pool *pgxpool.Pool) ports.CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	const query = `
INSERT INTO comments (ticket_id, text, created_by, created_by_email)
VALUES ($1, $2, $3, $4)
RETURNING id, ticket_id, text, created_by, created_by_email, created_at
`

	row := r.pool.QueryRow(ctx, query,
		pgtype.UUID{Bytes: comment.TicketID, Valid: true},
		comment.Text,
		pgtype.UUID{Bytes: comment.CreatedBy, Valid: true},
		comment.CreatedByEmail,
	)

	created, err := scanComment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}
	return created, nil
}

// ListByTicketID returns a ticket's comments oldest first, the order the
// thread view renders them in.
func (r *CommentRepository) ListByTicketID(ctx context.Context, ticketID uuid.UUID) ([]*domain.Comment, error) {
	const query = `
SELECT id, ticket_id, text, created_by, created_by_email, created_at
FROM comments
WHERE ticket_id = $1
ORDER BY created_at ASC, id ASC
`

	rows, err := r.pool.Query(ctx, query, pgtype.UUID{Bytes: ticketID, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var (
		id        pgtype.UUID
		comment   domain.Comment
		ticketID  pgtype.UUID
		createdBy pgtype.UUID
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&id,
		&ticketID,
		&comment.Text,
		&createdBy,
		&comment.CreatedByEmail,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	comment.ID = id.Bytes
	comment.TicketID = ticketID.Bytes
	comment.CreatedBy = createdBy.Bytes
	comment.CreatedAt = createdAt.Time
	return &comment, nil
}
