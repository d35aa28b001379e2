package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
	"github.com/ticketmania/ticketmania-backend/internal/core/ports"
)

// StatsService derives dashboard statistics from a user's tickets
type StatsService struct {
	ticketRepo ports.TicketRepository
}

var _ ports.StatsService = (*StatsService)(nil)

// NewStatsService creates a new stats service
func NewStatsService(ticketRepo ports.TicketRepository) ports.StatsService {
	return &StatsService{ticketRepo: ticketRepo}
}

// GetStats computes counts and XP totals over every ticket the user created,
// regardless of any list view filter in effect.
func (s *StatsService) GetStats(ctx context.Context, userID uuid.UUID) (domain.DerivedStats, error) {
	tickets, err := s.ticketRepo.ListByCreator(ctx, userID)
	if err != nil {
		return domain.DerivedStats{}, err
	}

	return domain.ComputeStats(tickets), nil
}
