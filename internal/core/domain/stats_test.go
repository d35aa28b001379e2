package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
)

func TestComputeStats(t *testing.T) {
	t.Run("empty set yields zero stats", func(t *testing.T) {
		stats := domain.ComputeStats(nil)

		assert.Equal(t, 0, stats.TotalTickets)
		assert.Equal(t, 0, stats.TotalXP)
		assert.Equal(t, 0.0, stats.AvgXP)
	})

	t.Run("counts and xp over a mixed set", func(t *testing.T) {
		tickets := []*domain.Ticket{
			{Status: domain.StatusOpen, XP: 10},
			{Status: domain.StatusInProgress, XP: 25},
			{Status: domain.StatusClosed, XP: 50},
		}

		stats := domain.ComputeStats(tickets)

		assert.Equal(t, 3, stats.TotalTickets)
		assert.Equal(t, 1, stats.OpenTickets)
		assert.Equal(t, 1, stats.InProgressTickets)
		assert.Equal(t, 1, stats.ClosedTickets)
		assert.Equal(t, 85, stats.TotalXP)
		assert.Equal(t, 28.3, stats.AvgXP, "85/3 rounded to one decimal")
	})

	t.Run("buckets always sum to the total", func(t *testing.T) {
		tickets := []*domain.Ticket{
			{Status: domain.StatusOpen, XP: 10},
			{Status: domain.StatusInProgress, XP: 25},
			{Status: domain.StatusInProgress, XP: 25},
			{Status: domain.StatusClosed, XP: 50},
		}

		stats := domain.ComputeStats(tickets)

		assert.Equal(t, stats.TotalTickets,
			stats.OpenTickets+stats.InProgressTickets+stats.ClosedTickets)
	})

	t.Run("in progress tickets are neither open nor closed", func(t *testing.T) {
		tickets := []*domain.Ticket{
			{Status: domain.StatusInProgress, XP: 25},
		}

		stats := domain.ComputeStats(tickets)

		assert.Equal(t, 0, stats.OpenTickets)
		assert.Equal(t, 0, stats.ClosedTickets)
		assert.Equal(t, 1, stats.InProgressTickets)
	})

	t.Run("average over a uniform set is exact", func(t *testing.T) {
		tickets := []*domain.Ticket{
			{Status: domain.StatusOpen, XP: 50},
			{Status: domain.StatusOpen, XP: 50},
		}

		stats := domain.ComputeStats(tickets)

		assert.Equal(t, 100, stats.TotalXP)
		assert.Equal(t, 50.0, stats.AvgXP)
	})
}
