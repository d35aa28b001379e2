package domain

import "math"

// DerivedStats are the dashboard aggregates over one user's tickets. They
// are recomputed from the full ticket set on demand, never persisted.
//
// Open and Closed keep their historical meaning (tickets In Progress are in
// neither bucket); InProgress is carried as its own explicit bucket so the
// three always sum to the total.
type DerivedStats struct {
	TotalTickets      int
	OpenTickets       int
	InProgressTickets int
	ClosedTickets     int
	TotalXP           int
	AvgXP             float64
}

// ComputeStats derives the dashboard aggregates from a ticket set.
// AvgXP is rounded to one decimal place and is 0 when there are no tickets.
func ComputeStats(tickets []*Ticket) DerivedStats {
	stats := DerivedStats{TotalTickets: len(tickets)}

	for _, t := range tickets {
		switch t.Status {
		case StatusOpen:
			stats.OpenTickets++
		case StatusInProgress:
			stats.InProgressTickets++
		case StatusClosed:
			stats.ClosedTickets++
		}
		stats.TotalXP += t.XP
	}

	if stats.TotalTickets > 0 {
		avg := float64(stats.TotalXP) / float64(stats.TotalTickets)
		stats.AvgXP = math.Round(avg*10) / 10
	}

	return stats
}
