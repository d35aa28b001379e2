package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/ticketmania/ticketmania-backend/internal/adapters/primary/http/middleware"
	"github.com/ticketmania/ticketmania-backend/internal/auth"
	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
	"github.com/ticketmania/ticketmania-backend/internal/core/ports"
)

// StatsHandler serves the dashboard aggregates.
type StatsHandler struct {
	statsService ports.StatsService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(
	statsService ports.StatsService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "stats"),
	}
}

// RegisterRoutes registers the stats endpoint.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetStats)
}

// StatsResponse is the JSON shape of the dashboard aggregates.
type StatsResponse struct {
	TotalTickets      int     `json:"totalTickets"`
	OpenTickets       int     `json:"openTickets"`
	InProgressTickets int     `json:"inProgressTickets"`
	ClosedTickets     int     `json:"closedTickets"`
	TotalXP           int     `json:"totalXp"`
	AvgXP             float64 `json:"avgXp"`
}

func toStatsResponse(stats domain.DerivedStats) StatsResponse {
	return StatsResponse{
		TotalTickets:      stats.TotalTickets,
		OpenTickets:       stats.OpenTickets,
		InProgressTickets: stats.InProgressTickets,
		ClosedTickets:     stats.ClosedTickets,
		TotalXP:           stats.TotalXP,
		AvgXP:             stats.AvgXP,
	}
}

// HandleGetStats handles GET /stats.
func (h *StatsHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	stats, err := h.statsService.GetStats(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toStatsResponse(stats))
}

// getClaims extracts and validates user claims from the request context.
func (h *StatsHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}
