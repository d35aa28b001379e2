package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/ticketmania/ticketmania-backend/internal/adapters/primary/http/middleware"
	"github.com/ticketmania/ticketmania-backend/internal/adapters/primary/validation"
	"github.com/ticketmania/ticketmania-backend/internal/auth"
	"github.com/ticketmania/ticketmania-backend/internal/core/domain"
	"github.com/ticketmania/ticketmania-backend/internal/core/ports"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	commentService ports.CommentService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(
	commentService ports.CommentService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "comment"),
	}
}

// Router sets up a new chi Router for comment routes.
func (h *CommentHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers the comment-specific endpoints.
// These routes are relative to /api/v1/tickets/{ticketID}/comments
func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleCreateComment)
	r.Get("/", h.HandleListComments)
}

// --- Request DTOs ---

// CreateCommentRequest defines the expected JSON body for creating a comment
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// Validate validates the create comment request
func (r *CreateCommentRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("text", r.Text)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

func toCommentDTOs(comments []*domain.Comment) []domain.CommentSnapshot {
	response := make([]domain.CommentSnapshot, 0, len(comments))
	for _, comment := range comments {
		response = append(response, domain.NewCommentSnapshot(comment))
	}
	return response
}

// --- Handlers ---

// HandleCreateComment handles requests to create a new comment.
func (h *CommentHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CreateCommentRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateCommentParams{
		TicketID:   ticketID,
		Text:       req.Text,
		ActorID:    claims.UserID,
		ActorEmail: claims.Email,
	}

	comment, err := h.commentService.CreateComment(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("comment created",
		"comment_id", comment.ID,
		"ticket_id", ticketID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, domain.NewCommentSnapshot(comment))
}

// HandleListComments handles requests to list comments for a ticket,
// oldest first.
func (h *CommentHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	ticketID, err := h.parseTicketID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	comments, err := h.commentService.GetCommentsForTicket(r.Context(), ticketID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toCommentDTOs(comments))
}

// --- Helper methods ---

// getClaims extracts and validates user claims from the request context
func (h *CommentHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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

// parseTicketID extracts and validates the ticket ID from the URL
func (h *CommentHandler) parseTicketID(r *http.Request) (uuid.UUID, error) {
	ticketIDStr := chi.URLParam(r, "ticketID")
	ticketID, err := uuid.Parse(ticketIDStr)
	if err != nil {
		v := validation.NewValidator()
		v.Custom("ticketID", false, "Invalid ticket ID")
		return uuid.Nil, v.Errors()
	}
	return ticketID, nil
}
