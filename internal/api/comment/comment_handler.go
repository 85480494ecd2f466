package comment

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	appMiddleware "github.com/nmtri-dev/goflix/app/middleware"
	"github.com/nmtri-dev/goflix/internal/api"
)

type Handler struct {
	logger *slog.Logger
	repo   CommentRepository
}

func NewCommentHandler(repo CommentRepository, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		repo:   repo,
	}
}

// List handles GET /api/movies/{movieID}/comments, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CommentHandler").Start(r.Context(), "List")
	defer span.End()

	l := h.logger.With(slog.String("method", "List"))

	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid movie id")
		return
	}

	comments, err := h.repo.ListByMovie(ctx, movieID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie not found")
			return
		}
		l.ErrorContext(ctx, "Failed to list comments", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, comments, nil, "")
}

// Create handles POST /api/movies/{movieID}/comments. The author comes from
// the session claims the gate attached, never from the request body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CommentHandler").Start(r.Context(), "Create")
	defer span.End()

	l := h.logger.With(slog.String("method", "Create"))

	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid movie id")
		return
	}

	claims, ok := appMiddleware.GetClaimsFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateCommentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing comment content")
		return
	}

	created, err := h.repo.Create(ctx, movieID, userID, content)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie not found")
			return
		}
		l.ErrorContext(ctx, "Failed to create comment", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusCreated, created, nil, "Comment created")
}
