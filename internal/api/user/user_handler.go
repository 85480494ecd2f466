package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

type Handler struct {
	logger *slog.Logger
	repo   UserRepository
}

func NewUserHandler(repo UserRepository, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		repo:   repo,
	}
}

// List handles GET /api/users for the CMS user table.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "List")
	defer span.End()

	l := h.logger.With(slog.String("method", "List"))

	page, limit, _ := api.ParsePageParams(r)
	users, total, err := h.repo.List(ctx, r.URL.Query().Get("search"), page, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	pagination := types.NewPagination(total, page, limit)
	api.SuccessResponse(w, r, http.StatusOK, users, &pagination, "")
}

// ListFavorites handles GET /api/users/{userID}/favorites.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "ListFavorites")
	defer span.End()

	l := h.logger.With(slog.String("method", "ListFavorites"))

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}

	favorites, err := h.repo.ListFavorites(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list favorites", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "ListFavorites failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, favorites, nil, "")
}

// AddFavorite handles POST /api/users/{userID}/favorites.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "AddFavorite")
	defer span.End()

	l := h.logger.With(slog.String("method", "AddFavorite"))

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req AddFavoriteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.MovieID == uuid.Nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing movie id")
		return
	}

	if err := h.repo.AddFavorite(ctx, userID, req.MovieID); err != nil {
		switch {
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie not found")
			return
		case errors.Is(err, api.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Movie already in favorites")
			return
		}
		l.ErrorContext(ctx, "Failed to add favorite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "AddFavorite failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusCreated, nil, nil, "Favorite added")
}

// RemoveFavorite handles DELETE /api/users/{userID}/favorites/{movieID}.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "RemoveFavorite")
	defer span.End()

	l := h.logger.With(slog.String("method", "RemoveFavorite"))

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid movie id")
		return
	}

	if err := h.repo.RemoveFavorite(ctx, userID, movieID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Favorite not found")
			return
		}
		l.ErrorContext(ctx, "Failed to remove favorite", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "RemoveFavorite failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
