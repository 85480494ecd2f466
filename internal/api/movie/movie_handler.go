package movie

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
	repo   MovieRepository
}

func NewMovieHandler(repo MovieRepository, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		repo:   repo,
	}
}

// List handles GET /api/movies with page/limit pagination, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MovieHandler").Start(r.Context(), "List")
	defer span.End()

	l := h.logger.With(slog.String("method", "List"))

	page, limit, _ := api.ParsePageParams(r)
	movies, total, err := h.repo.List(ctx, page, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list movies", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	pagination := types.NewPagination(total, page, limit)
	api.SuccessResponse(w, r, http.StatusOK, movies, &pagination, "")
}

// Get handles GET /api/movies/{movieID}, returning the movie with its episodes.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MovieHandler").Start(r.Context(), "Get")
	defer span.End()

	l := h.logger.With(slog.String("method", "Get"))

	id, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid movie id")
		return
	}

	detail, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie not found")
			return
		}
		l.ErrorContext(ctx, "Failed to load movie", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Get failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, detail, nil, "")
}

// Create handles POST /api/movies.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MovieHandler").Start(r.Context(), "Create")
	defer span.End()

	l := h.logger.With(slog.String("method", "Create"))

	var req CreateMovieRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" || req.Slug == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}

	m, err := h.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusConflict, "Slug already exists")
			return
		}
		l.ErrorContext(ctx, "Failed to create movie", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	l.InfoContext(ctx, "Movie created", slog.String("movie_id", m.ID.String()))
	api.SuccessResponse(w, r, http.StatusCreated, m, nil, "Movie created successfully")
}

// Update handles PUT /api/movies/{movieID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MovieHandler").Start(r.Context(), "Update")
	defer span.End()

	l := h.logger.With(slog.String("method", "Update"))

	id, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid movie id")
		return
	}

	var req UpdateMovieRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.repo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update movie", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, m, nil, "Movie updated successfully")
}

// UpdateStatus handles PUT /api/movies/{movieID}/status. Soft delete goes
// through here; rows are never physically removed.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MovieHandler").Start(r.Context(), "UpdateStatus")
	defer span.End()

	l := h.logger.With(slog.String("method", "UpdateStatus"))

	id, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid movie id")
		return
	}

	var req UpdateStatusRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	status := types.Status(req.Status)
	if !status.Valid() {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid status value")
		return
	}

	if err := h.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update movie status", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Status update failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, nil, nil, "Status updated successfully")
}

// SelectOptions handles GET /api/movies/select for the CMS dropdowns.
func (h *Handler) SelectOptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MovieHandler").Start(r.Context(), "SelectOptions")
	defer span.End()

	l := h.logger.With(slog.String("method", "SelectOptions"))

	options, err := h.repo.SelectOptions(ctx, r.URL.Query().Get("search"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to load movie options", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Options failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, options, nil, "")
}
