package chapter

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
	repo   ChapterRepository
}

func NewChapterHandler(repo ChapterRepository, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		repo:   repo,
	}
}

// List handles GET /api/chapters. Accepts optional movie_id and search
// query params alongside page/limit.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChapterHandler").Start(r.Context(), "List")
	defer span.End()

	l := h.logger.With(slog.String("method", "List"))

	page, limit, _ := api.ParsePageParams(r)
	filter := ListFilter{
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	}
	if raw := r.URL.Query().Get("movie_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid movie id")
			return
		}
		filter.MovieID = &id
	}

	chapters, total, err := h.repo.List(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list chapters", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	pagination := types.NewPagination(total, page, limit)
	api.SuccessResponse(w, r, http.StatusOK, chapters, &pagination, "")
}

// Create handles POST /api/chapters.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChapterHandler").Start(r.Context(), "Create")
	defer span.End()

	l := h.logger.With(slog.String("method", "Create"))

	var req CreateChapterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.MovieID == uuid.Nil || req.Title == "" || req.Slug == "" || req.ChapterNumber <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}

	c, err := h.repo.Create(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie not found")
			return
		case errors.Is(err, api.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Chapter number or slug already exists for this movie")
			return
		}
		l.ErrorContext(ctx, "Failed to create chapter", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	l.InfoContext(ctx, "Chapter created",
		slog.String("chapter_id", c.ID.String()),
		slog.String("movie_id", c.MovieID.String()))
	api.SuccessResponse(w, r, http.StatusCreated, c, nil, "Chapter created successfully")
}

// UpdateStatus handles PUT /api/chapters/{chapterID}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChapterHandler").Start(r.Context(), "UpdateStatus")
	defer span.End()

	l := h.logger.With(slog.String("method", "UpdateStatus"))

	id, err := uuid.Parse(chi.URLParam(r, "chapterID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid chapter id")
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
			api.ErrorResponse(w, r, http.StatusNotFound, "Chapter not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update chapter status", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Status update failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, nil, nil, "Status updated successfully")
}

// SelectOptions handles GET /api/chapters/select for the CMS dropdowns.
func (h *Handler) SelectOptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChapterHandler").Start(r.Context(), "SelectOptions")
	defer span.End()

	l := h.logger.With(slog.String("method", "SelectOptions"))

	options, err := h.repo.SelectOptions(ctx, r.URL.Query().Get("search"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to load chapter options", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Options failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, options, nil, "")
}
