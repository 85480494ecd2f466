package episode

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

type Handler struct {
	logger *slog.Logger
	repo   EpisodeRepository
}

func NewEpisodeHandler(repo EpisodeRepository, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		repo:   repo,
	}
}

// List handles GET /api/episodes. Accepts optional movie_id, chapter_id and
// search query params alongside page/limit.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("EpisodeHandler").Start(r.Context(), "List")
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
	if raw := r.URL.Query().Get("chapter_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid chapter id")
			return
		}
		filter.ChapterID = &id
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !types.Status(n).Valid() {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid status value")
			return
		}
		filter.Status = &n
	}

	episodes, total, err := h.repo.List(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list episodes", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	pagination := types.NewPagination(total, page, limit)
	api.SuccessResponse(w, r, http.StatusOK, episodes, &pagination, "")
}

// Create handles POST /api/episodes. The episode and its video links are
// written atomically.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("EpisodeHandler").Start(r.Context(), "Create")
	defer span.End()

	l := h.logger.With(slog.String("method", "Create"))

	var req CreateEpisodeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.MovieID == uuid.Nil || req.Slug == "" || req.EpisodeNumber <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}
	if len(req.VideoLinks) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "At least one video link is required")
		return
	}
	for _, link := range req.VideoLinks {
		if link == "" {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Video links must not be empty")
			return
		}
	}

	e, links, err := h.repo.Create(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Movie or chapter not found")
			return
		case errors.Is(err, api.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Episode number or slug already exists")
			return
		}
		l.ErrorContext(ctx, "Failed to create episode", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	l.InfoContext(ctx, "Episode created",
		slog.String("episode_id", e.ID.String()),
		slog.String("movie_id", e.MovieID.String()),
		slog.Int("video_links", len(links)))

	payload := struct {
		Episode    *types.Episode    `json:"episode"`
		VideoLinks []types.VideoLink `json:"video_links"`
	}{Episode: e, VideoLinks: links}
	api.SuccessResponse(w, r, http.StatusCreated, payload, nil, "Episode created successfully")
}

// UpdateStatus handles PUT /api/episodes/{episodeID}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("EpisodeHandler").Start(r.Context(), "UpdateStatus")
	defer span.End()

	l := h.logger.With(slog.String("method", "UpdateStatus"))

	id, err := uuid.Parse(chi.URLParam(r, "episodeID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid episode id")
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
			api.ErrorResponse(w, r, http.StatusNotFound, "Episode not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update episode status", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Status update failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, nil, nil, "Status updated successfully")
}
