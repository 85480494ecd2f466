package image

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

type Handler struct {
	logger *slog.Logger
	repo   ImageRepository
}

func NewImageHandler(repo ImageRepository, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		repo:   repo,
	}
}

// List handles GET /api/images with search + pagination.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ImageHandler").Start(r.Context(), "List")
	defer span.End()

	l := h.logger.With(slog.String("method", "List"))

	page, limit, _ := api.ParsePageParams(r)
	images, total, err := h.repo.List(ctx, r.URL.Query().Get("search"), page, limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list images", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	pagination := types.NewPagination(total, page, limit)
	api.SuccessResponse(w, r, http.StatusOK, images, &pagination, "")
}

// Create handles POST /api/images. The file itself is uploaded elsewhere;
// this only records the resulting URL.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ImageHandler").Start(r.Context(), "Create")
	defer span.End()

	l := h.logger.With(slog.String("method", "Create"))

	var req CreateImageRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.URL == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}
	if u, err := url.Parse(req.URL); err != nil || u.Scheme == "" || u.Host == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid image URL")
		return
	}

	img, err := h.repo.Create(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create image", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusCreated, img, nil, "Image created successfully")
}

// UpdateStatus handles PUT /api/images/{imageID}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ImageHandler").Start(r.Context(), "UpdateStatus")
	defer span.End()

	l := h.logger.With(slog.String("method", "UpdateStatus"))

	id, err := uuid.Parse(chi.URLParam(r, "imageID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid image id")
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
			api.ErrorResponse(w, r, http.StatusNotFound, "Image not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update image status", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Status update failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, nil, nil, "Status updated successfully")
}
