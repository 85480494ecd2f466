package image

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

var _ ImageRepository = (*PostgresImageRepository)(nil)

type ImageRepository interface {
	List(ctx context.Context, search string, page, limit int) ([]types.Image, int64, error)
	Create(ctx context.Context, req CreateImageRequest) (*types.Image, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status types.Status) error
}

type PostgresImageRepository struct {
	logger *slog.Logger
	db     api.DB
}

func NewImageRepository(db api.DB, logger *slog.Logger) *PostgresImageRepository {
	return &PostgresImageRepository{
		logger: logger,
		db:     db,
	}
}

// List pages through images, newest first. Search tolerates small typos in
// the asset name via levenshtein distance on top of the substring match.
func (r *PostgresImageRepository) List(ctx context.Context, search string, page, limit int) ([]types.Image, int64, error) {
	where := " WHERE status != $1"
	args := []any{types.StatusDeleted}
	if search != "" {
		args = append(args, "%"+search+"%", search)
		where += fmt.Sprintf(
			" AND (name ILIKE $%d OR levenshtein(lower(name), lower($%d)) <= 2)",
			len(args)-1, len(args))
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT count(id) FROM images"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count images: %w", err)
	}

	query := "SELECT id, name, url, status, created_at FROM images" + where +
		fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, (page-1)*limit, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := []types.Image{}
	for rows.Next() {
		var img types.Image
		if err := rows.Scan(&img.ID, &img.Name, &img.URL, &img.Status, &img.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan image row: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("image rows iteration: %w", err)
	}
	return images, total, nil
}

func (r *PostgresImageRepository) Create(ctx context.Context, req CreateImageRequest) (*types.Image, error) {
	var img types.Image
	err := r.db.QueryRow(ctx, `
        INSERT INTO images (name, url, status)
        VALUES ($1, $2, $3)
        RETURNING id, name, url, status, created_at`,
		req.Name, req.URL, types.StatusActive,
	).Scan(&img.ID, &img.Name, &img.URL, &img.Status, &img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert image: %w", err)
	}
	return &img, nil
}

func (r *PostgresImageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status types.Status) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE images SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update image status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}
