package episode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

var _ EpisodeRepository = (*PostgresEpisodeRepository)(nil)

type EpisodeRepository interface {
	List(ctx context.Context, f ListFilter) ([]types.Episode, int64, error)
	Create(ctx context.Context, req CreateEpisodeRequest) (*types.Episode, []types.VideoLink, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status types.Status) error
}

type PostgresEpisodeRepository struct {
	logger *slog.Logger
	db     api.DB
}

func NewEpisodeRepository(db api.DB, logger *slog.Logger) *PostgresEpisodeRepository {
	return &PostgresEpisodeRepository{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresEpisodeRepository) List(ctx context.Context, f ListFilter) ([]types.Episode, int64, error) {
	where := " WHERE episodes.status != $1"
	args := []any{types.StatusDeleted}
	if f.MovieID != nil {
		args = append(args, *f.MovieID)
		where += fmt.Sprintf(" AND episodes.movie_id = $%d", len(args))
	}
	if f.ChapterID != nil {
		args = append(args, *f.ChapterID)
		where += fmt.Sprintf(" AND episodes.chapter_id = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND episodes.status = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(
			" AND (episodes.title ILIKE $%d OR episodes.slug ILIKE $%d OR movies.title ILIKE $%d)",
			n, n, n)
	}

	from := `
        FROM episodes
        LEFT JOIN movies ON episodes.movie_id = movies.id
        LEFT JOIN chapters ON episodes.chapter_id = chapters.id
        LEFT JOIN images ON episodes.image_id = images.id`

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT count(episodes.id)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count episodes: %w", err)
	}

	dataQuery := `
        SELECT episodes.id, episodes.movie_id, episodes.chapter_id, episodes.episode_number,
               COALESCE(episodes.title, ''), episodes.slug, episodes.short_description,
               episodes.description, episodes.duration, episodes.image_id, episodes.status,
               episodes.view_count, episodes.unique_viewers,
               episodes.created_at, episodes.updated_at,
               COALESCE(movies.title, '') AS movie_title,
               chapters.title AS chapter_title,
               images.url AS image_url` +
		from + where + fmt.Sprintf(`
        ORDER BY episodes.movie_id ASC, episodes.chapter_id ASC NULLS FIRST, episodes.episode_number ASC
        OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)

	args = append(args, (f.Page-1)*f.Limit, f.Limit)
	rows, err := r.db.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list episodes: %w", err)
	}
	defer rows.Close()

	episodes := []types.Episode{}
	for rows.Next() {
		var e types.Episode
		err := rows.Scan(
			&e.ID, &e.MovieID, &e.ChapterID, &e.EpisodeNumber, &e.Title, &e.Slug,
			&e.ShortDescription, &e.Description, &e.Duration, &e.ImageID, &e.Status,
			&e.ViewCount, &e.UniqueViewers, &e.CreatedAt, &e.UpdatedAt,
			&e.MovieTitle, &e.ChapterTitle, &e.ImageURL,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan episode row: %w", err)
		}
		episodes = append(episodes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("episode rows iteration: %w", err)
	}
	return episodes, total, nil
}

// Create inserts the episode and its video links inside a single
// transaction. If any link insert fails the episode row is rolled back
// with it; a half-created episode is never visible.
func (r *PostgresEpisodeRepository) Create(ctx context.Context, req CreateEpisodeRequest) (*types.Episode, []types.VideoLink, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)", req.MovieID).Scan(&exists)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check movie: %w", err)
	}
	if !exists {
		return nil, nil, fmt.Errorf("movie not found: %w", api.ErrNotFound)
	}

	if req.ChapterID != nil {
		err = tx.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM chapters WHERE id = $1 AND movie_id = $2)",
			*req.ChapterID, req.MovieID).Scan(&exists)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check chapter: %w", err)
		}
		if !exists {
			return nil, nil, fmt.Errorf("chapter not found for this movie: %w", api.ErrNotFound)
		}
	}

	// Standalone movies keep a NULL chapter_id, so plain equality would
	// never match them here.
	err = tx.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM episodes
            WHERE movie_id = $1 AND chapter_id IS NOT DISTINCT FROM $2
              AND (episode_number = $3 OR slug = $4)
        )`,
		req.MovieID, req.ChapterID, req.EpisodeNumber, req.Slug).Scan(&exists)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check episode uniqueness: %w", err)
	}
	if exists {
		return nil, nil, fmt.Errorf("episode number or slug already exists for this parent: %w", api.ErrConflict)
	}

	var e types.Episode
	err = tx.QueryRow(ctx, `
        INSERT INTO episodes (movie_id, chapter_id, episode_number, title, slug,
                              short_description, description, duration, image_id, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, movie_id, chapter_id, episode_number, COALESCE(title, ''), slug,
                  short_description, description, duration, image_id, status,
                  view_count, unique_viewers, created_at, updated_at`,
		req.MovieID, req.ChapterID, req.EpisodeNumber, req.Title, req.Slug,
		req.ShortDescription, req.Description, req.Duration, req.ImageID, types.StatusActive,
	).Scan(&e.ID, &e.MovieID, &e.ChapterID, &e.EpisodeNumber, &e.Title, &e.Slug,
		&e.ShortDescription, &e.Description, &e.Duration, &e.ImageID, &e.Status,
		&e.ViewCount, &e.UniqueViewers, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, nil, fmt.Errorf("episode number or slug already exists: %w", api.ErrConflict)
		}
		return nil, nil, fmt.Errorf("failed to insert episode: %w", err)
	}

	links := make([]types.VideoLink, 0, len(req.VideoLinks))
	for i, link := range req.VideoLinks {
		var vl types.VideoLink
		err = tx.QueryRow(ctx, `
            INSERT INTO videolinks (movie_id, episode_id, link_order, link, status)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id, movie_id, episode_id, link_order, link, status`,
			req.MovieID, e.ID, i+1, link, types.StatusActive,
		).Scan(&vl.ID, &vl.MovieID, &vl.EpisodeID, &vl.LinkOrder, &vl.Link, &vl.Status)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert video link %d: %w", i+1, err)
		}
		links = append(links, vl)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit episode transaction: %w", err)
	}
	return &e, links, nil
}

func (r *PostgresEpisodeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status types.Status) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE episodes SET status = $1, updated_at = now() WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update episode status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}
