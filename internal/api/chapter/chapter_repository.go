package chapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

var _ ChapterRepository = (*PostgresChapterRepository)(nil)

type ChapterRepository interface {
	List(ctx context.Context, f ListFilter) ([]types.Chapter, int64, error)
	Create(ctx context.Context, req CreateChapterRequest) (*types.Chapter, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status types.Status) error
	SelectOptions(ctx context.Context, search string) ([]types.SelectOption, error)
}

type PostgresChapterRepository struct {
	logger *slog.Logger
	db     api.DB
}

func NewChapterRepository(db api.DB, logger *slog.Logger) *PostgresChapterRepository {
	return &PostgresChapterRepository{
		logger: logger,
		db:     db,
	}
}

// List fetches the row count and the page concurrently, the way the listing
// was always served. Both queries share the same filters.
func (r *PostgresChapterRepository) List(ctx context.Context, f ListFilter) ([]types.Chapter, int64, error) {
	where := " WHERE chapters.status != $1"
	args := []any{types.StatusDeleted}
	if f.MovieID != nil {
		args = append(args, *f.MovieID)
		where += fmt.Sprintf(" AND chapters.movie_id = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(
			" AND (chapters.title ILIKE $%d OR CAST(chapters.chapter_number AS TEXT) ILIKE $%d OR movies.title ILIKE $%d)",
			n, n, n)
	}

	var (
		total    int64
		chapters []types.Chapter
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		countQuery := `
            SELECT count(chapters.id)
            FROM chapters
            LEFT JOIN movies ON chapters.movie_id = movies.id` + where
		if err := r.db.QueryRow(gCtx, countQuery, args...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count chapters: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		dataQuery := `
            SELECT chapters.id, chapters.movie_id, chapters.chapter_number, chapters.title,
                   chapters.slug, chapters.description, chapters.status,
                   chapters.created_at, chapters.updated_at,
                   COALESCE(movies.title, '') AS movie_title
            FROM chapters
            LEFT JOIN movies ON chapters.movie_id = movies.id` + where + fmt.Sprintf(`
            ORDER BY chapters.movie_id ASC, chapters.chapter_number ASC
            OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)

		dataArgs := append(append([]any{}, args...), (f.Page-1)*f.Limit, f.Limit)
		rows, err := r.db.Query(gCtx, dataQuery, dataArgs...)
		if err != nil {
			return fmt.Errorf("failed to list chapters: %w", err)
		}
		defer rows.Close()

		chapters = []types.Chapter{}
		for rows.Next() {
			var c types.Chapter
			err := rows.Scan(
				&c.ID, &c.MovieID, &c.ChapterNumber, &c.Title, &c.Slug, &c.Description,
				&c.Status, &c.CreatedAt, &c.UpdatedAt, &c.MovieTitle,
			)
			if err != nil {
				return fmt.Errorf("failed to scan chapter row: %w", err)
			}
			chapters = append(chapters, c)
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return chapters, total, nil
}

// Create validates the parent movie and per-movie uniqueness of chapter
// number and slug before inserting.
func (r *PostgresChapterRepository) Create(ctx context.Context, req CreateChapterRequest) (*types.Chapter, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)", req.MovieID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check movie: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("movie not found: %w", api.ErrNotFound)
	}

	err = r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM chapters WHERE movie_id = $1 AND chapter_number = $2)",
		req.MovieID, req.ChapterNumber).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check chapter number: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("chapter number already exists for this movie: %w", api.ErrConflict)
	}

	err = r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM chapters WHERE movie_id = $1 AND slug = $2)",
		req.MovieID, req.Slug).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check chapter slug: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("slug already exists for this movie: %w", api.ErrConflict)
	}

	var c types.Chapter
	err = r.db.QueryRow(ctx, `
        INSERT INTO chapters (movie_id, chapter_number, title, slug, description, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, movie_id, chapter_number, title, slug, description, status, created_at, updated_at`,
		req.MovieID, req.ChapterNumber, req.Title, req.Slug, req.Description, types.StatusActive,
	).Scan(&c.ID, &c.MovieID, &c.ChapterNumber, &c.Title, &c.Slug, &c.Description,
		&c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("chapter number or slug already exists: %w", api.ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert chapter: %w", err)
	}
	return &c, nil
}

func (r *PostgresChapterRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status types.Status) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE chapters SET status = $1, updated_at = now() WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update chapter status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}

func (r *PostgresChapterRepository) SelectOptions(ctx context.Context, search string) ([]types.SelectOption, error) {
	query := `
        SELECT id, title
        FROM chapters
        WHERE status != $1`
	args := []any{types.StatusDeleted}
	if search != "" {
		query += " AND title ILIKE $2"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load chapter options: %w", err)
	}
	defer rows.Close()

	options := []types.SelectOption{}
	for rows.Next() {
		var o types.SelectOption
		if err := rows.Scan(&o.ID, &o.Title); err != nil {
			return nil, fmt.Errorf("failed to scan chapter option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chapter option rows iteration: %w", err)
	}
	return options, nil
}
