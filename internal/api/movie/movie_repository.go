package movie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/patrickmn/go-cache"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

var _ MovieRepository = (*PostgresMovieRepository)(nil)

type MovieRepository interface {
	List(ctx context.Context, page, limit int) ([]types.Movie, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*MovieDetail, error)
	Create(ctx context.Context, req CreateMovieRequest) (*types.Movie, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateMovieRequest) (*types.Movie, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status types.Status) error
	SelectOptions(ctx context.Context, search string) ([]types.SelectOption, error)
}

type PostgresMovieRepository struct {
	logger  *slog.Logger
	db      api.DB
	options *cache.Cache // CMS dropdown options, invalidated on any write
}

func NewMovieRepository(db api.DB, logger *slog.Logger) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		logger:  logger,
		db:      db,
		options: cache.New(5*time.Minute, 10*time.Minute),
	}
}

const movieColumns = `id, title, slug, short_description, description, release_year,
       duration, type, image_id, status, view_count, unique_viewers, created_at, updated_at`

func scanMovie(row pgx.Row) (*types.Movie, error) {
	var m types.Movie
	err := row.Scan(
		&m.ID, &m.Title, &m.Slug, &m.ShortDescription, &m.Description, &m.ReleaseYear,
		&m.Duration, &m.Type, &m.ImageID, &m.Status, &m.ViewCount, &m.UniqueViewers,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan movie row: %w", err)
	}
	return &m, nil
}

func (r *PostgresMovieRepository) List(ctx context.Context, page, limit int) ([]types.Movie, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		"SELECT count(id) FROM movies WHERE status != $1", types.StatusDeleted,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM movies
        WHERE status != $1
        ORDER BY created_at DESC
        OFFSET $2 LIMIT $3`, movieColumns)

	rows, err := r.db.Query(ctx, query, types.StatusDeleted, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]types.Movie, 0, limit)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("movie rows iteration: %w", err)
	}
	return movies, total, nil
}

func (r *PostgresMovieRepository) GetByID(ctx context.Context, id uuid.UUID) (*MovieDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM movies WHERE id = $1 AND status != $2", movieColumns)
	m, err := scanMovie(r.db.QueryRow(ctx, query, id, types.StatusDeleted))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
        SELECT id, movie_id, chapter_id, episode_number, title, slug, short_description,
               description, duration, image_id, status, view_count, unique_viewers,
               created_at, updated_at
        FROM episodes
        WHERE movie_id = $1
        ORDER BY episode_number ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie episodes: %w", err)
	}
	defer rows.Close()

	detail := &MovieDetail{Movie: *m, Episodes: []types.Episode{}}
	for rows.Next() {
		var e types.Episode
		err := rows.Scan(
			&e.ID, &e.MovieID, &e.ChapterID, &e.EpisodeNumber, &e.Title, &e.Slug,
			&e.ShortDescription, &e.Description, &e.Duration, &e.ImageID, &e.Status,
			&e.ViewCount, &e.UniqueViewers, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan episode row: %w", err)
		}
		detail.Episodes = append(detail.Episodes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("episode rows iteration: %w", err)
	}
	return detail, nil
}

func (r *PostgresMovieRepository) Create(ctx context.Context, req CreateMovieRequest) (*types.Movie, error) {
	status := types.StatusActive
	if req.Status != nil && types.Status(*req.Status).Valid() {
		status = types.Status(*req.Status)
	}
	movieType := req.Type
	if movieType == "" {
		movieType = "movie"
	}

	query := fmt.Sprintf(`
        INSERT INTO movies (title, slug, short_description, description, release_year,
                            duration, type, image_id, status, view_count, unique_viewers)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0)
        RETURNING %s`, movieColumns)

	m, err := scanMovie(r.db.QueryRow(ctx, query,
		req.Title, req.Slug, req.ShortDescription, req.Description, req.ReleaseYear,
		req.Duration, movieType, req.ImageID, status,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("movie slug already exists: %w", api.ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert movie: %w", err)
	}

	r.options.Flush()
	return m, nil
}

func (r *PostgresMovieRepository) Update(ctx context.Context, id uuid.UUID, req UpdateMovieRequest) (*types.Movie, error) {
	query := fmt.Sprintf(`
        UPDATE movies SET
            title             = COALESCE($2, title),
            slug              = COALESCE($3, slug),
            short_description = COALESCE($4, short_description),
            description       = COALESCE($5, description),
            release_year      = COALESCE($6, release_year),
            duration          = COALESCE($7, duration),
            type              = COALESCE($8, type),
            image_id          = COALESCE($9, image_id),
            updated_at        = now()
        WHERE id = $1
        RETURNING %s`, movieColumns)

	m, err := scanMovie(r.db.QueryRow(ctx, query, id,
		req.Title, req.Slug, req.ShortDescription, req.Description,
		req.ReleaseYear, req.Duration, req.Type, req.ImageID,
	))
	if err != nil {
		return nil, err
	}

	r.options.Flush()
	return m, nil
}

func (r *PostgresMovieRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status types.Status) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE movies SET status = $1, updated_at = now() WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update movie status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	r.options.Flush()
	return nil
}

// SelectOptions returns id+title pairs for the CMS dropdowns. Results are
// cached briefly since the back office polls this on every form open.
func (r *PostgresMovieRepository) SelectOptions(ctx context.Context, search string) ([]types.SelectOption, error) {
	cacheKey := "movie-select:" + search
	if cached, found := r.options.Get(cacheKey); found {
		return cached.([]types.SelectOption), nil
	}

	query := `
        SELECT id, title
        FROM movies
        WHERE status != $1`
	args := []any{types.StatusDeleted}
	if search != "" {
		query += " AND title ILIKE $2"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie options: %w", err)
	}
	defer rows.Close()

	options := []types.SelectOption{}
	for rows.Next() {
		var o types.SelectOption
		if err := rows.Scan(&o.ID, &o.Title); err != nil {
			return nil, fmt.Errorf("failed to scan movie option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("movie option rows iteration: %w", err)
	}

	r.options.Set(cacheKey, options, cache.DefaultExpiration)
	return options, nil
}
