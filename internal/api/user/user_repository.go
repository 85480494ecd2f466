package user

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

var _ UserRepository = (*PostgresUserRepository)(nil)

type UserRepository interface {
	List(ctx context.Context, search string, page, limit int) ([]UserSummary, int64, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.FavoriteMovie, error)
	AddFavorite(ctx context.Context, userID, movieID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, movieID uuid.UUID) error
}

type PostgresUserRepository struct {
	logger *slog.Logger
	db     api.DB
}

func NewUserRepository(db api.DB, logger *slog.Logger) *PostgresUserRepository {
	return &PostgresUserRepository{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresUserRepository) List(ctx context.Context, search string, page, limit int) ([]UserSummary, int64, error) {
	where := " WHERE users.status != $1"
	args := []any{types.StatusDeleted}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		where += fmt.Sprintf(
			" AND (users.username ILIKE $%d OR users.email ILIKE $%d OR users.full_name ILIKE $%d)",
			n, n, n)
	}

	var total int64
	countQuery := "SELECT count(users.id) FROM users" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `
        SELECT users.id, users.username, users.email, users.full_name,
               COALESCE(roles.name, 'user'), users.status, users.created_at
        FROM users
        LEFT JOIN roles ON users.role_id = roles.id` + where + fmt.Sprintf(`
        ORDER BY users.created_at DESC
        OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, (page-1)*limit, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []UserSummary{}
	for rows.Next() {
		var u UserSummary
		err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.RoleName, &u.Status, &u.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("user rows iteration: %w", err)
	}
	return users, total, nil
}

func (r *PostgresUserRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.FavoriteMovie, error) {
	rows, err := r.db.Query(ctx, `
        SELECT movies.id, movies.title, movies.slug, movies.short_description, movies.description,
               movies.release_year, movies.duration, movies.type, movies.image_id, movies.status,
               movies.view_count, movies.unique_viewers, movies.created_at, movies.updated_at,
               favorites.created_at AS favorited_at
        FROM favorites
        JOIN movies ON favorites.movie_id = movies.id
        WHERE favorites.user_id = $1 AND movies.status != $2
        ORDER BY favorites.created_at DESC`,
		userID, types.StatusDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []types.FavoriteMovie{}
	for rows.Next() {
		var f types.FavoriteMovie
		err := rows.Scan(
			&f.ID, &f.Title, &f.Slug, &f.ShortDescription, &f.Description,
			&f.ReleaseYear, &f.Duration, &f.Type, &f.ImageID, &f.Status,
			&f.ViewCount, &f.UniqueViewers, &f.CreatedAt, &f.UpdatedAt, &f.FavoritedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("favorite rows iteration: %w", err)
	}
	return favorites, nil
}

func (r *PostgresUserRepository) AddFavorite(ctx context.Context, userID, movieID uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1 AND status != $2)",
		movieID, types.StatusDeleted).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check movie: %w", err)
	}
	if !exists {
		return fmt.Errorf("movie not found: %w", api.ErrNotFound)
	}

	_, err = r.db.Exec(ctx,
		"INSERT INTO favorites (user_id, movie_id) VALUES ($1, $2)", userID, movieID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return fmt.Errorf("movie already in favorites: %w", api.ErrConflict)
			case pgerrcode.ForeignKeyViolation:
				return fmt.Errorf("user or movie not found: %w", api.ErrNotFound)
			}
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) RemoveFavorite(ctx context.Context, userID, movieID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND movie_id = $2", userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return api.ErrNotFound
	}
	return nil
}
