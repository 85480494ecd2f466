package comment

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

var _ CommentRepository = (*PostgresCommentRepository)(nil)

type CommentRepository interface {
	ListByMovie(ctx context.Context, movieID uuid.UUID) ([]types.Comment, error)
	Create(ctx context.Context, movieID, userID uuid.UUID, content string) (*types.Comment, error)
}

type PostgresCommentRepository struct {
	logger *slog.Logger
	db     api.DB
}

func NewCommentRepository(db api.DB, logger *slog.Logger) *PostgresCommentRepository {
	return &PostgresCommentRepository{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresCommentRepository) movieExists(ctx context.Context, movieID uuid.UUID) error {
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
	return nil
}

func (r *PostgresCommentRepository) ListByMovie(ctx context.Context, movieID uuid.UUID) ([]types.Comment, error) {
	if err := r.movieExists(ctx, movieID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
        SELECT comments.id, comments.movie_id, comments.user_id, comments.content,
               comments.likes, comments.created_at,
               users.username, users.full_name
        FROM comments
        JOIN users ON users.id = comments.user_id
        WHERE comments.movie_id = $1
        ORDER BY comments.created_at DESC`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []types.Comment{}
	for rows.Next() {
		var c types.Comment
		err := rows.Scan(
			&c.ID, &c.MovieID, &c.UserID, &c.Content,
			&c.Likes, &c.CreatedAt, &c.Username, &c.FullName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("comment rows iteration: %w", err)
	}
	return comments, nil
}

func (r *PostgresCommentRepository) Create(ctx context.Context, movieID, userID uuid.UUID, content string) (*types.Comment, error) {
	if err := r.movieExists(ctx, movieID); err != nil {
		return nil, err
	}

	var c types.Comment
	err := r.db.QueryRow(ctx, `
        INSERT INTO comments (movie_id, user_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, movie_id, user_id, content, likes, created_at`,
		movieID, userID, content,
	).Scan(&c.ID, &c.MovieID, &c.UserID, &c.Content, &c.Likes, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, fmt.Errorf("comment author not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	return &c, nil
}
