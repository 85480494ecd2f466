package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByID(ctx context.Context, userID string) (*types.User, error)
	CreateUser(ctx context.Context, username, email, hashedPassword string, fullName *string) (*types.User, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	db     api.DB
}

func NewPostgresAuthRepo(db api.DB, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

const userColumns = `u.id, u.username, u.email, u.password, u.full_name,
       u.role_id, r.name AS role_name, u.status, u.created_at, u.updated_at`

func (r *PostgresAuthRepo) scanUser(row pgx.Row) (*types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &user.FullName,
		&user.RoleID, &user.RoleName, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM users u
        LEFT JOIN roles r ON u.role_id = r.id
        WHERE u.username = $1`, userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM users u
        LEFT JOIN roles r ON u.role_id = r.id
        WHERE u.email = $1`, userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID string) (*types.User, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM users u
        LEFT JOIN roles r ON u.role_id = r.id
        WHERE u.id = $1`, userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, userID))
}

// CreateUser inserts a new account with the default user role. Duplicate
// username and email are reported as ErrConflict; the unique indexes are the
// backstop for races between the explicit checks and the insert.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, email, hashedPassword string, fullName *string) (*types.User, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("username already exists: %w", api.ErrConflict)
	}

	err = r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email already exists: %w", api.ErrConflict)
	}

	query := `
        INSERT INTO users (username, email, password, full_name, role_id, status)
        VALUES ($1, $2, $3, $4, (SELECT id FROM roles WHERE name = $5), $6)
        RETURNING id, role_id, status, created_at, updated_at`

	var user types.User
	err = r.db.QueryRow(ctx, query,
		username, email, hashedPassword, fullName, string(types.RoleUser), types.StatusActive,
	).Scan(&user.ID, &user.RoleID, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("username or email already exists: %w", api.ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	user.Username = username
	user.Email = email
	user.FullName = fullName
	user.RoleName = types.RoleUser
	return &user, nil
}
