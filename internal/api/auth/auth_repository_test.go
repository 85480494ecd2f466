package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

func newRepoWithMock(t *testing.T) (*PostgresAuthRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresAuthRepo(mock, slog.New(slog.DiscardHandler)), mock
}

func userRow(user *types.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "username", "email", "password", "full_name",
		"role_id", "role_name", "status", "created_at", "updated_at",
	}).AddRow(
		user.ID, user.Username, user.Email, user.Password, user.FullName,
		user.RoleID, user.RoleName, user.Status, user.CreatedAt, user.UpdatedAt,
	)
}

func TestAuthRepo_GetUserByUsername(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	user := testUser()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	mock.ExpectQuery(`SELECT .+ FROM users u\s+LEFT JOIN roles r ON u\.role_id = r\.id\s+WHERE u\.username = \$1`).
		WithArgs("alice").
		WillReturnRows(userRow(user))

	got, err := repo.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, types.RoleAdmin, got.RoleName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthRepo_GetUserByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE u\.email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "username", "email", "password", "full_name",
			"role_id", "role_name", "status", "created_at", "updated_at",
		}))

	_, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, api.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthRepo_CreateUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()
	roleID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("bob").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("bob@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users .+ RETURNING id, role_id, status, created_at, updated_at`).
		WithArgs("bob", "bob@example.com", "hashed", (*string)(nil), "user", types.StatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"id", "role_id", "status", "created_at", "updated_at"}).
			AddRow(id, roleID, types.StatusActive, now, now))

	user, err := repo.CreateUser(context.Background(), "bob", "bob@example.com", "hashed", nil)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, types.RoleUser, user.RoleName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthRepo_CreateUser_DuplicateUsername(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("bob").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.CreateUser(context.Background(), "bob", "bob@example.com", "hashed", nil)
	assert.ErrorIs(t, err, api.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthRepo_CreateUser_RaceHitsUniqueIndex(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("bob").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("bob@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("bob", "bob@example.com", "hashed", (*string)(nil), "user", types.StatusActive).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := repo.CreateUser(context.Background(), "bob", "bob@example.com", "hashed", nil)
	assert.ErrorIs(t, err, api.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthRepo_CreateUser_UnexpectedError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("bob").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.CreateUser(context.Background(), "bob", "bob@example.com", "hashed", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, api.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
