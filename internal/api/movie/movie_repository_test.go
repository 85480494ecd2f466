package movie

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

func newRepoWithMock(t *testing.T) (*PostgresMovieRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewMovieRepository(mock, slog.New(slog.DiscardHandler)), mock
}

func optionRows(titles ...string) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "title"})
	for _, title := range titles {
		rows.AddRow(uuid.New(), title)
	}
	return rows
}

func TestMovieRepo_SelectOptions_CachesPerSearch(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	// One database round trip, then the cache serves repeats.
	mock.ExpectQuery(`SELECT id, title\s+FROM movies\s+WHERE status != \$1`).
		WithArgs(types.StatusDeleted).
		WillReturnRows(optionRows("Alpha", "Beta"))

	first, err := repo.SelectOptions(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := repo.SelectOptions(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepo_SelectOptions_SearchIsSeparateKey(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM movies\s+WHERE status != \$1`).
		WithArgs(types.StatusDeleted).
		WillReturnRows(optionRows("Alpha", "Beta"))
	mock.ExpectQuery(`FROM movies\s+WHERE status != \$1 AND title ILIKE \$2`).
		WithArgs(types.StatusDeleted, "%al%").
		WillReturnRows(optionRows("Alpha"))

	all, err := repo.SelectOptions(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := repo.SelectOptions(context.Background(), "al")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Alpha", filtered[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepo_UpdateStatus_FlushesOptionCache(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM movies\s+WHERE status != \$1`).
		WithArgs(types.StatusDeleted).
		WillReturnRows(optionRows("Alpha"))

	_, err := repo.SelectOptions(context.Background(), "")
	require.NoError(t, err)

	id := uuid.New()
	mock.ExpectExec(`UPDATE movies SET status = \$1`).
		WithArgs(types.StatusDeleted, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.UpdateStatus(context.Background(), id, types.StatusDeleted))

	// The write invalidated the cache, so the next read hits the database.
	mock.ExpectQuery(`FROM movies\s+WHERE status != \$1`).
		WithArgs(types.StatusDeleted).
		WillReturnRows(optionRows())

	after, err := repo.SelectOptions(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, after)
	require.NoError(t, mock.ExpectationsWereMet())
}

func movieColumnsRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "title", "slug", "short_description", "description", "release_year",
		"duration", "type", "image_id", "status", "view_count", "unique_viewers",
		"created_at", "updated_at",
	})
}

func TestMovieRepo_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()
	mock.ExpectQuery(`FROM movies\s+WHERE id = \$1 AND status != \$2`).
		WithArgs(id, types.StatusDeleted).
		WillReturnRows(movieColumnsRows())

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, api.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A soft-deleted movie disappears from listings and detail lookups; the
// queries carry the status predicate so the database never returns it.
func TestMovieRepo_List_ExcludesDeleted(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT count\(id\) FROM movies WHERE status != \$1`).
		WithArgs(types.StatusDeleted).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`FROM movies\s+WHERE status != \$1\s+ORDER BY created_at DESC\s+OFFSET \$2 LIMIT \$3`).
		WithArgs(types.StatusDeleted, 0, 10).
		WillReturnRows(movieColumnsRows().AddRow(
			uuid.New(), "Alpha", "alpha", nil, nil, nil,
			nil, "movie", nil, types.StatusActive, int64(0), int64(0),
			now, now,
		))

	movies, total, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, movies, 1)
	assert.Equal(t, types.StatusActive, movies[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepo_GetByID_DeletedIsGone(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()
	mock.ExpectQuery(`FROM movies\s+WHERE id = \$1 AND status != \$2`).
		WithArgs(id, types.StatusDeleted).
		WillReturnRows(movieColumnsRows())

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, api.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepo_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	id := uuid.New()
	mock.ExpectExec(`UPDATE movies SET status = \$1`).
		WithArgs(types.StatusInactive, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), id, types.StatusInactive)
	assert.ErrorIs(t, err, api.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

