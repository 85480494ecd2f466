package comment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/nmtri-dev/goflix/app/middleware"
	"github.com/nmtri-dev/goflix/internal/types"
)

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) ListByMovie(ctx context.Context, movieID uuid.UUID) ([]types.Comment, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Comment), args.Error(1)
}

func (m *mockCommentRepo) Create(ctx context.Context, movieID, userID uuid.UUID, content string) (*types.Comment, error) {
	args := m.Called(ctx, movieID, userID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Comment), args.Error(1)
}

func newTestRouter(repo CommentRepository) chi.Router {
	handler := NewCommentHandler(repo, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	r.Get("/api/movies/{movieID}/comments", handler.List)
	r.Post("/api/movies/{movieID}/comments", handler.Create)
	return r
}

func withClaims(req *http.Request, userID uuid.UUID) *http.Request {
	claims := &types.Claims{
		UserID:   userID.String(),
		Username: "alice",
		RoleName: types.RoleUser,
	}
	ctx := context.WithValue(req.Context(), appMiddleware.ClaimsKey, claims)
	return req.WithContext(ctx)
}

func TestCommentHandler_List(t *testing.T) {
	repo := &mockCommentRepo{}
	movieID := uuid.New()
	repo.On("ListByMovie", mock.Anything, movieID).Return([]types.Comment{
		{ID: uuid.New(), MovieID: movieID, Content: "Loved it", Username: "alice", CreatedAt: time.Now()},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/movies/"+movieID.String()+"/comments", nil)
	rec := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []types.Comment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "alice", body.Data[0].Username)
	repo.AssertExpectations(t)
}

// The comment author is taken from the verified session, never from the
// request body.
func TestCommentHandler_Create_UsesSessionAuthor(t *testing.T) {
	repo := &mockCommentRepo{}
	movieID := uuid.New()
	userID := uuid.New()
	repo.On("Create", mock.Anything, movieID, userID, "Great finale").Return(&types.Comment{
		ID: uuid.New(), MovieID: movieID, UserID: userID, Content: "Great finale",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/movies/"+movieID.String()+"/comments",
		strings.NewReader(`{"content":"Great finale"}`))
	req = withClaims(req, userID)
	rec := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestCommentHandler_Create_NoSession(t *testing.T) {
	repo := &mockCommentRepo{}

	req := httptest.NewRequest(http.MethodPost, "/api/movies/"+uuid.NewString()+"/comments",
		strings.NewReader(`{"content":"Great finale"}`))
	rec := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCommentHandler_Create_BlankContent(t *testing.T) {
	repo := &mockCommentRepo{}

	req := httptest.NewRequest(http.MethodPost, "/api/movies/"+uuid.NewString()+"/comments",
		strings.NewReader(`{"content":"   "}`))
	req = withClaims(req, uuid.New())
	rec := httptest.NewRecorder()
	newTestRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Create")
}
