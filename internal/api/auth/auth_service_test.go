package auth

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nmtri-dev/goflix/config"
	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*types.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*types.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthRepo) GetUserByID(ctx context.Context, userID string) (*types.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*types.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthRepo) CreateUser(ctx context.Context, username, email, hashedPassword string, fullName *string) (*types.User, error) {
	args := m.Called(ctx, username, email, hashedPassword, fullName)
	if u := args.Get(0); u != nil {
		return u.(*types.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(t *testing.T, repo AuthRepo) *AuthServiceImpl {
	t.Helper()
	cfg := &config.Config{Auth: testAuthConfig()}
	minter, err := NewTokenMinter(cfg.Auth)
	require.NoError(t, err)
	logger := slog.New(slog.DiscardHandler)
	return NewAuthService(repo, minter, cfg, logger)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestAuthService_Login_ByUsername(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestService(t, repo)

	user := testUser()
	user.Password = hashPassword(t, "s3cret")
	repo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)

	got, token, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token)
	repo.AssertExpectations(t)
}

func TestAuthService_Login_EmailShapeRoutesToEmailLookup(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestService(t, repo)

	user := testUser()
	user.Password = hashPassword(t, "s3cret")
	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(user, nil)

	_, _, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownAndWrongPasswordIndistinguishable(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestService(t, repo)

	user := testUser()
	user.Password = hashPassword(t, "correct")
	repo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("GetUserByUsername", mock.Anything, "nobody").Return(nil, api.ErrNotFound)

	_, _, errWrongPassword := svc.Login(context.Background(), "alice", "wrong")
	_, _, errUnknownUser := svc.Login(context.Background(), "nobody", "whatever")

	assert.ErrorIs(t, errWrongPassword, api.ErrUnauthenticated)
	assert.ErrorIs(t, errUnknownUser, api.ErrUnauthenticated)
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestService(t, repo)

	_, _, err := svc.Login(context.Background(), "", "password")
	assert.ErrorIs(t, err, api.ErrBadRequest)

	_, _, err = svc.Login(context.Background(), "alice", "")
	assert.ErrorIs(t, err, api.ErrBadRequest)
	repo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestService(t, repo)

	created := testUser()
	repo.On("CreateUser", mock.Anything, "bob", "bob@example.com",
		mock.MatchedBy(func(hashed string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hashed), []byte("hunter2")) == nil
		}), (*string)(nil)).Return(created, nil)

	got, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_Conflict(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestService(t, repo)

	repo.On("CreateUser", mock.Anything, "bob", "bob@example.com", mock.Anything, (*string)(nil)).
		Return(nil, api.ErrConflict)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hunter2",
	})
	assert.ErrorIs(t, err, api.ErrConflict)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "bob"})
	assert.ErrorIs(t, err, api.ErrBadRequest)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_GetUserByID_NotFound(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := newTestService(t, repo)

	repo.On("GetUserByID", mock.Anything, "gone").Return(nil, api.ErrNotFound)

	_, err := svc.GetUserByID(context.Background(), "gone")
	assert.ErrorIs(t, err, api.ErrNotFound)
}
