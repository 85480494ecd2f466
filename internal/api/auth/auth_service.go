package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/nmtri-dev/goflix/config"
	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	// Login verifies the credentials and returns the account together with a
	// freshly signed session token.
	Login(ctx context.Context, identifier, password string) (*types.User, string, error)
	Register(ctx context.Context, req RegisterRequest) (*types.User, error)
	GetUserByID(ctx context.Context, userID string) (*types.User, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	minter *TokenMinter
	cfg    *config.Config
}

func NewAuthService(repo AuthRepo, minter *TokenMinter, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		minter: minter,
		cfg:    cfg,
	}
}

// Login locates the account by username or email (shape heuristic) and
// compares the password against the stored bcrypt hash. Unknown identifier
// and wrong password are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (*types.User, string, error) {
	if identifier == "" || password == "" {
		return nil, "", fmt.Errorf("username and password are required: %w", api.ErrBadRequest)
	}

	var (
		user *types.User
		err  error
	)
	if api.LooksLikeEmail(identifier) {
		user, err = s.repo.GetUserByEmail(ctx, identifier)
	} else {
		user, err = s.repo.GetUserByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
		}
		s.logger.ErrorContext(ctx, "Login lookup failed", slog.Any("error", err))
		return nil, "", fmt.Errorf("login lookup: %w", api.ErrInternal)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
	}

	token, _, err := s.minter.Issue(user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Token issuance failed", slog.Any("error", err))
		return nil, "", fmt.Errorf("token issuance: %w", api.ErrInternal)
	}
	return user, token, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*types.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", api.ErrBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var fullName *string
	if req.FullName != "" {
		fullName = &req.FullName
	}

	user, err := s.repo.CreateUser(ctx, req.Username, req.Email, string(hashed), fullName)
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Registration insert failed", slog.Any("error", err))
		return nil, fmt.Errorf("registration: %w", api.ErrInternal)
	}
	return user, nil
}

// GetUserByID re-fetches the live account row for a verified subject id.
// The token may outlive the account; callers treat ErrNotFound as
// unauthenticated, not as a server error.
func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID string) (*types.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Current-account lookup failed", slog.Any("error", err))
		return nil, fmt.Errorf("current-account lookup: %w", api.ErrInternal)
	}
	return user, nil
}
