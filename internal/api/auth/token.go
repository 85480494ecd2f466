package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nmtri-dev/goflix/config"
	"github.com/nmtri-dev/goflix/internal/types"
)

// Token verification failure modes. Clients see a uniform "unauthorized";
// these stay distinguishable for logs and metrics.
var (
	ErrTokenMissing          = errors.New("no session token present")
	ErrTokenInvalidSignature = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token malformed")
)

// TokenMinter signs and verifies session tokens. Verification is a pure
// cryptographic/structural check and never touches the database.
type TokenMinter struct {
	cfg    config.AuthConfig
	secret []byte
}

func NewTokenMinter(cfg config.AuthConfig) (*TokenMinter, error) {
	if cfg.SecretKey == "" {
		// A silent fallback here would make every token forgeable.
		return nil, errors.New("auth: signing secret is not configured")
	}
	return &TokenMinter{cfg: cfg, secret: []byte(cfg.SecretKey)}, nil
}

// Issue signs a session token embedding the account's identity and role.
func (m *TokenMinter) Issue(user *types.User) (string, *types.Claims, error) {
	now := time.Now()
	claims := &types.Claims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
		RoleID:   user.RoleID.String(),
		RoleName: user.RoleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, claims, nil
}

// Verify decodes a token string and returns its claims, or one of the four
// sentinel failures.
func (m *TokenMinter) Verify(tokenString string) (*types.Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalidSignature, err)
		default:
			// Unexpected algorithm, bad claim types and the like.
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		}
	}
	if !token.Valid {
		return nil, ErrTokenInvalidSignature
	}
	if claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// FailureReason labels a verification error for metrics attributes.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return "missing"
	case errors.Is(err, ErrTokenInvalidSignature):
		return "signature"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	default:
		return "other"
	}
}
