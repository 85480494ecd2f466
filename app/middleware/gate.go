package appMiddleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/nmtri-dev/goflix/app/observability/metrics"
	"github.com/nmtri-dev/goflix/config"
	"github.com/nmtri-dev/goflix/internal/api"
	"github.com/nmtri-dev/goflix/internal/api/auth"
	"github.com/nmtri-dev/goflix/internal/types"
)

type contextKey string

const ClaimsKey contextKey = "sessionClaims"

const cmsPrefix = "/cms"

// Gate is the edge authorization layer. It runs before every route handler
// and decides pass / redirect / reject from the session cookie alone, without
// touching the database. Navigable surfaces redirect to the site root; API
// surfaces get a structured 401 body, never a redirect.
type Gate struct {
	logger *slog.Logger
	cfg    *config.Config
	minter *auth.TokenMinter
	m      *metrics.AppMetrics

	// Navigable prefixes that require a logged-in account of any role.
	loginPrefixes []string
	// Mutating API paths that stay reachable without a session.
	publicAPI map[string]struct{}
}

func NewGate(cfg *config.Config, minter *auth.TokenMinter, logger *slog.Logger) *Gate {
	metrics.InitAppMetrics()
	return &Gate{
		logger: logger,
		cfg:    cfg,
		minter: minter,
		m:      metrics.Get(),
		loginPrefixes: []string{
			"/profile",
			"/favorites",
		},
		publicAPI: map[string]struct{}{
			"/api/auth/login":           {},
			"/api/auth/register":        {},
			"/api/auth/forgot-password": {},
			"/api/upload/callback":      {},
		},
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Handler applies the path policy. Rules are evaluated in order and the first
// match terminates.
func (g *Gate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		path := r.URL.Path

		var token string
		if cookie, err := r.Cookie(g.cfg.Auth.CookieName); err == nil {
			token = cookie.Value
		}

		// 1. Back office: verified token with the admin role, or back to the
		// site root. Auth failures on this surface never show an error page.
		if path == cmsPrefix || strings.HasPrefix(path, cmsPrefix+"/") {
			claims, err := g.minter.Verify(token)
			if err != nil {
				g.recordTokenFailure(ctx, "cms", err)
				if !errors.Is(err, auth.ErrTokenMissing) {
					// Expire the stale cookie so the browser stops sending it.
					auth.ClearSessionCookie(w, g.cfg)
				}
				g.redirect(ctx, w, r, "cms")
				return
			}
			switch claims.RoleName {
			case types.RoleAdmin:
				g.pass(ctx, "cms")
				next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ClaimsKey, claims)))
			case types.RoleUser:
				g.logger.WarnContext(ctx, "Non-admin account on CMS surface",
					slog.String("user_id", claims.UserID))
				g.redirect(ctx, w, r, "cms")
			default:
				g.logger.WarnContext(ctx, "Unknown role on CMS surface",
					slog.String("role", string(claims.RoleName)))
				g.redirect(ctx, w, r, "cms")
			}
			return
		}

		// 2. Navigable pages that require a session. The token is fully
		// verified here too, not just checked for presence.
		for _, prefix := range g.loginPrefixes {
			if path != prefix && !strings.HasPrefix(path, prefix+"/") {
				continue
			}
			claims, err := g.minter.Verify(token)
			if err != nil {
				g.recordTokenFailure(ctx, "page", err)
				g.redirect(ctx, w, r, "page")
				return
			}
			g.pass(ctx, "page")
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ClaimsKey, claims)))
			return
		}

		// 3. Mutating API calls require a session unless the path is public.
		if (path == "/api" || strings.HasPrefix(path, "/api/")) && isMutating(r.Method) {
			if _, public := g.publicAPI[path]; public {
				g.pass(ctx, "api")
				next.ServeHTTP(w, r)
				return
			}
			claims, err := g.minter.Verify(token)
			if err != nil {
				g.recordTokenFailure(ctx, "api", err)
				g.m.GateDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
					attribute.String("surface", "api"),
					attribute.String("outcome", "reject"),
				))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}
			g.pass(ctx, "api")
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ClaimsKey, claims)))
			return
		}

		// 4. Everything else passes through untouched.
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) pass(ctx context.Context, surface string) {
	g.m.GateDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("surface", surface),
		attribute.String("outcome", "pass"),
	))
}

func (g *Gate) redirect(ctx context.Context, w http.ResponseWriter, r *http.Request, surface string) {
	g.m.GateDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("surface", surface),
		attribute.String("outcome", "redirect"),
	))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (g *Gate) recordTokenFailure(ctx context.Context, surface string, err error) {
	reason := auth.FailureReason(err)
	g.m.TokenFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
	g.logger.WarnContext(ctx, "Gate token verification failed",
		slog.String("surface", surface),
		slog.String("reason", reason),
	)
}

// GetClaimsFromContext returns the verified claims the gate attached, if any.
func GetClaimsFromContext(ctx context.Context) (*types.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*types.Claims)
	return claims, ok
}
