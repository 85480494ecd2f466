package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/nmtri-dev/goflix/app/observability/metrics"
	"github.com/nmtri-dev/goflix/config"
	"github.com/nmtri-dev/goflix/internal/api"
)

type Handler struct {
	logger  *slog.Logger
	service AuthService
	minter  *TokenMinter
	cfg     *config.Config
	metrics *metrics.AppMetrics
}

func NewAuthHandler(service AuthService, minter *TokenMinter, cfg *config.Config, logger *slog.Logger) *Handler {
	metrics.InitAppMetrics()
	return &Handler{
		logger:  logger,
		service: service,
		minter:  minter,
		cfg:     cfg,
		metrics: metrics.Get(),
	}
}

// Login handles POST /api/auth/login. On success the signed session token is
// set as an http-only cookie and the account projection is returned.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login")
	defer span.End()

	l := h.logger.With(slog.String("method", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid login body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Username and password are required")
		return
	}

	h.metrics.LoginRequestsTotal.Add(ctx, 1)

	user, token, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			// Unknown identifier and wrong password share this path on purpose.
			h.metrics.LoginFailuresTotal.Add(ctx, 1)
			l.WarnContext(ctx, "Login rejected")
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Login failed")
		api.HandleDomainError(w, r, err)
		return
	}

	SetSessionCookie(w, h.cfg, token)
	l.InfoContext(ctx, "Login successful", slog.String("user_id", user.ID.String()))
	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    user,
	})
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register")
	defer span.End()

	l := h.logger.With(slog.String("method", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid register body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.metrics.RegisterRequestsTotal.Add(ctx, 1)

	user, err := h.service.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, api.ErrConflict):
			l.WarnContext(ctx, "Registration conflict", slog.String("username", req.Username))
			api.ErrorResponse(w, r, http.StatusConflict, "Username or email already exists")
		default:
			l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Registration failed")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	l.InfoContext(ctx, "User registered", slog.String("user_id", user.ID.String()))
	api.SuccessResponse(w, r, http.StatusCreated, user, nil, "User registered successfully")
}

// Me handles GET /api/auth/me: verify the cookie token, then re-fetch the
// live account row. A valid token whose account is gone yields 404.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Me")
	defer span.End()

	l := h.logger.With(slog.String("method", "Me"))

	var token string
	if cookie, err := r.Cookie(h.cfg.Auth.CookieName); err == nil {
		token = cookie.Value
	}

	claims, err := h.minter.Verify(token)
	if err != nil {
		reason := FailureReason(err)
		h.metrics.TokenFailuresTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("reason", reason)))
		l.WarnContext(ctx, "Token verification failed", slog.String("reason", reason))
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.service.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			l.WarnContext(ctx, "Account gone after token issuance", slog.String("user_id", claims.UserID))
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Current-account lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, MeResponse{User: user})
}

// Logout handles POST /api/auth/logout. Sessions are stateless, so this only
// clears client state; a captured token stays valid until expiry.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Logout")
	defer span.End()

	ClearAllCookies(w, r, h.cfg)

	h.logger.InfoContext(ctx, "Session cookies cleared")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{
		"message": "Logout successful",
	})
}
