// Package handler exposes the login endpoint. The response carries only the
// resolved role; failures are a uniform 401 with no detail, so the endpoint
// cannot be used to enumerate users.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"clinicore/internal/auth/service"
	"clinicore/internal/platform/metrics"
	"clinicore/internal/platform/middleware"
	"clinicore/internal/transport/http/shared"
	dErrors "clinicore/pkg/domain-errors"
)

// Resolver resolves a login and password to a role.
type Resolver interface {
	Authenticate(ctx context.Context, login, password string) (service.Role, bool)
}

// Handler handles authentication endpoints.
type Handler struct {
	logger   *slog.Logger
	resolver Resolver
	metrics  *metrics.Metrics
}

// New creates an auth Handler.
func New(resolver Resolver, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		resolver: resolver,
		metrics:  m,
	}
}

// Register registers the auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(authRouter chi.Router) {
		authRouter.Use(middleware.Recovery(h.logger))
		authRouter.Use(middleware.RequestID)
		authRouter.Use(middleware.Logger(h.logger))
		authRouter.Use(middleware.Timeout(10 * time.Second))
		authRouter.Use(middleware.ContentTypeJSON)
		authRouter.Use(middleware.Latency(h.metrics))
		authRouter.Use(middleware.Tracing)
		authRouter.Post("/auth/login", h.handleLogin)
	})
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Role string `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !govalidator.StringLength(req.Login, "1", "255") || !govalidator.StringLength(req.Password, "1", "255") {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "login and password are required"))
		return
	}

	role, ok := h.resolver.Authenticate(ctx, req.Login, req.Password)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication failed"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, loginResponse{Role: string(role)})
}
