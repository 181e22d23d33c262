// Package auth contiene los controllers de /api/auth.
package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/restopos/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
	"github.com/dropDatabas3/restopos/internal/http/helpers"
	svc "github.com/dropDatabas3/restopos/internal/http/services/auth"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/session"
	"github.com/dropDatabas3/restopos/internal/tenant"
)

// AuthController maneja login, signup, logout y me.
type AuthController struct {
	service  svc.AuthService
	sessions *session.Manager
}

// NewAuthController crea el controller.
func NewAuthController(service svc.AuthService, sessions *session.Manager) *AuthController {
	return &AuthController{service: service, sessions: sessions}
}

// Login maneja POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Login"))

	var req dto.LoginRequest
	if appErr := helpers.ReadJSON(w, r, &req); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}
	if req.Tenant == "" {
		req.Tenant = requestTenant(r)
	}

	res, err := c.service.Login(ctx, req)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeAuthError(w, err)
		return
	}
	c.respond(w, http.StatusOK, res)
}

// Signup maneja POST /api/auth/signup.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Signup"))

	var req dto.SignupRequest
	if appErr := helpers.ReadJSON(w, r, &req); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}
	if req.Tenant == "" {
		req.Tenant = requestTenant(r)
	}

	res, err := c.service.Signup(ctx, req)
	if err != nil {
		log.Debug("signup failed", logger.Err(err))
		writeAuthError(w, err)
		return
	}
	c.respond(w, http.StatusCreated, res)
}

// Logout maneja POST /api/auth/logout: borra la cookie de sesión.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c.sessions.ClearCookie(w)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}

// Me maneja GET /api/auth/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if s == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, dto.MeResponse{
		UserID:    s.UserID,
		Email:     s.Email,
		Name:      s.Name,
		Role:      s.Role.String(),
		Tenant:    s.Tenant,
		ExpiresAt: s.ExpiresAt.Unix(),
	})
}

func (c *AuthController) respond(w http.ResponseWriter, status int, res *svc.Result) {
	c.sessions.SetCookie(w, res.Token, res.ExpiresAt)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	helpers.WriteJSON(w, status, dto.AuthResponse{
		User:  res.User,
		Role:  res.Session.Role.String(),
		Token: res.Token,
	})
}

// requestTenant es el tenant resuelto por la ruta, si lo hay.
func requestTenant(r *http.Request) string {
	if t := tenant.FromContext(r.Context()); t != nil && !t.Default {
		return t.Slug
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields)
	case errors.Is(err, svc.ErrInvalidEmail):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email inválido"))
	case errors.Is(err, svc.ErrSessionIssue):
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithDetail("error al emitir la sesión"))
	default:
		httperrors.WriteError(w, helpers.UpstreamError(err))
	}
}
