package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/restopos/internal/cms"
	dto "github.com/dropDatabas3/restopos/internal/http/dto/auth"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/session"
	"github.com/dropDatabas3/restopos/internal/store"
	"github.com/dropDatabas3/restopos/internal/validation"
)

// Errores de auth
var (
	ErrMissingFields = errors.New("missing required fields")
	ErrSessionIssue  = errors.New("failed to issue session")
	ErrInvalidEmail  = errors.New("invalid email")
)

// Deps contiene las dependencias del servicio.
type Deps struct {
	// CMS nil significa que no hay backend de identidad configurado.
	CMS      *cms.Client
	Sessions *session.Manager
}

type authService struct {
	deps Deps
}

// NewAuthService crea el servicio de auth.
func NewAuthService(d Deps) AuthService {
	return &authService{deps: d}
}

func (s *authService) Login(ctx context.Context, in dto.LoginRequest) (*Result, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("auth.Login"))

	in.Identifier = strings.TrimSpace(in.Identifier)
	if in.Identifier == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if s.deps.CMS == nil {
		return nil, cms.ErrNotConfigured
	}

	res, err := s.deps.CMS.Login(ctx, in.Identifier, in.Password)
	if err != nil {
		log.Debug("cms login failed",
			logger.String("identifier", validation.MaskIdentifier(in.Identifier)),
			logger.Err(err))
		return nil, err
	}
	return s.mint(ctx, res, in.Tenant)
}

func (s *authService) Signup(ctx context.Context, in dto.SignupRequest) (*Result, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("auth.Signup"))

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Tenant = strings.TrimSpace(in.Tenant)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if s.deps.CMS == nil {
		return nil, cms.ErrNotConfigured
	}

	var extra map[string]any
	if in.Tenant != "" {
		extra = map[string]any{"tenant": in.Tenant}
	}
	res, err := s.deps.CMS.Register(ctx, in.Username, in.Email, in.Password, extra)
	if err != nil {
		log.Debug("cms register failed",
			logger.String("identifier", validation.MaskIdentifier(in.Email)),
			logger.Err(err))
		return nil, err
	}
	return s.mint(ctx, res, in.Tenant)
}

// mint emite la sesión para el usuario devuelto por el CMS.
func (s *authService) mint(ctx context.Context, res *cms.AuthResult, reqTenant string) (*Result, error) {
	sess := session.Session{
		UserID:   store.IDString(res.User["id"]),
		Email:    str(res.User["email"]),
		Name:     str(res.User["username"]),
		Role:     RoleOf(res.User),
		Tenant:   TenantOf(res.User, reqTenant),
		CMSToken: res.JWT,
	}
	tok, exp, err := s.deps.Sessions.Issue(sess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionIssue, err)
	}
	sess.ExpiresAt = exp

	logger.From(ctx).Info("session issued",
		logger.Layer("service"),
		logger.UserID(sess.UserID),
		logger.Role(sess.Role.String()),
		logger.Tenant(sess.Tenant),
	)
	return &Result{Session: sess, Token: tok, ExpiresAt: exp, User: res.User}, nil
}

// RoleOf lee el rol de un usuario del CMS: role.type, role.name o role
// como string. Sin rol reconocible es customer.
func RoleOf(user map[string]any) session.Role {
	var candidates []string
	switch r := user["role"].(type) {
	case string:
		candidates = append(candidates, r)
	case map[string]any:
		candidates = append(candidates, str(r["type"]), str(r["name"]))
	}
	for _, c := range candidates {
		if role, ok := session.ParseRole(c); ok {
			return role
		}
	}
	return session.RoleCustomer
}

// TenantOf lee el tenant del usuario (string u objeto con slug) o usa fallback.
func TenantOf(user map[string]any, fallback string) string {
	switch t := user["tenant"].(type) {
	case string:
		if t != "" {
			return t
		}
	case map[string]any:
		if slug := str(t["slug"]); slug != "" {
			return slug
		}
	}
	return fallback
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
