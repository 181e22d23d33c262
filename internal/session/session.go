// Package session emite y valida el token de sesión (JWT HS256) que lleva el
// rol del usuario, y lo transporta explícitamente en el contexto del request.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const (
	DefaultCookieName = "restopos_session"
	DefaultIssuer     = "restopos"
	DefaultTTL        = 12 * time.Hour
)

var (
	ErrNoSession    = errors.New("session: no token")
	ErrInvalidToken = errors.New("session: invalid token")
	ErrNoSecret     = errors.New("session: secret not configured")
)

// Session es la identidad decodificada del token.
type Session struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	Role      Role      `json:"role"`
	Tenant    string    `json:"tenant,omitempty"`
	CMSToken  string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type claims struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	Tenant   string `json:"tenant,omitempty"`
	CMSToken string `json:"cms,omitempty"`
	jwtv5.RegisteredClaims
}

// Config configura el Manager.
type Config struct {
	Secret     string
	TTL        time.Duration
	Issuer     string
	CookieName string
	Secure     bool
}

// Manager firma, valida y transporta sesiones.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	issuer     string
	cookieName string
	secure     bool
	now        func() time.Time
}

// NewManager valida cfg y aplica defaults.
func NewManager(cfg Config) (*Manager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrNoSecret
	}
	m := &Manager{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		issuer:     cfg.Issuer,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		now:        time.Now,
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}
	if m.issuer == "" {
		m.issuer = DefaultIssuer
	}
	if m.cookieName == "" {
		m.cookieName = DefaultCookieName
	}
	return m, nil
}

// CookieName retorna el nombre de la cookie de sesión.
func (m *Manager) CookieName() string { return m.cookieName }

// Issue firma s y retorna el token y su expiración.
func (m *Manager) Issue(s Session) (string, time.Time, error) {
	if _, ok := ParseRole(string(s.Role)); !ok {
		return "", time.Time{}, fmt.Errorf("session: unknown role %q", s.Role)
	}
	now := m.now()
	exp := now.Add(m.ttl)
	c := claims{
		Email:    s.Email,
		Name:     s.Name,
		Role:     string(s.Role),
		Tenant:   s.Tenant,
		CMSToken: s.CMSToken,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   s.UserID,
			Issuer:    m.issuer,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}
	tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session: sign: %w", err)
	}
	return tok, exp, nil
}

// Parse valida la firma, el issuer y la expiración de raw.
func (m *Manager) Parse(raw string) (*Session, error) {
	var c claims
	_, err := jwtv5.ParseWithClaims(raw, &c,
		func(*jwtv5.Token) (interface{}, error) { return m.secret, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithIssuer(m.issuer),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	role, ok := ParseRole(c.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, c.Role)
	}
	s := &Session{
		UserID:   c.Subject,
		Email:    c.Email,
		Name:     c.Name,
		Role:     role,
		Tenant:   c.Tenant,
		CMSToken: c.CMSToken,
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s, nil
}

// FromRequest lee el token de la cookie de sesión o de Authorization: Bearer.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	raw := ""
	if ck, err := r.Cookie(m.cookieName); err == nil {
		raw = ck.Value
	}
	if raw == "" {
		if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			raw = strings.TrimSpace(h[7:])
		}
	}
	if raw == "" {
		return nil, ErrNoSession
	}
	return m.Parse(raw)
}

// SetCookie guarda token en la cookie de sesión.
func (m *Manager) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expira la cookie de sesión.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ─── Context ───

type ctxKey struct{}

// WithSession guarda s en ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext retorna la sesión del request o nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
