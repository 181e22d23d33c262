package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/dropDatabas3/restopos/internal/http/dto/auth"
	svc "github.com/dropDatabas3/restopos/internal/http/services/auth"
	"github.com/dropDatabas3/restopos/internal/session"
)

type fakeService struct {
	login  func(dto.LoginRequest) (*svc.Result, error)
	signup func(dto.SignupRequest) (*svc.Result, error)
}

func (f fakeService) Login(_ context.Context, in dto.LoginRequest) (*svc.Result, error) {
	return f.login(in)
}

func (f fakeService) Signup(_ context.Context, in dto.SignupRequest) (*svc.Result, error) {
	return f.signup(in)
}

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(session.Config{Secret: "test-secret-0123456789abcdef0123"})
	require.NoError(t, err)
	return m
}

func TestLogin_SetsCookie(t *testing.T) {
	m := newManager(t)
	c := NewAuthController(fakeService{login: func(in dto.LoginRequest) (*svc.Result, error) {
		assert.Equal(t, "ana", in.Identifier)
		return &svc.Result{
			Session:   session.Session{UserID: "7", Role: session.RoleCashier},
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
			User:      map[string]any{"id": 7},
		}, nil
	}}, m)

	rec := httptest.NewRecorder()
	c.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"identifier":"ana","password":"pw"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cashier", resp.Role)
	assert.Equal(t, "tok", resp.Token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, m.CookieName(), cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
}

func TestLogin_MissingFields(t *testing.T) {
	c := NewAuthController(fakeService{login: func(dto.LoginRequest) (*svc.Result, error) {
		return nil, svc.ErrMissingFields
	}}, newManager(t))

	rec := httptest.NewRecorder()
	c.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutAndMe(t *testing.T) {
	c := NewAuthController(fakeService{}, newManager(t))

	rec := httptest.NewRecorder()
	c.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Less(t, rec.Result().Cookies()[0].MaxAge, 0)

	rec = httptest.NewRecorder()
	c.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(session.WithSession(req.Context(), &session.Session{UserID: "3", Role: session.RoleManager, Tenant: "trattoria"}))
	rec = httptest.NewRecorder()
	c.Me(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"manager"`)
	assert.NotContains(t, rec.Body.String(), "cms")
}
