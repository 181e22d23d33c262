package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{Secret: "test-secret-0123456789abcdef0123"})
	require.NoError(t, err)
	return m
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":      RoleAdmin,
		" Manager ":  RoleManager,
		"CASHIER":    RoleCashier,
		"saas-admin": RoleSaaSAdmin,
		"Saas Admin": RoleSaaSAdmin,
		"customer":   RoleCustomer,
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseRole("chef")
	assert.False(t, ok)
}

func TestIssueParse_RoundTrip(t *testing.T) {
	m := newTestManager(t)
	tok, exp, err := m.Issue(Session{
		UserID:   "42",
		Email:    "ana@trattoria.test",
		Role:     RoleCashier,
		Tenant:   "trattoria",
		CMSToken: "cms-jwt",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), exp, 5*time.Second)

	s, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", s.UserID)
	assert.Equal(t, RoleCashier, s.Role)
	assert.Equal(t, "trattoria", s.Tenant)
	assert.Equal(t, "cms-jwt", s.CMSToken)
}

func TestIssue_UnknownRole(t *testing.T) {
	_, _, err := newTestManager(t).Issue(Session{UserID: "1", Role: "chef"})
	assert.Error(t, err)
}

func TestParse_Rejects(t *testing.T) {
	m := newTestManager(t)
	tok, _, err := m.Issue(Session{UserID: "1", Role: RoleAdmin})
	require.NoError(t, err)

	other, err := NewManager(Config{Secret: "another-secret-0123456789abcdef0"})
	require.NoError(t, err)
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(DefaultTTL + time.Hour) }
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager(Config{Secret: "  "})
	assert.True(t, errors.Is(err, ErrNoSecret))
}

func TestFromRequest_CookieAndBearer(t *testing.T) {
	m := newTestManager(t)
	tok, exp, err := m.Issue(Session{UserID: "7", Role: RoleManager})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.SetCookie(rec, tok, exp)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	s, err := m.FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, RoleManager, s.Role)

	req = httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	s, err = m.FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "7", s.UserID)

	_, err = m.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClearCookie(t *testing.T) {
	m := newTestManager(t)
	rec := httptest.NewRecorder()
	m.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
