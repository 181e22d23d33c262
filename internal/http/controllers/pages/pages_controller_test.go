package pages

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/restopos/internal/guard"
	"github.com/dropDatabas3/restopos/internal/session"
	"github.com/dropDatabas3/restopos/internal/store"
	"github.com/dropDatabas3/restopos/internal/tenant"
)

func TestMenu_ListsItems(t *testing.T) {
	var asked *tenant.Tenant
	c, err := NewPagesController(func(_ context.Context, t *tenant.Tenant) ([]store.Document, error) {
		asked = t
		return []store.Document{{"_id": "a1", "name": "Ñoquis", "price": 12.5}}, nil
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/trattoria/menu", nil)
	req = req.WithContext(tenant.WithTenant(req.Context(), &tenant.Tenant{Slug: "trattoria", Name: "La Trattoria"}))
	rec := httptest.NewRecorder()
	c.Menu(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "La Trattoria")
	assert.Contains(t, body, "Ñoquis")
	assert.Contains(t, body, `data-id="a1"`)
	require.NotNil(t, asked)
	assert.Equal(t, "trattoria", asked.Slug)
}

func TestMenu_StoreDownRendersEmpty(t *testing.T) {
	c, err := NewPagesController(func(context.Context, *tenant.Tenant) ([]store.Document, error) {
		return nil, errors.New("down")
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.Menu(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Todavía no hay platos")
}

func TestDashboardGuard(t *testing.T) {
	c, err := NewPagesController(nil)
	require.NoError(t, err)

	var inventory DashboardPage
	for _, p := range Dashboard {
		if p.View == "inventory" {
			inventory = p
		}
	}
	h := guard.Page(inventory.Allowed, c.View(inventory), guard.DefaultOptions)

	serve := func(s *session.Session) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, inventory.Path, nil)
		if s != nil {
			req = req.WithContext(session.WithSession(req.Context(), s))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fdashboard%2Finventory", rec.Header().Get("Location"))

	rec = serve(&session.Session{UserID: "1", Role: session.RoleCashier})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/unauthorized", rec.Header().Get("Location"))

	for _, role := range []session.Role{session.RoleAdmin, session.RoleManager} {
		rec = serve(&session.Session{UserID: "1", Role: role, Name: "Ana"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Inventario")
		assert.Contains(t, rec.Body.String(), string(role))
	}
}

func TestDashboard_AllowLists(t *testing.T) {
	want := map[string][]session.Role{
		"overview": {session.RoleAdmin, session.RoleManager, session.RoleCashier, session.RoleSaaSAdmin},
		"branches": {session.RoleSaaSAdmin},
		"users":    {session.RoleAdmin, session.RoleSaaSAdmin},
	}
	for _, p := range Dashboard {
		roles, ok := want[p.View]
		if !ok {
			continue
		}
		assert.Equal(t, guard.Roles(roles...), p.Allowed, p.View)
	}
	for _, p := range Dashboard {
		assert.False(t, p.Allowed.Has(session.RoleCustomer), p.View)
	}
}

func TestStaticPages(t *testing.T) {
	c, err := NewPagesController(nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.Login(rec, httptest.NewRequest(http.MethodGet, "/login?next=/dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-next="/dashboard"`)

	rec = httptest.NewRecorder()
	c.TenantNotFound(rec, httptest.NewRequest(http.MethodGet, "/nope/menu", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	c.Unauthorized(rec, httptest.NewRequest(http.MethodGet, "/unauthorized", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
