// Package pages renderiza las páginas HTML del sitio: las públicas (menú,
// login, signup) y las vistas del dashboard, cada una detrás de su allow-list
// de roles.
package pages

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dropDatabas3/restopos/internal/guard"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/resource"
	"github.com/dropDatabas3/restopos/internal/session"
	"github.com/dropDatabas3/restopos/internal/store"
	"github.com/dropDatabas3/restopos/internal/tenant"
)

//go:embed templates/*.html
var templatesFS embed.FS

// DashboardPage es una vista del dashboard con su allow-list.
type DashboardPage struct {
	Path    string
	View    string
	Title   string
	API     string
	Allowed guard.RoleSet
}

// Dashboard son las vistas del staff.
var Dashboard = []DashboardPage{
	{"/dashboard", "overview", "Resumen", "/api/stats",
		guard.Roles(session.RoleAdmin, session.RoleManager, session.RoleCashier, session.RoleSaaSAdmin)},
	{"/dashboard/orders", "orders", "Pedidos", "/api/tables",
		guard.Roles(session.RoleAdmin, session.RoleManager, session.RoleCashier)},
	{"/dashboard/inventory", "inventory", "Inventario", "/api/inventory",
		guard.Roles(session.RoleAdmin, session.RoleManager)},
	{"/dashboard/tables", "tables", "Mesas", "/api/tables",
		guard.Roles(session.RoleAdmin, session.RoleManager, session.RoleCashier)},
	{"/dashboard/reservations", "reservations", "Reservas", "/api/reservations",
		guard.Roles(session.RoleAdmin, session.RoleManager, session.RoleCashier)},
	{"/dashboard/customers", "customers", "Clientes", "/api/users",
		guard.Roles(session.RoleAdmin, session.RoleManager)},
	{"/dashboard/reports", "reports", "Reportes", "/api/stats",
		guard.Roles(session.RoleAdmin, session.RoleManager)},
	{"/dashboard/menu", "menu", "Menú", "/api/menu-items",
		guard.Roles(session.RoleAdmin, session.RoleManager)},
	{"/dashboard/users", "users", "Usuarios", "/api/users",
		guard.Roles(session.RoleAdmin, session.RoleSaaSAdmin)},
	{"/dashboard/branches", "branches", "Sucursales", "/api/branches",
		guard.Roles(session.RoleSaaSAdmin)},
}

// MenuSource lista los platos del menú público de t.
type MenuSource func(ctx context.Context, t *tenant.Tenant) ([]store.Document, error)

// StoreMenu lee menuitems del tenant pedido. Sin tenant en el request se usa
// fallback; el tenant default también ve los platos sin tenant.
func StoreMenu(svc *resource.Service, fallback *tenant.Tenant) MenuSource {
	def, _ := resource.Lookup("menu-items")
	return func(ctx context.Context, t *tenant.Tenant) ([]store.Document, error) {
		if t == nil {
			t = fallback
		}
		return svc.ListForTenant(ctx, def, t.Slug, t.Default)
	}
}

// PageData es lo que reciben los templates.
type PageData struct {
	Title   string
	View    string
	API     string
	Next    string
	Session *session.Session
	Tenant  *tenant.Tenant
	Items   []store.Document
}

// PagesController renderiza los templates embebidos.
type PagesController struct {
	views map[string]*template.Template
	menu  MenuSource
}

// NewPagesController parsea los templates. menu puede ser nil.
func NewPagesController(menu MenuSource) (*PagesController, error) {
	views := map[string]*template.Template{}
	for _, name := range []string{"login", "signup", "unauthorized", "notfound", "menu", "dashboard"} {
		t, err := template.ParseFS(templatesFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("pages: parse %s: %w", name, err)
		}
		views[name] = t
	}
	return &PagesController{views: views, menu: menu}, nil
}

func (c *PagesController) render(w http.ResponseWriter, r *http.Request, status int, view string, data PageData) {
	data.Session = session.FromContext(r.Context())
	data.Tenant = tenant.FromContext(r.Context())

	var buf bytes.Buffer
	if err := c.views[view].ExecuteTemplate(&buf, "base", data); err != nil {
		logger.From(r.Context()).Error("render failed", logger.Layer("controller"), logger.String("view", view), logger.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Login maneja GET /login.
func (c *PagesController) Login(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, "login", PageData{Title: "Iniciar sesión", View: "login", Next: r.URL.Query().Get("next")})
}

// Signup maneja GET /{tenant}/signup.
func (c *PagesController) Signup(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, "signup", PageData{Title: "Crear cuenta", View: "signup"})
}

// Unauthorized maneja GET /unauthorized.
func (c *PagesController) Unauthorized(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusForbidden, "unauthorized", PageData{Title: "Acceso denegado", View: "unauthorized"})
}

// TenantNotFound es la página de un slug desconocido.
func (c *PagesController) TenantNotFound(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusNotFound, "notfound", PageData{Title: "No encontrado", View: "notfound"})
}

// Menu maneja GET /menu y GET /{tenant}/menu.
func (c *PagesController) Menu(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Menú", View: "menu"}
	if c.menu != nil {
		items, err := c.menu(r.Context(), tenant.FromContext(r.Context()))
		if err != nil {
			// el menú se muestra vacío; la falla queda en el log
			logger.From(r.Context()).Warn("menu unavailable", logger.Layer("controller"), logger.Err(err))
		}
		data.Items = items
	}
	c.render(w, r, http.StatusOK, "menu", data)
}

// View retorna el handler de una vista del dashboard (sin guard).
func (c *PagesController) View(p DashboardPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.render(w, r, http.StatusOK, "dashboard", PageData{Title: p.Title, View: p.View, API: p.API})
	}
}
