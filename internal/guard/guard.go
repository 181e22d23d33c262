// Package guard decide si una sesión puede acceder a una página o endpoint
// según su rol. La decisión es pura; Page y Require la aplican a handlers.
package guard

import (
	"net/http"
	"net/url"

	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
	"github.com/dropDatabas3/restopos/internal/session"
)

// Decision es el resultado de evaluar una sesión contra un RoleSet.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "unknown"
	}
}

// RoleSet es el conjunto de roles permitidos.
type RoleSet map[session.Role]struct{}

// Roles arma un RoleSet.
func Roles(roles ...session.Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Has indica si r pertenece al conjunto.
func (s RoleSet) Has(r session.Role) bool {
	_, ok := s[r]
	return ok
}

// Check evalúa sess contra allowed. Sin sesión: RedirectLogin. Rol fuera del
// conjunto: RedirectUnauthorized.
func Check(sess *session.Session, allowed RoleSet) Decision {
	if sess == nil {
		return RedirectLogin
	}
	if !allowed.Has(sess.Role) {
		return RedirectUnauthorized
	}
	return Allow
}

// Options define a dónde redirige Page.
type Options struct {
	LoginPath        string
	UnauthorizedPath string
}

// DefaultOptions son las rutas de login y unauthorized del sitio.
var DefaultOptions = Options{LoginPath: "/login", UnauthorizedPath: "/unauthorized"}

// Page envuelve un handler de página: renderiza, o redirige a login o a
// unauthorized. La sesión se lee del contexto del request.
func Page(allowed RoleSet, page http.Handler, opts Options) http.Handler {
	if opts.LoginPath == "" {
		opts.LoginPath = DefaultOptions.LoginPath
	}
	if opts.UnauthorizedPath == "" {
		opts.UnauthorizedPath = DefaultOptions.UnauthorizedPath
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch Check(session.FromContext(r.Context()), allowed) {
		case Allow:
			page.ServeHTTP(w, r)
		case RedirectLogin:
			target := opts.LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
		default:
			http.Redirect(w, r, opts.UnauthorizedPath, http.StatusFound)
		}
	})
}

// Require es la variante para la API: 401 sin sesión, 403 con rol no permitido.
func Require(roles ...session.Role) func(http.Handler) http.Handler {
	allowed := Roles(roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch Check(session.FromContext(r.Context()), allowed) {
			case Allow:
				next.ServeHTTP(w, r)
			case RedirectLogin:
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
			default:
				httperrors.WriteError(w, httperrors.ErrForbidden)
			}
		})
	}
}
