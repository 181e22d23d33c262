package cms

import (
	"context"
	"net/http"
	"net/url"
)

// bareCollections son las colecciones que el CMS sirve sin sobre {data}.
var bareCollections = map[string]bool{"users": true}

// noServiceToken son las colecciones que nunca se piden con el token de
// servicio: solo con el token propio del usuario.
var noServiceToken = map[string]bool{"users": true}

// Caller es quien origina un request reenviado al CMS.
type Caller struct {
	// Token es el JWT del CMS guardado en la sesión.
	Token string
	// Authenticated indica que el request trae una sesión válida.
	Authenticated bool
}

// Anonymous es un request sin sesión; se reenvía sin Authorization.
var Anonymous = Caller{}

// tokenFor resuelve el Authorization de un request a name: el token del
// caller; si no tiene y está autenticado, el de servicio (salvo
// noServiceToken). Un anónimo va sin token.
func (c *Client) tokenFor(name string, who Caller) string {
	switch {
	case who.Token != "":
		return who.Token
	case who.Authenticated && !noServiceToken[name]:
		return c.apiToken
	default:
		return ""
	}
}

// List lee /api/{name} y retorna la respuesta aplanada.
func (c *Client) List(ctx context.Context, name string, who Caller, query url.Values) (any, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/"+name, query, c.tokenFor(name, who), nil)
	if err != nil {
		return nil, err
	}
	return Flatten(raw)
}

// Create envía body a /api/{name} envuelto en {data: body} y retorna la
// entidad creada aplanada.
func (c *Client) Create(ctx context.Context, name string, who Caller, body any) (any, error) {
	payload := body
	if !bareCollections[name] {
		payload = map[string]any{"data": body}
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/"+name, nil, c.tokenFor(name, who), payload)
	if err != nil {
		return nil, err
	}
	return Flatten(raw)
}
