package cms

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"
)

// AuthResult es la respuesta de /api/auth/local y /api/auth/local/register.
type AuthResult struct {
	JWT  string
	User map[string]any
}

// Login valida credenciales contra el CMS. Va sin Authorization.
func (c *Client) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/api/auth/local", nil, "", map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	if err != nil {
		return nil, err
	}
	return parseAuth(raw)
}

// Register crea un usuario en el CMS. extra se agrega al cuerpo (ej: tenant).
func (c *Client) Register(ctx context.Context, username, email, password string, extra map[string]any) (*AuthResult, error) {
	body := map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}
	for k, v := range extra {
		if _, taken := body[k]; !taken {
			body[k] = v
		}
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/auth/local/register", nil, "", body)
	if err != nil {
		return nil, err
	}
	return parseAuth(raw)
}

func parseAuth(raw []byte) (*AuthResult, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidPayload
	}
	res := &AuthResult{JWT: gjson.GetBytes(raw, "jwt").String(), User: map[string]any{}}
	if u, ok := gjson.GetBytes(raw, "user").Value().(map[string]any); ok {
		res.User = u
	}
	return res, nil
}
