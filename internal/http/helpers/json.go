// Package helpers contiene utilidades compartidas por los controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
)

const (
	// MaxBodySize es el límite de cuerpo para altas de recursos y auth.
	MaxBodySize     = 1 << 20
	ContentTypeJSON = "application/json; charset=utf-8"
)

// WriteJSON responde v como JSON con status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ReadJSON decodifica el cuerpo (máx. MaxBodySize) en dst.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) *httperrors.AppError {
	if r.Body == nil {
		return httperrors.ErrInvalidJSON
	}
	body := http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return httperrors.ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			return httperrors.ErrInvalidJSON.WithDetail("empty body")
		default:
			return httperrors.ErrInvalidJSON
		}
	}
	return nil
}

// ReadObject lee un cuerpo que debe ser un objeto JSON.
func ReadObject(w http.ResponseWriter, r *http.Request) (map[string]any, *httperrors.AppError) {
	var raw any
	if appErr := ReadJSON(w, r, &raw); appErr != nil {
		return nil, appErr
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, httperrors.ErrBadRequest.WithDetail("body must be a JSON object")
	}
	return obj, nil
}
