// Package cms es el cliente del CMS headless (API estilo Strapi) al que se
// reenvían categorías, recetas, usuarios y el login.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dropDatabas3/restopos/internal/observability/logger"
)

const maxResponseBytes = 8 << 20

var (
	// ErrNotConfigured indica que no hay base URL del CMS.
	ErrNotConfigured = errors.New("cms: base url not configured")
	// ErrUpstream es la causa de todo *UpstreamError.
	ErrUpstream = errors.New("cms: upstream error")
)

// UpstreamError es una respuesta >= 400 del CMS.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("cms: upstream status %d: %s", e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// Config configura el Client.
type Config struct {
	BaseURL string
	// APIToken es el token de servicio para sesiones sin token del CMS.
	APIToken   string
	Timeout    time.Duration
	HTTPClient *http.Client
	// Observe recibe cada llamada terminada (status 0 si falló el transporte).
	Observe func(path string, status int, elapsed time.Duration)
}

// Client habla con el CMS. Sin reintentos ni circuit breaker.
type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
	observe  func(string, int, time.Duration)
}

// New crea el cliente. BaseURL es obligatorio.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("cms: invalid base url: %w", err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, apiToken: cfg.APIToken, http: hc, observe: cfg.Observe}, nil
}

// do ejecuta method sobre path y retorna el cuerpo crudo de una respuesta
// 2xx. token vacío significa sin Authorization.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body any) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	log := logger.From(ctx).With(logger.Component("cms"), logger.Upstream(path))

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("cms: encode body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("cms: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(path, 0, start)
		log.Warn("upstream transport failure", logger.Err(err))
		return nil, fmt.Errorf("cms: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.record(path, resp.StatusCode, start)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("cms: read body: %w", err)
	}

	if resp.StatusCode >= 400 {
		ue := &UpstreamError{Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
		log.Info("upstream error", logger.Status(resp.StatusCode), logger.String("message", ue.Message))
		return nil, ue
	}
	return raw, nil
}

func (c *Client) record(path string, status int, start time.Time) {
	if c.observe != nil {
		c.observe(path, status, time.Since(start))
	}
}

// errorMessage extrae error.message (formato Strapi) o cae al texto del status.
func errorMessage(raw []byte, status int) string {
	if gjson.ValidBytes(raw) {
		for _, p := range []string{"error.message", "message", "error"} {
			if v := gjson.GetBytes(raw, p); v.Exists() && v.Type == gjson.String && v.Str != "" {
				return v.Str
			}
		}
	}
	return http.StatusText(status)
}
