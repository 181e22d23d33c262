// Package health contiene DTOs para endpoints de health check.
package health

import "time"

// ComponentStatus es el estado de una dependencia.
type ComponentStatus struct {
	Status  string `json:"status"` // "ok" | "error" | "disabled"
	Message string `json:"message,omitempty"`
}

// ReadyResponse es la respuesta de /readyz.
type ReadyResponse struct {
	Status     string                     `json:"status"` // "ready" | "unavailable"
	Components map[string]ComponentStatus `json:"components"`
	Version    string                     `json:"version,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
}
