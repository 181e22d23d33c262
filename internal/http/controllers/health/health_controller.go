// Package health contiene los controllers de liveness y readiness.
package health

import (
	"net/http"

	"github.com/dropDatabas3/restopos/internal/http/helpers"
	svc "github.com/dropDatabas3/restopos/internal/http/services/health"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
)

// HealthController maneja /healthz y /readyz.
type HealthController struct {
	service svc.HealthService
}

// NewHealthController crea el controller.
func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Healthz responde 200 mientras el proceso sirva requests.
func (c *HealthController) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz chequea el store (adquiere la conexión y hace ping).
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	resp := c.service.Ready(r.Context())
	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
		logger.From(r.Context()).Warn("not ready", logger.Layer("controller"), logger.Any("components", resp.Components))
	}
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, status, resp)
}
