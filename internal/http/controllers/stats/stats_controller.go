// Package stats contiene el controller de /api/stats.
package stats

import (
	"net/http"

	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
	"github.com/dropDatabas3/restopos/internal/http/helpers"
	svc "github.com/dropDatabas3/restopos/internal/http/services/stats"
)

// StatsController sirve los indicadores del dashboard.
type StatsController struct {
	service svc.StatsService
}

// NewStatsController crea el controller.
func NewStatsController(service svc.StatsService) *StatsController {
	return &StatsController{service: service}
}

// Get maneja GET /api/stats.
func (c *StatsController) Get(w http.ResponseWriter, r *http.Request) {
	out, err := c.service.Summary(r.Context())
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
