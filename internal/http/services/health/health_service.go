// Package health contiene el chequeo de readiness.
package health

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/restopos/internal/http/dto/health"
	"github.com/dropDatabas3/restopos/internal/store"
)

// Deps contiene las dependencias del health service.
type Deps struct {
	Store   store.Acquirer
	Version string
	// CMSConfigured indica si hay base URL del CMS.
	CMSConfigured bool
	// PingTimeout acota Acquire + Ping (default 2s).
	PingTimeout time.Duration
}

// HealthService chequea las dependencias.
type HealthService interface {
	Ready(ctx context.Context) dto.ReadyResponse
}

type healthService struct {
	deps Deps
	now  func() time.Time
}

// NewHealthService crea el servicio.
func NewHealthService(d Deps) HealthService {
	if d.PingTimeout <= 0 {
		d.PingTimeout = 2 * time.Second
	}
	return &healthService{deps: d, now: time.Now}
}

func (s *healthService) Ready(ctx context.Context) dto.ReadyResponse {
	resp := dto.ReadyResponse{
		Status:     "ready",
		Components: map[string]dto.ComponentStatus{},
		Version:    s.deps.Version,
		Timestamp:  s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.deps.PingTimeout)
	defer cancel()
	if err := s.pingStore(ctx); err != nil {
		resp.Status = "unavailable"
		resp.Components["store"] = dto.ComponentStatus{Status: "error", Message: err.Error()}
	} else {
		resp.Components["store"] = dto.ComponentStatus{Status: "ok"}
	}

	if s.deps.CMSConfigured {
		resp.Components["cms"] = dto.ComponentStatus{Status: "ok"}
	} else {
		resp.Components["cms"] = dto.ComponentStatus{Status: "disabled"}
	}
	return resp
}

func (s *healthService) pingStore(ctx context.Context) error {
	h, err := s.deps.Store.Acquire(ctx)
	if err != nil {
		return err
	}
	return h.Ping(ctx)
}
