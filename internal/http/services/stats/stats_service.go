// Package stats sirve los indicadores del dashboard.
package stats

import (
	"context"

	dto "github.com/dropDatabas3/restopos/internal/http/dto/stats"
)

// StatsService calcula los indicadores.
type StatsService interface {
	Summary(ctx context.Context) (dto.StatsResponse, error)
}

type zeroStats struct{}

// NewStatsService retorna el placeholder: todos los indicadores en cero.
func NewStatsService() StatsService { return zeroStats{} }

func (zeroStats) Summary(context.Context) (dto.StatsResponse, error) {
	return dto.StatsResponse{}, nil
}
