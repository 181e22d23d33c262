// Package stats contiene el DTO de /api/stats.
package stats

// StatsResponse son los indicadores del dashboard. Hoy siempre en cero.
type StatsResponse struct {
	TotalOrders         int     `json:"totalOrders"`
	TotalRevenue        float64 `json:"totalRevenue"`
	AverageOrderValue   float64 `json:"averageOrderValue"`
	ActiveTables        int     `json:"activeTables"`
	PendingReservations int     `json:"pendingReservations"`
	LowStockItems       int     `json:"lowStockItems"`
}
