package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// StockTotals KPIs del inventario de un tenant.
type StockTotals struct {
	TotalValue decimal.Decimal // Σ precio × cantidad
	TotalItems int64           // Σ cantidad
	TotalSKUs  int64
}

// DailyMovementTotal unidades movidas por día y dirección.
type DailyMovementTotal struct {
	Day       time.Time
	Direction entity.Direction
	Total     int64
}

// DashboardRepository consultas read-only del dashboard. No bloquea filas: una lectura
// ligeramente desfasada del saldo es aceptable para visualización.
type DashboardRepository interface {
	GetStockTotals(ctx context.Context, tenantID string) (StockTotals, error)
	// GetLowStock productos con saldo bajo su punto de reorden (o bajo defaultThreshold
	// si no tienen uno), ordenados por saldo ascendente.
	GetLowStock(ctx context.Context, tenantID string, defaultThreshold int64) ([]*entity.Product, error)
	// GetDailyMovementTotals totales por día desde `since` (inclusive).
	GetDailyMovementTotals(ctx context.Context, tenantID string, since time.Time) ([]DailyMovementTotal, error)
}
