package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el dashboard. Usa el pool, sin bloqueos.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// GetStockTotals valor total (Σ precio × cantidad), unidades y cantidad de SKUs.
func (r *DashboardRepo) GetStockTotals(ctx context.Context, tenantID string) (repository.StockTotals, error) {
	var t repository.StockTotals
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(price * quantity), 0), COALESCE(SUM(quantity), 0)::bigint, count(*)
		FROM products WHERE tenant_id = $1`, tenantID,
	).Scan(&t.TotalValue, &t.TotalItems, &t.TotalSKUs)
	if err != nil {
		return t, fmt.Errorf("stock totals: %w", err)
	}
	return t, nil
}

// GetLowStock productos bajo su punto de reorden o bajo defaultThreshold si no tienen uno.
func (r *DashboardRepo) GetLowStock(ctx context.Context, tenantID string, defaultThreshold int64) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE tenant_id = $1
		  AND quantity < CASE WHEN reorder_point > 0 THEN reorder_point ELSE $2::bigint END
		ORDER BY quantity, name`, tenantID, defaultThreshold)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// GetDailyMovementTotals unidades por día (UTC) y dirección desde since.
func (r *DashboardRepo) GetDailyMovementTotals(ctx context.Context, tenantID string, since time.Time) ([]repository.DailyMovementTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, direction, SUM(quantity)::bigint
		FROM movements
		WHERE tenant_id = $1 AND created_at >= $2
		GROUP BY 1, 2
		ORDER BY 1, 2`, tenantID, since)
	if err != nil {
		return nil, fmt.Errorf("daily movement totals: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.DailyMovementTotal, error) {
		var (
			d         repository.DailyMovementTotal
			direction string
		)
		err := row.Scan(&d.Day, &direction, &d.Total)
		d.Direction = entity.Direction(direction)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan daily totals: %w", err)
	}
	return out, nil
}
