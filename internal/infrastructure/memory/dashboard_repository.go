package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

type dashboardRepo struct {
	s *Store
}

func (r *dashboardRepo) GetStockTotals(_ context.Context, tenantID string) (repository.StockTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := repository.StockTotals{TotalValue: decimal.Zero}
	for _, p := range r.s.products {
		if p.TenantID != tenantID {
			continue
		}
		totals.TotalSKUs++
		totals.TotalItems += p.Quantity
		totals.TotalValue = totals.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(p.Quantity)))
	}
	return totals, nil
}

func (r *dashboardRepo) GetLowStock(_ context.Context, tenantID string, defaultThreshold int64) ([]*entity.Product, error) {
	r.s.mu.RLock()
	var low []*entity.Product
	for _, p := range r.s.products {
		if p.TenantID == tenantID && p.IsLowStock(defaultThreshold) {
			cp := *p
			low = append(low, &cp)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(low, func(i, j int) bool {
		if low[i].Quantity != low[j].Quantity {
			return low[i].Quantity < low[j].Quantity
		}
		return low[i].Name < low[j].Name
	})
	return low, nil
}

func (r *dashboardRepo) GetDailyMovementTotals(_ context.Context, tenantID string, since time.Time) ([]repository.DailyMovementTotal, error) {
	type dayDir struct {
		day time.Time
		dir entity.Direction
	}
	r.s.mu.RLock()
	sums := make(map[dayDir]int64)
	for _, m := range r.s.movements {
		if m.TenantID != tenantID || m.CreatedAt.Before(since) {
			continue
		}
		t := m.CreatedAt.UTC()
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		sums[dayDir{day, m.Direction}] += m.Quantity
	}
	r.s.mu.RUnlock()

	out := make([]repository.DailyMovementTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, repository.DailyMovementTotal{Day: k.day, Direction: k.dir, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].Direction < out[j].Direction
	})
	return out, nil
}
