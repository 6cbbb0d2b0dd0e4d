// Package analytics contiene el resumen del dashboard de inventario.
package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

const (
	chartDays       = 7  // días del gráfico de entradas/salidas
	recentMovements = 50 // últimos movimientos del widget
	dayLayout       = "2006-01-02"
)

// SummaryCache caché del resumen por tenant. Un fallo de caché nunca falla la petición.
type SummaryCache interface {
	Get(ctx context.Context, tenantID string) (*dto.DashboardSummaryDTO, bool, error)
	Set(ctx context.Context, tenantID string, summary *dto.DashboardSummaryDTO) error
	Invalidate(ctx context.Context, tenantID string) error
}

// DashboardUseCase genera el resumen del inventario de un tenant.
//
// Fuente de datos: DashboardRepository y MovementRepository (consultas read-only, sin bloqueos).
type DashboardUseCase struct {
	dashboardRepo    repository.DashboardRepository
	movementRepo     repository.MovementRepository
	cache            SummaryCache
	defaultThreshold int64
	log              *logger.Logger
	now              func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache y log pueden ser nil.
func NewDashboardUseCase(
	dashboardRepo repository.DashboardRepository,
	movementRepo repository.MovementRepository,
	cache SummaryCache,
	defaultThreshold int64,
	log *logger.Logger,
) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{
		dashboardRepo:    dashboardRepo,
		movementRepo:     movementRepo,
		cache:            cache,
		defaultThreshold: defaultThreshold,
		log:              log,
		now:              time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO del tenant.
//
// Cuatro consultas en paralelo:
//  1. GetStockTotals           → TotalValue, TotalItems, TotalSKUs
//  2. GetLowStock              → LowStock
//  3. GetDailyMovementTotals   → MovementsChart (7 días, días sin movimientos en cero)
//  4. List(limit 50)           → RecentMovements
func (uc *DashboardUseCase) GetSummary(ctx context.Context, tenantID string) (*dto.DashboardSummaryDTO, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, tenantID)
		if err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("dashboard: lectura de caché fallida")
		} else if ok {
			return cached, nil
		}
	}

	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(chartDays - 1))

	var (
		totals repository.StockTotals
		low    []*entity.Product
		daily  []repository.DailyMovementTotal
		recent []*entity.MovementDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = uc.dashboardRepo.GetStockTotals(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		low, err = uc.dashboardRepo.GetLowStock(gctx, tenantID, uc.defaultThreshold)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = uc.dashboardRepo.GetDailyMovementTotals(gctx, tenantID, since)
		return err
	})
	g.Go(func() error {
		var err error
		recent, _, err = uc.movementRepo.List(gctx, tenantID, repository.MovementFilter{Limit: recentMovements})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.Storage(err)
	}

	summary := &dto.DashboardSummaryDTO{
		TotalValue:      totals.TotalValue,
		TotalItems:      totals.TotalItems,
		TotalSKUs:       totals.TotalSKUs,
		LowStock:        uc.lowStockDTOs(low),
		MovementsChart:  buildChart(since, daily),
		RecentMovements: inventory.ToMovementResponses(recent),
		GeneratedAt:     now,
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, tenantID, summary); err != nil {
			uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("dashboard: escritura de caché fallida")
		}
	}
	return summary, nil
}

// Invalidate descarta el resumen cacheado del tenant (tras un movimiento confirmado).
func (uc *DashboardUseCase) Invalidate(ctx context.Context, tenantID string) {
	if uc == nil || uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, tenantID); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("dashboard: invalidación de caché fallida")
	}
}

func (uc *DashboardUseCase) lowStockDTOs(products []*entity.Product) []dto.LowStockDTO {
	out := make([]dto.LowStockDTO, 0, len(products))
	for _, p := range products {
		threshold := p.ReorderPoint
		if threshold <= 0 {
			threshold = uc.defaultThreshold
		}
		out = append(out, dto.LowStockDTO{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Threshold: threshold,
		})
	}
	return out
}

// buildChart arma una fila por día desde since, rellenando con ceros.
func buildChart(since time.Time, totals []repository.DailyMovementTotal) []dto.MovementChartDTO {
	chart := make([]dto.MovementChartDTO, chartDays)
	index := make(map[string]int, chartDays)
	for i := 0; i < chartDays; i++ {
		day := since.AddDate(0, 0, i).Format(dayLayout)
		chart[i] = dto.MovementChartDTO{Date: day}
		index[day] = i
	}
	for _, t := range totals {
		i, ok := index[t.Day.UTC().Format(dayLayout)]
		if !ok {
			continue
		}
		switch t.Direction {
		case entity.DirectionIN:
			chart[i].In += t.Total
		case entity.DirectionOUT:
			chart[i].Out += t.Total
		}
	}
	return chart
}
