package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de un tenant a partir de los
// productos bajo su punto de reorden.
type ReplenishmentUseCase struct {
	dashboardRepo    repository.DashboardRepository
	defaultThreshold int64
}

// NewReplenishmentUseCase construye el caso de uso. defaultThreshold aplica a los productos
// sin punto de reorden propio.
func NewReplenishmentUseCase(dashboardRepo repository.DashboardRepository, defaultThreshold int64) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{dashboardRepo: dashboardRepo, defaultThreshold: defaultThreshold}
}

// GenerateReplenishmentList devuelve los productos bajo punto de reorden con la cantidad
// sugerida (ideal = reorden × 1.5). Prioridad: mayor déficit relativo primero.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, tenantID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	products, err := uc.dashboardRepo.GetLowStock(ctx, tenantID, uc.defaultThreshold)
	if err != nil {
		return nil, domain.Storage(err)
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(products))
	for _, p := range products {
		reorder := p.ReorderPoint
		if reorder <= 0 {
			reorder = uc.defaultThreshold
		}
		// ideal = ceil(reorder * 1.5) en enteros
		ideal := (reorder*3 + 1) / 2
		suggested := ideal - p.Quantity
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:         p.ID,
			SKU:               p.SKU,
			ProductName:       p.Name,
			CurrentStock:      p.Quantity,
			ReorderPoint:      reorder,
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
		})
	}

	// Déficit relativo (reorden - stock) / reorden, comparado sin divisiones; desempate por déficit absoluto
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		left := (a.ReorderPoint - a.CurrentStock) * b.ReorderPoint
		right := (b.ReorderPoint - b.CurrentStock) * a.ReorderPoint
		if left != right {
			return left > right
		}
		return a.ReorderPoint-a.CurrentStock > b.ReorderPoint-b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
