package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// KardexQueryUseCase lecturas del libro de movimientos. Sin bloqueos.
type KardexQueryUseCase struct {
	movementRepo repository.MovementRepository
}

// NewKardexQueryUseCase construye el caso de uso.
func NewKardexQueryUseCase(movementRepo repository.MovementRepository) *KardexQueryUseCase {
	return &KardexQueryUseCase{movementRepo: movementRepo}
}

// GetMovement devuelve un movimiento del tenant o domain.ErrNotFound.
func (uc *KardexQueryUseCase) GetMovement(ctx context.Context, tenantID, id string) (*dto.MovementResponse, error) {
	d, err := uc.movementRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToMovementResponse(d)
	return &resp, nil
}

// ListMovements kardex paginado, más recientes primero.
func (uc *KardexQueryUseCase) ListMovements(ctx context.Context, tenantID string, req dto.MovementListRequest) (*dto.MovementListResponse, error) {
	filter, err := movementFilterFrom(req)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.movementRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, domain.Storage(err)
	}
	return &dto.MovementListResponse{
		Items: ToMovementResponses(list),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

func movementFilterFrom(req dto.MovementListRequest) (repository.MovementFilter, error) {
	filter := repository.MovementFilter{
		ProductID: strings.TrimSpace(req.ProductID),
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if strings.TrimSpace(req.Type) != "" {
		dir, err := entity.ParseDirection(req.Type)
		if err != nil {
			return filter, domain.Invalid("type", err.Error())
		}
		filter.Direction = dir
	}
	from, err := parseDateParam("from", req.From, false)
	if err != nil {
		return filter, err
	}
	to, err := parseDateParam("to", req.To, true)
	if err != nil {
		return filter, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return filter, domain.Invalid("to", "debe ser posterior a from")
	}
	filter.From, filter.To = from, to
	return filter, nil
}

// parseDateParam acepta RFC3339 o YYYY-MM-DD. Con endOfDay una fecha sin hora cubre el día completo.
func parseDateParam(field, raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.Invalid(field, "formato de fecha inválido (use YYYY-MM-DD o RFC3339)")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
