package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// ReasonUseCase CRUD de motivos de movimiento.
type ReasonUseCase struct {
	repo repository.ReasonRepository
}

// NewReasonUseCase construye el caso de uso.
func NewReasonUseCase(repo repository.ReasonRepository) *ReasonUseCase {
	return &ReasonUseCase{repo: repo}
}

// reasonFields valida nombre, dirección y que los flags sean satisfacibles: un cliente sólo
// se guarda en salidas y un proveedor sólo en entradas.
func reasonFields(in dto.ReasonRequest) (string, entity.Direction, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return "", "", err
	}
	dir, err := entity.ParseDirection(in.Type)
	if err != nil {
		return "", "", domain.Invalid("type", "debe ser IN u OUT")
	}
	if in.RequiresClient && dir != entity.DirectionOUT {
		return "", "", domain.Invalid("requires_client", "sólo aplica a motivos de salida")
	}
	if in.RequiresSupplier && dir != entity.DirectionIN {
		return "", "", domain.Invalid("requires_supplier", "sólo aplica a motivos de entrada")
	}
	return name, dir, nil
}

// Create crea un motivo. ErrDuplicate si el nombre ya existe.
func (uc *ReasonUseCase) Create(ctx context.Context, tenantID string, in dto.ReasonRequest) (*dto.ReasonResponse, error) {
	name, dir, err := reasonFields(in)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, tenantID, name)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	r := &entity.Reason{
		ID:               uuid.New().String(),
		TenantID:         tenantID,
		Name:             name,
		Direction:        dir,
		RequiresClient:   in.RequiresClient,
		RequiresSupplier: in.RequiresSupplier,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, domain.Storage(err)
	}
	return toReasonResponse(r), nil
}

// GetByID devuelve el motivo o ErrNotFound.
func (uc *ReasonUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ReasonResponse, error) {
	r, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toReasonResponse(r), nil
}

// Update reemplaza los campos del motivo. Los movimientos ya registrados no cambian.
func (uc *ReasonUseCase) Update(ctx context.Context, tenantID, id string, in dto.ReasonRequest) (*dto.ReasonResponse, error) {
	name, dir, err := reasonFields(in)
	if err != nil {
		return nil, err
	}
	r, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByName(ctx, tenantID, name)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if existing != nil && !sameRecord(existing.ID, r.ID) {
		return nil, domain.ErrDuplicate
	}
	r.Name = name
	r.Direction = dir
	r.RequiresClient = in.RequiresClient
	r.RequiresSupplier = in.RequiresSupplier
	r.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, domain.Storage(err)
	}
	return toReasonResponse(r), nil
}

// Delete borra el motivo. Los movimientos que lo usaban lo muestran como ausente.
func (uc *ReasonUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return domain.Storage(uc.repo.Delete(ctx, tenantID, id))
}

// List motivos con búsqueda y paginación.
func (uc *ReasonUseCase) List(ctx context.Context, tenantID string, req dto.PageRequest) (*dto.ListResponse[dto.ReasonResponse], error) {
	f := listFilter(req)
	list, total, err := uc.repo.List(ctx, tenantID, f)
	if err != nil {
		return nil, domain.Storage(err)
	}
	items := make([]dto.ReasonResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReasonResponse(r))
	}
	return &dto.ListResponse[dto.ReasonResponse]{Items: items, Page: pageOf(f, total)}, nil
}

func toReasonResponse(r *entity.Reason) *dto.ReasonResponse {
	return &dto.ReasonResponse{
		ID:               r.ID,
		Name:             r.Name,
		Type:             r.Direction,
		RequiresClient:   r.RequiresClient,
		RequiresSupplier: r.RequiresSupplier,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
