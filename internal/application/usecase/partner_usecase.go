package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/normalize"
)

func contactFrom(in dto.PartnerRequest) entity.Contact {
	return entity.Contact{
		ContactName: normalize.Name(in.ContactName),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
	}
}

func toPartnerResponse(id, name string, c entity.Contact, created, updated time.Time) *dto.PartnerResponse {
	return &dto.PartnerResponse{
		ID:          id,
		Name:        name,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		Email:       c.Email,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
}

// ClientUseCase CRUD de clientes por tenant.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente. ErrDuplicate si el nombre ya existe.
func (uc *ClientUseCase) Create(ctx context.Context, tenantID string, in dto.PartnerRequest) (*dto.PartnerResponse, error) {
	name, err := cleanName(in.Name)
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
	c := &entity.Client{ID: uuid.New().String(), TenantID: tenantID, Name: name, Contact: contactFrom(in), CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, domain.Storage(err)
	}
	return toPartnerResponse(c.ID, c.Name, c.Contact, c.CreatedAt, c.UpdatedAt), nil
}

// GetByID devuelve el cliente o ErrNotFound.
func (uc *ClientUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.PartnerResponse, error) {
	c, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toPartnerResponse(c.ID, c.Name, c.Contact, c.CreatedAt, c.UpdatedAt), nil
}

// Update reemplaza nombre y contacto.
func (uc *ClientUseCase) Update(ctx context.Context, tenantID, id string, in dto.PartnerRequest) (*dto.PartnerResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByName(ctx, tenantID, name)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if existing != nil && !sameRecord(existing.ID, c.ID) {
		return nil, domain.ErrDuplicate
	}
	c.Name = name
	c.Contact = contactFrom(in)
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, domain.Storage(err)
	}
	return toPartnerResponse(c.ID, c.Name, c.Contact, c.CreatedAt, c.UpdatedAt), nil
}

// Delete borra el cliente. Los movimientos que lo referencian lo muestran como ausente.
func (uc *ClientUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return domain.Storage(uc.repo.Delete(ctx, tenantID, id))
}

// List clientes con búsqueda y paginación.
func (uc *ClientUseCase) List(ctx context.Context, tenantID string, req dto.PageRequest) (*dto.ListResponse[dto.PartnerResponse], error) {
	f := listFilter(req)
	list, total, err := uc.repo.List(ctx, tenantID, f)
	if err != nil {
		return nil, domain.Storage(err)
	}
	items := make([]dto.PartnerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toPartnerResponse(c.ID, c.Name, c.Contact, c.CreatedAt, c.UpdatedAt))
	}
	return &dto.ListResponse[dto.PartnerResponse]{Items: items, Page: pageOf(f, total)}, nil
}

// SupplierUseCase CRUD de proveedores por tenant.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor. ErrDuplicate si el nombre ya existe.
func (uc *SupplierUseCase) Create(ctx context.Context, tenantID string, in dto.PartnerRequest) (*dto.PartnerResponse, error) {
	name, err := cleanName(in.Name)
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
	s := &entity.Supplier{ID: uuid.New().String(), TenantID: tenantID, Name: name, Contact: contactFrom(in), CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, domain.Storage(err)
	}
	return toPartnerResponse(s.ID, s.Name, s.Contact, s.CreatedAt, s.UpdatedAt), nil
}

// GetByID devuelve el proveedor o ErrNotFound.
func (uc *SupplierUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.PartnerResponse, error) {
	s, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toPartnerResponse(s.ID, s.Name, s.Contact, s.CreatedAt, s.UpdatedAt), nil
}

// Update reemplaza nombre y contacto.
func (uc *SupplierUseCase) Update(ctx context.Context, tenantID, id string, in dto.PartnerRequest) (*dto.PartnerResponse, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	s, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByName(ctx, tenantID, name)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if existing != nil && !sameRecord(existing.ID, s.ID) {
		return nil, domain.ErrDuplicate
	}
	s.Name = name
	s.Contact = contactFrom(in)
	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, domain.Storage(err)
	}
	return toPartnerResponse(s.ID, s.Name, s.Contact, s.CreatedAt, s.UpdatedAt), nil
}

// Delete borra el proveedor. Productos y movimientos que lo referencian quedan sin proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return domain.Storage(uc.repo.Delete(ctx, tenantID, id))
}

// List proveedores con búsqueda y paginación.
func (uc *SupplierUseCase) List(ctx context.Context, tenantID string, req dto.PageRequest) (*dto.ListResponse[dto.PartnerResponse], error) {
	f := listFilter(req)
	list, total, err := uc.repo.List(ctx, tenantID, f)
	if err != nil {
		return nil, domain.Storage(err)
	}
	items := make([]dto.PartnerResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toPartnerResponse(s.ID, s.Name, s.Contact, s.CreatedAt, s.UpdatedAt))
	}
	return &dto.ListResponse[dto.PartnerResponse]{Items: items, Page: pageOf(f, total)}, nil
}
