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

// CategoryUseCase CRUD de categorías por tenant.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría. ErrDuplicate si el nombre ya existe (sin distinguir mayúsculas).
func (uc *CategoryUseCase) Create(ctx context.Context, tenantID string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
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
	c := &entity.Category{ID: uuid.New().String(), TenantID: tenantID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, domain.Storage(err)
	}
	return toCategoryResponse(c), nil
}

// GetByID devuelve la categoría o ErrNotFound.
func (uc *CategoryUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(c), nil
}

// Update renombra una categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, tenantID, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
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
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, domain.Storage(err)
	}
	return toCategoryResponse(c), nil
}

// Delete borra la categoría. Los productos que la referencian quedan sin categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return domain.Storage(uc.repo.Delete(ctx, tenantID, id))
}

// List categorías con búsqueda por nombre y paginación.
func (uc *CategoryUseCase) List(ctx context.Context, tenantID string, req dto.PageRequest) (*dto.ListResponse[dto.CategoryResponse], error) {
	f := listFilter(req)
	list, total, err := uc.repo.List(ctx, tenantID, f)
	if err != nil {
		return nil, domain.Storage(err)
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.ListResponse[dto.CategoryResponse]{Items: items, Page: pageOf(f, total)}, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}
