package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	ListFilter
	CategoryID string
	SupplierID string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Ningún método escribe Quantity salvo Create (siempre en 0); el saldo sólo cambia vía BalanceRepository.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si no existe o pertenece a otro tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, tenantID, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, filter ProductFilter) ([]*entity.Product, int, error)
	// ListAllIDs ids de todos los productos del tenant (auditoría).
	ListAllIDs(ctx context.Context, tenantID string) ([]string, error)
	// ListTenants tenants con al menos un producto (auditoría programada).
	ListTenants(ctx context.Context) ([]string, error)
}
