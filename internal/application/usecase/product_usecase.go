package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// InitialStockNote nota del movimiento de apertura al crear un producto con stock.
const InitialStockNote = "Stock inicial"

// ProductUseCase casos de uso CRUD para productos. La cantidad sólo cambia vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	txRunner     inventory.TxRunner
	movements    *inventory.RegisterMovementUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	txRunner inventory.TxRunner,
	movements *inventory.RegisterMovementUseCase,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		txRunner:     txRunner,
		movements:    movements,
	}
}

// Create crea un producto con saldo 0 y, si InitialQuantity > 0, registra una entrada de
// apertura en la misma transacción: el saldo siempre coincide con la suma del kardex.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		return nil, domain.Invalid("sku", "requerido")
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, domain.Invalid("price", "no puede ser negativo")
	}
	if in.InitialQuantity < 0 {
		return nil, domain.Invalid("initial_quantity", "no puede ser negativa")
	}
	if in.ReorderPoint < 0 {
		return nil, domain.Invalid("reorder_point", "no puede ser negativo")
	}

	var product *entity.Product
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		existing, err := repos.Products.GetBySKU(ctx, tenantID, sku)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		categoryID, err := resolveCategory(ctx, repos.Categories, tenantID, entity.ParseOptionalID(in.CategoryID))
		if err != nil {
			return err
		}
		supplierID, err := resolveSupplier(ctx, repos.Suppliers, tenantID, entity.ParseOptionalID(in.SupplierID))
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		p := &entity.Product{
			ID:           uuid.New().String(),
			TenantID:     tenantID,
			SKU:          sku,
			Name:         name,
			Description:  strings.TrimSpace(in.Description),
			Price:        in.Price,
			Quantity:     0,
			CategoryID:   categoryID,
			SupplierID:   supplierID,
			ReorderPoint: in.ReorderPoint,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		if in.InitialQuantity > 0 {
			res, err := uc.movements.RecordInTx(ctx, repos, inventory.MovementInput{
				TenantID:   tenantID,
				UserID:     userID,
				ProductID:  p.ID,
				Direction:  entity.DirectionIN,
				Quantity:   in.InitialQuantity,
				SupplierID: supplierID,
				Note:       InitialStockNote,
			})
			if err != nil {
				return err
			}
			p.Quantity = res.NewBalance
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, domain.Storage(err)
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del tenant o ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza los datos descriptivos. No permite modificar la cantidad.
func (uc *ProductUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name, err := cleanName(*in.Name)
		if err != nil {
			return nil, err
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.Invalid("price", "no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.ReorderPoint != nil {
		if *in.ReorderPoint < 0 {
			return nil, domain.Invalid("reorder_point", "no puede ser negativo")
		}
		product.ReorderPoint = *in.ReorderPoint
	}
	if in.CategoryID != nil {
		product.CategoryID, err = resolveCategory(ctx, uc.categoryRepo, tenantID, entity.ParseOptionalID(*in.CategoryID))
		if err != nil {
			return nil, domain.Storage(err)
		}
	}
	if in.SupplierID != nil {
		product.SupplierID, err = resolveSupplier(ctx, uc.supplierRepo, tenantID, entity.ParseOptionalID(*in.SupplierID))
		if err != nil {
			return nil, domain.Storage(err)
		}
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, domain.Storage(err)
	}
	return toProductResponse(product), nil
}

// List lista productos del tenant con búsqueda (nombre, SKU, descripción) y paginación.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, req dto.ProductListRequest) (*dto.ProductListResponse, error) {
	base := listFilter(req.PageRequest)
	base.Search = strings.TrimSpace(req.Search)
	filter := repository.ProductFilter{
		ListFilter: base,
		CategoryID: entity.ParseOptionalID(req.CategoryID).ID(),
		SupplierID: entity.ParseOptionalID(req.SupplierID).ID(),
	}
	list, total, err := uc.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, domain.Storage(err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  pageOf(base, total),
	}, nil
}

// Delete elimina un producto. Sus movimientos permanecen en el kardex.
func (uc *ProductUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return domain.Storage(uc.repo.Delete(ctx, tenantID, id))
}

// resolveCategory devuelve la referencia sólo si la categoría existe en el tenant.
func resolveCategory(ctx context.Context, repo repository.CategoryRepository, tenantID string, id entity.OptionalID) (entity.OptionalID, error) {
	if !id.Valid() {
		return entity.NoID, nil
	}
	c, err := repo.GetByID(ctx, tenantID, id.ID())
	if err != nil || c == nil {
		return entity.NoID, err
	}
	return entity.SomeID(c.ID), nil
}

// resolveSupplier igual que resolveCategory para proveedores.
func resolveSupplier(ctx context.Context, repo repository.SupplierRepository, tenantID string, id entity.OptionalID) (entity.OptionalID, error) {
	if !id.Valid() {
		return entity.NoID, nil
	}
	s, err := repo.GetByID(ctx, tenantID, id.ID())
	if err != nil || s == nil {
		return entity.NoID, err
	}
	return entity.SomeID(s.ID), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Quantity:     p.Quantity,
		CategoryID:   p.CategoryID,
		SupplierID:   p.SupplierID,
		ReorderPoint: p.ReorderPoint,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
