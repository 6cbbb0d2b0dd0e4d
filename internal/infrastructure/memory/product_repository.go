package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

type productRepo struct {
	s  *Store
	tx *tx
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	cp.Quantity = 0
	if r.tx != nil {
		if r.skuTaken(p.TenantID, p.SKU, p.ID) {
			return domain.ErrDuplicate
		}
		r.tx.products[p.ID] = &cp
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.products {
		if other.TenantID == p.TenantID && strings.EqualFold(other.SKU, p.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = &cp
	return nil
}

// skuTaken revisa confirmados y preparados en la tx.
func (r *productRepo) skuTaken(tenantID, sku, exceptID string) bool {
	for id, p := range r.tx.products {
		if id != exceptID && p.TenantID == tenantID && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for id, p := range r.s.products {
		if id != exceptID && !r.tx.deleted[id] && p.TenantID == tenantID && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	return false
}

func (r *productRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	if r.tx != nil {
		return r.tx.product(tenantID, id), nil
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) GetBySKU(_ context.Context, tenantID, sku string) (*entity.Product, error) {
	if r.tx != nil {
		for _, p := range r.tx.products {
			if p.TenantID == tenantID && strings.EqualFold(p.SKU, sku) {
				cp := *p
				return &cp, nil
			}
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for id, p := range r.s.products {
		if r.tx != nil && r.tx.deleted[id] {
			continue
		}
		if p.TenantID == tenantID && strings.EqualFold(p.SKU, sku) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// Update escribe los campos descriptivos; nunca la cantidad.
func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	if r.tx != nil {
		current := r.tx.product(p.TenantID, p.ID)
		if current == nil {
			return domain.ErrNotFound
		}
		cp := *p
		cp.Quantity = current.Quantity
		r.tx.products[p.ID] = &cp
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[p.ID]
	if !ok || current.TenantID != p.TenantID {
		return domain.ErrNotFound
	}
	cp := *p
	cp.Quantity = current.Quantity
	r.s.products[p.ID] = &cp
	return nil
}

// Delete toma el bloqueo del producto para no cruzarse con un movimiento en curso.
func (r *productRepo) Delete(ctx context.Context, tenantID, id string) error {
	if r.tx != nil {
		if r.tx.product(tenantID, id) == nil {
			return domain.ErrNotFound
		}
		r.tx.deleted[id] = true
		return nil
	}
	key := productKey(tenantID, id)
	if err := r.s.locks.lock(ctx, key); err != nil {
		return err
	}
	defer r.s.locks.unlock(key)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *productRepo) List(_ context.Context, tenantID string, filter repository.ProductFilter) ([]*entity.Product, int, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	r.s.mu.RLock()
	var matched []*entity.Product
	for _, p := range r.s.products {
		if p.TenantID != tenantID {
			continue
		}
		if filter.CategoryID != "" && p.CategoryID.ID() != filter.CategoryID {
			continue
		}
		if filter.SupplierID != "" && p.SupplierID.ID() != filter.SupplierID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		cp := *p
		matched = append(matched, &cp)
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})
	return paginate(matched, filter.Limit, filter.Offset), len(matched), nil
}

func (r *productRepo) ListAllIDs(_ context.Context, tenantID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ids []string
	for id, p := range r.s.products {
		if p.TenantID == tenantID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *productRepo) ListTenants(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]bool)
	var tenants []string
	for _, p := range r.s.products {
		if !seen[p.TenantID] {
			seen[p.TenantID] = true
			tenants = append(tenants, p.TenantID)
		}
	}
	sort.Strings(tenants)
	return tenants, nil
}

// paginate aplica offset/limit; limit <= 0 devuelve todo desde offset.
func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
