package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

type movementRepo struct {
	s  *Store
	tx *tx
}

// Append prepara el movimiento en la tx; Sequence se asigna al confirmar.
// Fuera de tx se confirma de inmediato.
func (r *movementRepo) Append(_ context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if r.tx != nil {
		r.tx.appended = append(r.tx.appended, m)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextSeq++
	m.Sequence = r.s.nextSeq
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, tenantID, id string) (*entity.MovementDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.movements {
		if m.ID == id && m.TenantID == tenantID {
			return r.s.detail(m), nil
		}
	}
	return nil, nil
}

func (r *movementRepo) List(_ context.Context, tenantID string, filter repository.MovementFilter) ([]*entity.MovementDetail, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []*entity.Movement
	for _, m := range r.s.movements {
		if m.TenantID != tenantID {
			continue
		}
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.Direction != "" && m.Direction != filter.Direction {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Sequence > matched[j].Sequence })
	page := paginate(matched, filter.Limit, filter.Offset)
	out := make([]*entity.MovementDetail, 0, len(page))
	for _, m := range page {
		out = append(out, r.s.detail(m))
	}
	return out, len(matched), nil
}

func (r *movementRepo) ListForReplay(_ context.Context, tenantID, productID string) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.TenantID == tenantID && m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// detail resuelve nombres y convierte en ausentes las referencias que ya no existen.
// Requiere s.mu tomado.
func (s *Store) detail(m *entity.Movement) *entity.MovementDetail {
	d := &entity.MovementDetail{Movement: *m}
	if p, ok := s.products[m.ProductID]; ok && p.TenantID == m.TenantID {
		d.ProductName, d.ProductSKU = p.Name, p.SKU
	}
	if m.ReasonID.Valid() {
		if x, ok := s.reasons[m.ReasonID.ID()]; ok && x.TenantID == m.TenantID {
			d.ReasonName = x.Name
		} else {
			d.ReasonID = entity.NoID
		}
	}
	if m.ClientID.Valid() {
		if x, ok := s.clients[m.ClientID.ID()]; ok && x.TenantID == m.TenantID {
			d.ClientName = x.Name
		} else {
			d.ClientID = entity.NoID
		}
	}
	if m.SupplierID.Valid() {
		if x, ok := s.suppliers[m.SupplierID.ID()]; ok && x.TenantID == m.TenantID {
			d.SupplierName = x.Name
		} else {
			d.SupplierID = entity.NoID
		}
	}
	return d
}
