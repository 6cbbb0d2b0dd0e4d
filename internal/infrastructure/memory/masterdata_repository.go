package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/normalize"
)

// masterTable tabla genérica de datos maestros (id, tenant, nombre único por tenant).
type masterTable[T any] struct {
	s        *Store
	tx       *tx
	rows     func(s *Store) map[string]*T
	key      func(*T) (id, tenantID, name string)
	onDelete func(s *Store, tenantID, id string) // requiere s.mu tomado
}

type (
	categoryRepo = masterTable[entity.Category]
	clientRepo   = masterTable[entity.Client]
	supplierRepo = masterTable[entity.Supplier]
	reasonRepo   = masterTable[entity.Reason]
)

func newCategoryRepo(s *Store, t *tx) *categoryRepo {
	return &categoryRepo{
		s: s, tx: t,
		rows: func(s *Store) map[string]*entity.Category { return s.categories },
		key:  func(c *entity.Category) (string, string, string) { return c.ID, c.TenantID, c.Name },
		onDelete: func(s *Store, tenantID, id string) {
			for _, p := range s.products {
				if p.TenantID == tenantID && p.CategoryID.ID() == id {
					p.CategoryID = entity.NoID
				}
			}
		},
	}
}

func newClientRepo(s *Store, t *tx) *clientRepo {
	return &clientRepo{
		s: s, tx: t,
		rows: func(s *Store) map[string]*entity.Client { return s.clients },
		key:  func(c *entity.Client) (string, string, string) { return c.ID, c.TenantID, c.Name },
	}
}

func newSupplierRepo(s *Store, t *tx) *supplierRepo {
	return &supplierRepo{
		s: s, tx: t,
		rows: func(s *Store) map[string]*entity.Supplier { return s.suppliers },
		key:  func(x *entity.Supplier) (string, string, string) { return x.ID, x.TenantID, x.Name },
		onDelete: func(s *Store, tenantID, id string) {
			for _, p := range s.products {
				if p.TenantID == tenantID && p.SupplierID.ID() == id {
					p.SupplierID = entity.NoID
				}
			}
		},
	}
}

func newReasonRepo(s *Store, t *tx) *reasonRepo {
	return &reasonRepo{
		s: s, tx: t,
		rows: func(s *Store) map[string]*entity.Reason { return s.reasons },
		key:  func(r *entity.Reason) (string, string, string) { return r.ID, r.TenantID, r.Name },
	}
}

// apply ejecuta la escritura ya o la difiere al commit si hay tx.
func (m *masterTable[T]) apply(op func()) {
	if m.tx != nil {
		m.tx.ops = append(m.tx.ops, op)
		return
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	op()
}

// nameTaken requiere s.mu tomado (lectura).
func (m *masterTable[T]) nameTaken(tenantID, name, exceptID string) bool {
	k := normalize.Key(name)
	for id, row := range m.rows(m.s) {
		_, tenant, other := m.key(row)
		if id != exceptID && tenant == tenantID && normalize.Key(other) == k {
			return true
		}
	}
	return false
}

func (m *masterTable[T]) Create(_ context.Context, row *T) error {
	id, tenantID, name := m.key(row)
	m.s.mu.RLock()
	taken := m.nameTaken(tenantID, name, id)
	m.s.mu.RUnlock()
	if taken {
		return domain.ErrDuplicate
	}
	cp := *row
	m.apply(func() { m.rows(m.s)[id] = &cp })
	return nil
}

func (m *masterTable[T]) GetByID(_ context.Context, tenantID, id string) (*T, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	row, ok := m.rows(m.s)[id]
	if !ok {
		return nil, nil
	}
	if _, tenant, _ := m.key(row); tenant != tenantID {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (m *masterTable[T]) GetByName(_ context.Context, tenantID, name string) (*T, error) {
	k := normalize.Key(name)
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, row := range m.rows(m.s) {
		if _, tenant, other := m.key(row); tenant == tenantID && normalize.Key(other) == k {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *masterTable[T]) Update(_ context.Context, row *T) error {
	id, tenantID, name := m.key(row)
	m.s.mu.RLock()
	current, ok := m.rows(m.s)[id]
	var sameTenant bool
	if ok {
		_, tenant, _ := m.key(current)
		sameTenant = tenant == tenantID
	}
	taken := m.nameTaken(tenantID, name, id)
	m.s.mu.RUnlock()
	if !ok || !sameTenant {
		return domain.ErrNotFound
	}
	if taken {
		return domain.ErrDuplicate
	}
	cp := *row
	m.apply(func() { m.rows(m.s)[id] = &cp })
	return nil
}

func (m *masterTable[T]) Delete(_ context.Context, tenantID, id string) error {
	if row, _ := m.GetByID(context.Background(), tenantID, id); row == nil {
		return domain.ErrNotFound
	}
	m.apply(func() {
		delete(m.rows(m.s), id)
		if m.onDelete != nil {
			m.onDelete(m.s, tenantID, id)
		}
	})
	return nil
}

func (m *masterTable[T]) List(_ context.Context, tenantID string, filter repository.ListFilter) ([]*T, int, error) {
	search := normalize.Key(filter.Search)
	m.s.mu.RLock()
	var matched []*T
	for _, row := range m.rows(m.s) {
		_, tenant, name := m.key(row)
		if tenant != tenantID {
			continue
		}
		if search != "" && !strings.Contains(normalize.Key(name), search) {
			continue
		}
		cp := *row
		matched = append(matched, &cp)
	}
	m.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		idI, _, nameI := m.key(matched[i])
		idJ, _, nameJ := m.key(matched[j])
		if ki, kj := normalize.Key(nameI), normalize.Key(nameJ); ki != kj {
			return ki < kj
		}
		return idI < idJ
	})
	return paginate(matched, filter.Limit, filter.Offset), len(matched), nil
}
