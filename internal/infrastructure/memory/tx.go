package memory

import (
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// tx escrituras preparadas de una unidad de trabajo. Nada es visible fuera de la tx
// hasta commit.
type tx struct {
	s        *Store
	held     map[string]bool
	products map[string]*entity.Product // altas y modificaciones
	deleted  map[string]bool
	balances map[string]int64 // productID -> saldo
	appended []*entity.Movement
	ops      []func() // escrituras de datos maestros, aplicadas bajo s.mu
	done     bool
}

func newTx(s *Store) *tx {
	return &tx{
		s:        s,
		held:     make(map[string]bool),
		products: make(map[string]*entity.Product),
		deleted:  make(map[string]bool),
		balances: make(map[string]int64),
	}
}

func (t *tx) repos() repository.TxRepos {
	return repository.TxRepos{
		Movements:  &movementRepo{s: t.s, tx: t},
		Balances:   &balanceRepo{t: t},
		Products:   &productRepo{s: t.s, tx: t},
		Reasons:    newReasonRepo(t.s, t),
		Clients:    newClientRepo(t.s, t),
		Suppliers:  newSupplierRepo(t.s, t),
		Categories: newCategoryRepo(t.s, t),
	}
}

// product vista del producto dentro de la tx (preparado > confirmado), copia.
func (t *tx) product(tenantID, id string) *entity.Product {
	if t.deleted[id] {
		return nil
	}
	if p, ok := t.products[id]; ok {
		if p.TenantID != tenantID {
			return nil
		}
		cp := *p
		return &cp
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	p, ok := t.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil
	}
	cp := *p
	return &cp
}

func (t *tx) commit() error {
	if err := t.s.takeCommitFault(); err != nil {
		return err
	}
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range t.deleted {
		delete(s.products, id)
	}
	for id, p := range t.products {
		if t.deleted[id] {
			continue
		}
		cp := *p
		if existing, ok := s.products[id]; ok {
			cp.Quantity = existing.Quantity
		}
		s.products[id] = &cp
	}
	for id, qty := range t.balances {
		if p, ok := s.products[id]; ok {
			p.Quantity = qty
		}
	}
	for _, m := range t.appended {
		s.nextSeq++
		m.Sequence = s.nextSeq
		cp := *m
		s.movements = append(s.movements, &cp)
	}
	for _, op := range t.ops {
		op()
	}
	t.done = true
	return nil
}

// release libera los bloqueos de producto tomados por la tx.
func (t *tx) release() {
	for key := range t.held {
		t.s.locks.unlock(key)
	}
	t.held = nil
}
