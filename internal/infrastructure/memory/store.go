// Package memory implementa los puertos de persistencia en memoria, con la misma semántica
// transaccional que el adaptador de PostgreSQL: bloqueo por (tenant, producto), escrituras
// preparadas en la tx y aplicadas en bloque al confirmar. Se usa en tests y en modo demo
// cuando no hay base de datos configurada.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*entity.User
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	clients    map[string]*entity.Client
	suppliers  map[string]*entity.Supplier
	reasons    map[string]*entity.Reason
	movements  []*entity.Movement
	nextSeq    int64

	locks *keyedLocks

	faultMu    sync.Mutex
	commitFail error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]*entity.User),
		products:   make(map[string]*entity.Product),
		categories: make(map[string]*entity.Category),
		clients:    make(map[string]*entity.Client),
		suppliers:  make(map[string]*entity.Supplier),
		reasons:    make(map[string]*entity.Reason),
		locks:      newKeyedLocks(),
	}
}

// FailNextCommit hace que la próxima confirmación falle con err sin aplicar nada.
func (s *Store) FailNextCommit(err error) {
	s.faultMu.Lock()
	s.commitFail = err
	s.faultMu.Unlock()
}

func (s *Store) takeCommitFault() error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	err := s.commitFail
	s.commitFail = nil
	return err
}

// Repositorios fuera de transacción (autocommit).

func (s *Store) Users() repository.UserRepository          { return &userRepo{s: s} }
func (s *Store) Products() repository.ProductRepository    { return &productRepo{s: s} }
func (s *Store) Movements() repository.MovementRepository  { return &movementRepo{s: s} }
func (s *Store) Categories() repository.CategoryRepository { return newCategoryRepo(s, nil) }
func (s *Store) Clients() repository.ClientRepository      { return newClientRepo(s, nil) }
func (s *Store) Suppliers() repository.SupplierRepository  { return newSupplierRepo(s, nil) }
func (s *Store) Reasons() repository.ReasonRepository      { return newReasonRepo(s, nil) }
func (s *Store) Dashboard() repository.DashboardRepository { return &dashboardRepo{s: s} }

// TxRunner devuelve el ejecutor de unidades de trabajo sobre este almacén.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// TxRunner implementa inventory.TxRunner.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn con repositorios atados a una tx. Si fn falla, el contexto se cancela o la
// confirmación falla, no se aplica ningún cambio. Los bloqueos se liberan siempre al salir.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	t := newTx(r.s)
	defer t.release()

	if err := fn(ctx, t.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

// keyedLocks mutex por clave con espera cancelable por contexto.
type keyedLocks struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{held: make(map[string]chan struct{})}
}

func (k *keyedLocks) lock(ctx context.Context, key string) error {
	for {
		k.mu.Lock()
		ch, busy := k.held[key]
		if !busy {
			k.held[key] = make(chan struct{})
			k.mu.Unlock()
			return nil
		}
		k.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (k *keyedLocks) unlock(key string) {
	k.mu.Lock()
	ch, ok := k.held[key]
	delete(k.held, key)
	k.mu.Unlock()
	if ok {
		close(ch)
	}
}

func productKey(tenantID, productID string) string {
	return tenantID + "/" + productID
}
