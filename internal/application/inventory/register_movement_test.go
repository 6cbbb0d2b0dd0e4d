package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

const (
	tenantA = "tenant-a"
	tenantB = "tenant-b"
	userA   = "user-a"
)

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingObserver) ObserveMovement(_ entity.Direction, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = make(map[string]int)
	}
	o.counts[outcome]++
}

func (o *countingObserver) get(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[outcome]
}

type fixture struct {
	store    *memory.Store
	uc       *inventory.RegisterMovementUseCase
	observer *countingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	obs := &countingObserver{}
	uc := inventory.NewRegisterMovementUseCase(store.TxRunner(), inventory.MovementConfig{
		Timeout:  2 * time.Second,
		Observer: obs,
	})
	return &fixture{store: store, uc: uc, observer: obs}
}

func (f *fixture) product(t *testing.T, tenantID, id string, initial int64) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.store.Products().Create(context.Background(), &entity.Product{
		ID: id, TenantID: tenantID, SKU: "SKU-" + id, Name: "Producto " + id, CreatedAt: now, UpdatedAt: now,
	}))
	if initial > 0 {
		_, err := f.uc.RecordMovement(context.Background(), in(tenantID, id, initial))
		require.NoError(t, err)
	}
}

func (f *fixture) balance(t *testing.T, tenantID, id string) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), tenantID, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func (f *fixture) movementCount(t *testing.T, tenantID, productID string) int {
	t.Helper()
	list, err := f.store.Movements().ListForReplay(context.Background(), tenantID, productID)
	require.NoError(t, err)
	return len(list)
}

func in(tenantID, productID string, q int64) inventory.MovementInput {
	return inventory.MovementInput{TenantID: tenantID, UserID: userA, ProductID: productID, Direction: entity.DirectionIN, Quantity: q}
}

func out(tenantID, productID string, q int64) inventory.MovementInput {
	return inventory.MovementInput{TenantID: tenantID, UserID: userA, ProductID: productID, Direction: entity.DirectionOUT, Quantity: q}
}

func TestRecordMovement_EntradaSimple(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 0)

	res, err := f.uc.RecordMovement(context.Background(), in(tenantA, "p1", 10))
	require.NoError(t, err)

	assert.Equal(t, int64(10), res.NewBalance)
	assert.Equal(t, int64(10), res.Movement.Delta)
	assert.Equal(t, int64(10), res.Movement.BalanceAfter)
	assert.NotEmpty(t, res.Movement.ID)
	assert.Equal(t, int64(1), res.Movement.Sequence)
	assert.Equal(t, int64(10), f.balance(t, tenantA, "p1"))
	assert.Equal(t, 1, f.observer.get(inventory.OutcomeCommitted))
}

func TestRecordMovement_EntradaQueDesbordaEsInvalida(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 1)

	_, err := f.uc.RecordMovement(context.Background(), in(tenantA, "p1", math.MaxInt64))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrStorage)

	assert.Equal(t, int64(1), f.balance(t, tenantA, "p1"))
	assert.Equal(t, 1, f.movementCount(t, tenantA, "p1"))
	assert.Equal(t, 1, f.observer.get(inventory.OutcomeInvalid))
	assert.Equal(t, 0, f.observer.get(inventory.OutcomeStorageFailure))
}

func TestRecordMovement_SalidaSimple(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 10)

	res, err := f.uc.RecordMovement(context.Background(), out(tenantA, "p1", 4))
	require.NoError(t, err)

	assert.Equal(t, int64(6), res.NewBalance)
	assert.Equal(t, int64(-4), res.Movement.Delta)
	assert.Equal(t, int64(6), f.balance(t, tenantA, "p1"))
	assert.Equal(t, 2, f.movementCount(t, tenantA, "p1"))
}

func TestRecordMovement_SalidaExcedeSaldo(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 5)

	_, err := f.uc.RecordMovement(context.Background(), out(tenantA, "p1", 8))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(8), stockErr.Requested)
	assert.Equal(t, int64(5), stockErr.Current)
	assert.Equal(t, int64(-3), stockErr.Candidate)
	assert.Equal(t, int64(3), stockErr.Shortfall())

	assert.Equal(t, int64(5), f.balance(t, tenantA, "p1"))
	assert.Equal(t, 1, f.movementCount(t, tenantA, "p1"), "el rechazo no agrega movimiento")
	assert.Equal(t, 1, f.observer.get(inventory.OutcomeInsufficientStock))
}

func TestRecordMovement_SalidaDejaSaldoEnCero(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 5)

	res, err := f.uc.RecordMovement(context.Background(), out(tenantA, "p1", 5))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.NewBalance)
}

type failingRunner struct{ called bool }

func (r *failingRunner) Run(context.Context, func(context.Context, repository.TxRepos) error) error {
	r.called = true
	return errors.New("no debería abrirse una transacción")
}

func TestRecordMovement_CantidadInvalidaNoTocaAlmacenamiento(t *testing.T) {
	runner := &failingRunner{}
	uc := inventory.NewRegisterMovementUseCase(runner, inventory.MovementConfig{})

	for _, q := range []int64{0, -1, -100} {
		_, err := uc.RecordMovement(context.Background(), in(tenantA, "p1", q))
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "quantity", vErr.Field)
	}
	_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{TenantID: tenantA, ProductID: "p1", Direction: "SIDEWAYS", Quantity: 1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordMovement(context.Background(), in("", "p1", 1))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.False(t, runner.called)
}

func TestRecordMovement_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RecordMovement(context.Background(), in(tenantA, "no-existe", 1))
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, f.observer.get(inventory.OutcomeNotFound))
}

func TestRecordMovement_AislamientoEntreTenants(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 7)

	_, err := f.uc.RecordMovement(context.Background(), out(tenantB, "p1", 1))
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.RecordMovement(context.Background(), in(tenantB, "p1", 1))
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(7), f.balance(t, tenantA, "p1"))
	assert.Equal(t, 0, f.movementCount(t, tenantB, "p1"))
}

func TestRecordMovement_FalloAlConfirmarNoDejaEfectos(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 10)
	f.store.FailNextCommit(errors.New("disco lleno"))

	_, err := f.uc.RecordMovement(context.Background(), out(tenantA, "p1", 3))
	require.ErrorIs(t, err, domain.ErrStorage)

	var sErr *domain.StorageError
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, int64(10), f.balance(t, tenantA, "p1"))
	assert.Equal(t, 1, f.movementCount(t, tenantA, "p1"))
	assert.Equal(t, 1, f.observer.get(inventory.OutcomeStorageFailure))

	// El fallo es de un solo uso: el siguiente intento se confirma
	res, err := f.uc.RecordMovement(context.Background(), out(tenantA, "p1", 3))
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.NewBalance)
}

func TestRecordMovement_TimeoutEsperandoBloqueo(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewRegisterMovementUseCase(store.TxRunner(), inventory.MovementConfig{Timeout: 50 * time.Millisecond})
	now := time.Now()
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{ID: "p1", TenantID: tenantA, SKU: "S", Name: "P", CreatedAt: now, UpdatedAt: now}))

	locked := make(chan struct{})
	releaseLock := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.TxRunner().Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
			if _, err := repos.Balances.GetForUpdate(ctx, tenantA, "p1"); err != nil {
				return err
			}
			close(locked)
			<-releaseLock
			return nil
		})
	}()
	<-locked

	_, err := uc.RecordMovement(context.Background(), in(tenantA, "p1", 1))
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(releaseLock)
	require.NoError(t, <-done)

	res, err := uc.RecordMovement(context.Background(), in(tenantA, "p1", 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.NewBalance)
}

func TestRecordMovement_SalidasConcurrentesSoloUnaGana(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		f.product(t, tenantA, "p1", 10)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j, q := range []int64{6, 7} {
			wg.Add(1)
			go func(j int, q int64) {
				defer wg.Done()
				_, errs[j] = f.uc.RecordMovement(context.Background(), out(tenantA, "p1", q))
			}(j, q)
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
			} else {
				require.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}
		require.Equal(t, 1, ok, "exactamente una salida debe confirmarse")
		bal := f.balance(t, tenantA, "p1")
		assert.True(t, bal == 4 || bal == 3, "saldo %d", bal)
	}
}

func TestRecordMovement_ConservacionBajoConcurrencia(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 50)
	f.product(t, tenantA, "p2", 50)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			product := "p1"
			if i%2 == 0 {
				product = "p2"
			}
			input := out(tenantA, product, int64(i%7+1))
			if i%3 == 0 {
				input = in(tenantA, product, int64(i%5+1))
			}
			_, _ = f.uc.RecordMovement(context.Background(), input)
		}(i)
	}
	wg.Wait()

	for _, product := range []string{"p1", "p2"} {
		movements, err := f.store.Movements().ListForReplay(context.Background(), tenantA, product)
		require.NoError(t, err)
		var sum int64
		for _, m := range movements {
			sum += m.Delta
			assert.Equal(t, sum, m.BalanceAfter, "saldo posterior acumulado")
			assert.GreaterOrEqual(t, m.BalanceAfter, int64(0))
		}
		assert.Equal(t, sum, f.balance(t, tenantA, product))
	}
}

func TestRecordMovement_Referencias(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	setup := func(t *testing.T) *fixture {
		f := newFixture(t)
		f.product(t, tenantA, "p1", 20)
		require.NoError(t, f.store.Reasons().Create(ctx, &entity.Reason{ID: "r-venta", TenantID: tenantA, Name: "Venta", Direction: entity.DirectionOUT, RequiresClient: true, CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, f.store.Reasons().Create(ctx, &entity.Reason{ID: "r-merma", TenantID: tenantA, Name: "Merma", Direction: entity.DirectionOUT, CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, f.store.Reasons().Create(ctx, &entity.Reason{ID: "r-compra", TenantID: tenantA, Name: "Compra", Direction: entity.DirectionIN, CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, f.store.Clients().Create(ctx, &entity.Client{ID: "c1", TenantID: tenantA, Name: "Cliente", CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, f.store.Suppliers().Create(ctx, &entity.Supplier{ID: "s1", TenantID: tenantA, Name: "Proveedor", CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, f.store.Clients().Create(ctx, &entity.Client{ID: "c-b", TenantID: tenantB, Name: "Ajeno", CreatedAt: now, UpdatedAt: now}))
		return f
	}

	t.Run("sentinela none equivale a ausente", func(t *testing.T) {
		f := setup(t)
		input := out(tenantA, "p1", 1)
		input.ReasonID = entity.ParseOptionalID("none")
		input.ClientID = entity.ParseOptionalID("null")
		res, err := f.uc.RecordMovement(ctx, input)
		require.NoError(t, err)
		assert.False(t, res.Movement.ReasonID.Valid())
		assert.False(t, res.Movement.ClientID.Valid())
	})

	t.Run("referencia inexistente o de otro tenant se descarta", func(t *testing.T) {
		f := setup(t)
		input := out(tenantA, "p1", 1)
		input.ReasonID = entity.SomeID("no-existe")
		input.ClientID = entity.SomeID("c-b")
		res, err := f.uc.RecordMovement(ctx, input)
		require.NoError(t, err)
		assert.False(t, res.Movement.ReasonID.Valid())
		assert.False(t, res.Movement.ClientID.Valid())
	})

	t.Run("motivo de otra dirección es inválido", func(t *testing.T) {
		f := setup(t)
		input := in(tenantA, "p1", 1)
		input.ReasonID = entity.SomeID("r-merma")
		_, err := f.uc.RecordMovement(ctx, input)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, int64(20), f.balance(t, tenantA, "p1"))
	})

	t.Run("motivo que exige cliente sin cliente", func(t *testing.T) {
		f := setup(t)
		input := out(tenantA, "p1", 1)
		input.ReasonID = entity.SomeID("r-venta")
		_, err := f.uc.RecordMovement(ctx, input)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "client_id", vErr.Field)

		input.ClientID = entity.SomeID("c1")
		res, err := f.uc.RecordMovement(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "c1", res.Movement.ClientID.ID())
		assert.Equal(t, "r-venta", res.Movement.ReasonID.ID())
	})

	t.Run("cliente sólo en salidas y proveedor sólo en entradas", func(t *testing.T) {
		f := setup(t)
		input := in(tenantA, "p1", 2)
		input.ClientID = entity.SomeID("c1")
		input.SupplierID = entity.SomeID("s1")
		res, err := f.uc.RecordMovement(ctx, input)
		require.NoError(t, err)
		assert.False(t, res.Movement.ClientID.Valid())
		assert.Equal(t, "s1", res.Movement.SupplierID.ID())

		input = out(tenantA, "p1", 2)
		input.ClientID = entity.SomeID("c1")
		input.SupplierID = entity.SomeID("s1")
		res, err = f.uc.RecordMovement(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "c1", res.Movement.ClientID.ID())
		assert.False(t, res.Movement.SupplierID.Valid())
	})

	t.Run("motivo borrado: el movimiento sigue legible sin motivo", func(t *testing.T) {
		f := setup(t)
		input := in(tenantA, "p1", 3)
		input.ReasonID = entity.SomeID("r-compra")
		res, err := f.uc.RecordMovement(ctx, input)
		require.NoError(t, err)

		require.NoError(t, f.store.Reasons().Delete(ctx, tenantA, "r-compra"))

		d, err := f.store.Movements().GetByID(ctx, tenantA, res.Movement.ID)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.False(t, d.ReasonID.Valid())
		assert.Empty(t, d.ReasonName)
		assert.Equal(t, int64(3), d.Quantity)
	})

	t.Run("nota demasiado larga", func(t *testing.T) {
		f := setup(t)
		input := in(tenantA, "p1", 1)
		input.Note = string(make([]rune, 501))
		_, err := f.uc.RecordMovement(ctx, input)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
