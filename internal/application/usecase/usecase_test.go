package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

const (
	tenantA = "tenant-a"
	tenantB = "tenant-b"
	userA   = "user-a"
)

type fixture struct {
	store      *memory.Store
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	suppliers  *usecase.SupplierUseCase
	clients    *usecase.ClientUseCase
	reasons    *usecase.ReasonUseCase
	movements  *inventory.RegisterMovementUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	movements := inventory.NewRegisterMovementUseCase(store.TxRunner(), inventory.MovementConfig{})
	return &fixture{
		store:      store,
		products:   usecase.NewProductUseCase(store.Products(), store.Categories(), store.Suppliers(), store.TxRunner(), movements),
		categories: usecase.NewCategoryUseCase(store.Categories()),
		suppliers:  usecase.NewSupplierUseCase(store.Suppliers()),
		clients:    usecase.NewClientUseCase(store.Clients()),
		reasons:    usecase.NewReasonUseCase(store.Reasons()),
		movements:  movements,
	}
}

func TestProduct_CreateConStockInicialPasaPorElKardex(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.products.Create(ctx, tenantA, userA, dto.CreateProductRequest{
		SKU: "CAF-01", Name: "  Café   molido ", Price: decimal.RequireFromString("12.50"), InitialQuantity: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, "Café molido", p.Name)
	assert.Equal(t, int64(8), p.Quantity)

	list, total, err := f.store.Movements().List(ctx, tenantA, repository.MovementFilter{ProductID: p.ID})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, int64(8), list[0].BalanceAfter)
	assert.Equal(t, usecase.InitialStockNote, list[0].Note)
	assert.Equal(t, userA, list[0].CreatedBy)

	sinStock, err := f.products.Create(ctx, tenantA, userA, dto.CreateProductRequest{SKU: "CAF-02", Name: "Café en grano"})
	require.NoError(t, err)
	_, total, err = f.store.Movements().List(ctx, tenantA, repository.MovementFilter{ProductID: sinStock.ID})
	require.NoError(t, err)
	assert.Zero(t, total, "sin stock inicial no hay movimiento de apertura")
}

func TestProduct_SKUDuplicado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.products.Create(ctx, tenantA, userA, dto.CreateProductRequest{SKU: "abc-1", Name: "Uno", InitialQuantity: 3})
	require.NoError(t, err)

	_, err = f.products.Create(ctx, tenantA, userA, dto.CreateProductRequest{SKU: "ABC-1", Name: "Otro", InitialQuantity: 5})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, total, err := f.store.Movements().List(ctx, tenantA, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total, "el alta rechazada no deja movimiento")

	_, err = f.products.Create(ctx, tenantB, userA, dto.CreateProductRequest{SKU: "ABC-1", Name: "Otro tenant"})
	assert.NoError(t, err, "el SKU es único por tenant")
}

func TestProduct_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := map[string]dto.CreateProductRequest{
		"sku vacío":        {SKU: "  ", Name: "X"},
		"nombre vacío":     {SKU: "X", Name: " "},
		"precio negativo":  {SKU: "X", Name: "X", Price: decimal.NewFromInt(-1)},
		"stock negativo":   {SKU: "X", Name: "X", InitialQuantity: -2},
		"reorden negativo": {SKU: "X", Name: "X", ReorderPoint: -1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.products.Create(ctx, tenantA, userA, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProduct_UpdateNoTocaLaCantidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.products.Create(ctx, tenantA, userA, dto.CreateProductRequest{SKU: "S1", Name: "Azúcar", InitialQuantity: 10})
	require.NoError(t, err)
	_, err = f.movements.RecordMovement(ctx, inventory.MovementInput{TenantID: tenantA, ProductID: p.ID, Direction: "OUT", Quantity: 3})
	require.NoError(t, err)

	newName := "Azúcar morena"
	reorder := int64(4)
	out, err := f.products.Update(ctx, tenantA, p.ID, dto.UpdateProductRequest{Name: &newName, ReorderPoint: &reorder})
	require.NoError(t, err)
	assert.Equal(t, newName, out.Name)
	assert.Equal(t, int64(4), out.ReorderPoint)
	assert.Equal(t, int64(7), out.Quantity)

	got, err := f.products.GetByID(ctx, tenantA, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Quantity)

	_, err = f.products.Update(ctx, tenantB, p.ID, dto.UpdateProductRequest{Name: &newName})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_ReferenciasTolerantes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cat, err := f.categories.Create(ctx, tenantA, dto.CategoryRequest{Name: "Lácteos"})
	require.NoError(t, err)
	foreign, err := f.categories.Create(ctx, tenantB, dto.CategoryRequest{Name: "Ajena"})
	require.NoError(t, err)

	p, err := f.products.Create(ctx, tenantA, userA, dto.CreateProductRequest{SKU: "L1", Name: "Leche", CategoryID: cat.ID, SupplierID: "none"})
	require.NoError(t, err)
	assert.Equal(t, cat.ID, p.CategoryID.ID())
	assert.False(t, p.SupplierID.Valid())

	q, err := f.products.Create(ctx, tenantA, userA, dto.CreateProductRequest{SKU: "L2", Name: "Queso", CategoryID: foreign.ID})
	require.NoError(t, err)
	assert.False(t, q.CategoryID.Valid(), "una categoría de otro tenant se descarta")

	require.NoError(t, f.categories.Delete(ctx, tenantA, cat.ID))
	got, err := f.products.GetByID(ctx, tenantA, p.ID)
	require.NoError(t, err)
	assert.False(t, got.CategoryID.Valid(), "borrar la categoría deja el producto sin categoría")

	list, err := f.products.List(ctx, tenantA, dto.ProductListRequest{PageRequest: dto.PageRequest{Search: "que"}})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Queso", list.Items[0].Name)
	assert.Equal(t, 1, list.Page.Total)
}

func TestProduct_DeleteConservaElKardex(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.products.Create(ctx, tenantA, userA, dto.CreateProductRequest{SKU: "D1", Name: "Desechable", InitialQuantity: 2})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, tenantA, p.ID))

	_, err = f.products.GetByID(ctx, tenantA, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, total, err := f.store.Movements().List(ctx, tenantA, repository.MovementFilter{ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	assert.ErrorIs(t, f.products.Delete(ctx, tenantA, p.ID), domain.ErrNotFound)
}

func TestCategory_NombresUnicosSinMayusculas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.categories.Create(ctx, tenantA, dto.CategoryRequest{Name: "Limpieza"})
	require.NoError(t, err)
	b, err := f.categories.Create(ctx, tenantA, dto.CategoryRequest{Name: "Aseo"})
	require.NoError(t, err)

	_, err = f.categories.Create(ctx, tenantA, dto.CategoryRequest{Name: "LIMPIEZA"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.categories.Update(ctx, tenantA, b.ID, dto.CategoryRequest{Name: "limpieza"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	renamed, err := f.categories.Update(ctx, tenantA, a.ID, dto.CategoryRequest{Name: "LIMPIEZA"})
	require.NoError(t, err, "renombrar a sí mismo con otras mayúsculas es válido")
	assert.Equal(t, "LIMPIEZA", renamed.Name)

	_, err = f.categories.Create(ctx, tenantB, dto.CategoryRequest{Name: "Limpieza"})
	assert.NoError(t, err)

	list, err := f.categories.List(ctx, tenantA, dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 2, list.Page.Total)
	assert.Equal(t, "Aseo", list.Items[0].Name)

	_, err = f.categories.GetByID(ctx, tenantB, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPartners_ClientesYProveedores(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	s, err := f.suppliers.Create(ctx, tenantA, dto.PartnerRequest{Name: "Distribuidora Norte", Phone: "555-1234"})
	require.NoError(t, err)
	assert.Equal(t, "555-1234", s.Phone)

	_, err = f.suppliers.Create(ctx, tenantA, dto.PartnerRequest{Name: "distribuidora  norte"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.clients.Create(ctx, tenantA, dto.PartnerRequest{Name: "Distribuidora Norte"})
	assert.NoError(t, err, "clientes y proveedores tienen nombres independientes")

	updated, err := f.suppliers.Update(ctx, tenantA, s.ID, dto.PartnerRequest{Name: "Distribuidora Norte", Email: "compras@norte.com"})
	require.NoError(t, err)
	assert.Equal(t, "compras@norte.com", updated.Email)

	_, err = f.clients.Create(ctx, tenantA, dto.PartnerRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReason_FlagsSatisfacibles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	venta, err := f.reasons.Create(ctx, tenantA, dto.ReasonRequest{Name: "Venta", Type: "out", RequiresClient: true})
	require.NoError(t, err)
	assert.Equal(t, "OUT", string(venta.Type))
	assert.True(t, venta.RequiresClient)

	_, err = f.reasons.Create(ctx, tenantA, dto.ReasonRequest{Name: "Compra", Type: "IN", RequiresClient: true})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reasons.Create(ctx, tenantA, dto.ReasonRequest{Name: "Devolución", Type: "OUT", RequiresSupplier: true})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reasons.Create(ctx, tenantA, dto.ReasonRequest{Name: "Ajuste", Type: "TRANSFER"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reasons.Create(ctx, tenantA, dto.ReasonRequest{Name: "venta", Type: "OUT"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
