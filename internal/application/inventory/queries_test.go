package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func TestRecordFromRequest(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 0)

	resp, err := f.uc.RecordFromRequest(context.Background(), tenantA, userA, dto.RecordMovementRequest{
		ProductID: "p1", Type: "in", Quantity: 12, ReasonID: "none", SupplierID: "", Notes: "  compra  ",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.NewBalance)
	assert.Equal(t, resp.MovementID, resp.Movement.ID)
	assert.Equal(t, entity.DirectionIN, resp.Movement.Type)
	assert.Equal(t, "compra", resp.Movement.Notes)
	assert.False(t, resp.Movement.ReasonID.Valid())

	_, err = f.uc.RecordFromRequest(context.Background(), tenantA, userA, dto.RecordMovementRequest{ProductID: "p1", Type: "transfer", Quantity: 1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKardexQuery(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 10)
	f.product(t, tenantA, "p2", 5)
	_, err := f.uc.RecordMovement(context.Background(), out(tenantA, "p1", 3))
	require.NoError(t, err)

	q := inventory.NewKardexQueryUseCase(f.store.Movements())

	all, err := q.ListMovements(context.Background(), tenantA, dto.MovementListRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, 3, all.Page.Total)
	assert.Equal(t, entity.DirectionOUT, all.Items[0].Type, "más recientes primero")
	assert.Equal(t, "Producto p1", all.Items[0].ProductName)

	onlyP1, err := q.ListMovements(context.Background(), tenantA, dto.MovementListRequest{ProductID: "p1", Type: "IN"})
	require.NoError(t, err)
	require.Len(t, onlyP1.Items, 1)
	assert.Equal(t, int64(10), onlyP1.Items[0].Quantity)

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	none, err := q.ListMovements(context.Background(), tenantA, dto.MovementListRequest{From: tomorrow})
	require.NoError(t, err)
	assert.Empty(t, none.Items)

	_, err = q.ListMovements(context.Background(), tenantA, dto.MovementListRequest{From: "ayer"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := q.GetMovement(context.Background(), tenantA, all.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.BalanceAfter)

	_, err = q.GetMovement(context.Background(), tenantB, all.Items[0].ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAudit(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 10)
	_, err := f.uc.RecordMovement(context.Background(), out(tenantA, "p1", 4))
	require.NoError(t, err)

	audit := inventory.NewAuditUseCase(f.store.TxRunner(), f.store.Products(), nil)

	resp, err := audit.AuditProduct(context.Background(), tenantA, "p1")
	require.NoError(t, err)
	assert.True(t, resp.Consistent)
	assert.Equal(t, int64(6), resp.StoredBalance)
	assert.Equal(t, int64(6), resp.LedgerBalance)
	assert.Equal(t, 2, resp.Movements)

	// Un movimiento escrito por fuera del motor rompe la conciliación
	require.NoError(t, f.store.Movements().Append(context.Background(), &entity.Movement{
		TenantID: tenantA, ProductID: "p1", Direction: entity.DirectionIN, Quantity: 1, Delta: 1, BalanceAfter: 7,
		CreatedAt: time.Now().UTC(),
	}))
	resp, err = audit.AuditProduct(context.Background(), tenantA, "p1")
	require.NoError(t, err)
	assert.False(t, resp.Consistent)
	assert.Equal(t, int64(7), resp.LedgerBalance)
	require.NotEmpty(t, resp.Discrepancies)

	inconsistent, err := audit.AuditTenant(context.Background(), tenantA)
	require.NoError(t, err)
	require.Len(t, inconsistent, 1)
	assert.Equal(t, "p1", inconsistent[0].ProductID)

	_, err = audit.AuditProduct(context.Background(), tenantB, "p1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplenishment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for _, p := range []*entity.Product{
		{ID: "a", TenantID: tenantA, SKU: "A", Name: "A", ReorderPoint: 20, CreatedAt: now, UpdatedAt: now},
		{ID: "b", TenantID: tenantA, SKU: "B", Name: "B", CreatedAt: now, UpdatedAt: now}, // umbral por defecto 10
		{ID: "c", TenantID: tenantA, SKU: "C", Name: "C", ReorderPoint: 5, CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, f.store.Products().Create(ctx, p))
	}
	_, err := f.uc.RecordMovement(ctx, in(tenantA, "a", 15))
	require.NoError(t, err)
	_, err = f.uc.RecordMovement(ctx, in(tenantA, "b", 2))
	require.NoError(t, err)
	_, err = f.uc.RecordMovement(ctx, in(tenantA, "c", 9))
	require.NoError(t, err)

	uc := inventory.NewReplenishmentUseCase(f.store.Dashboard(), 10)
	list, err := uc.GenerateReplenishmentList(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, list, 2, "c está sobre su punto de reorden")

	// b: déficit 8/10 = 80%; a: 5/20 = 25%
	assert.Equal(t, "b", list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(10), list[0].ReorderPoint)
	assert.Equal(t, int64(15), list[0].IdealStock)
	assert.Equal(t, int64(13), list[0].SuggestedOrderQty)

	assert.Equal(t, "a", list[1].ProductID)
	assert.Equal(t, int64(30), list[1].IdealStock)
	assert.Equal(t, int64(15), list[1].SuggestedOrderQty)
}

func TestAuditAll(t *testing.T) {
	f := newFixture(t)
	f.product(t, tenantA, "p1", 3)
	f.product(t, tenantB, "p2", 4)

	audit := inventory.NewAuditUseCase(f.store.TxRunner(), f.store.Products(), nil)
	n, err := audit.AuditAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
