package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

func TestDelta(t *testing.T) {
	assert.Equal(t, int64(10), inventory.Delta(entity.DirectionIN, 10))
	assert.Equal(t, int64(-4), inventory.Delta(entity.DirectionOUT, 4))
}

func TestValidateMovement_RechazaCantidadNoPositiva(t *testing.T) {
	for _, dir := range []entity.Direction{entity.DirectionIN, entity.DirectionOUT} {
		for _, q := range []int64{0, -1, -100} {
			err := inventory.ValidateMovement(dir, q)
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "dir=%s q=%d", dir, q)
		}
	}
	assert.ErrorIs(t, inventory.ValidateMovement("SIDEWAYS", 1), domain.ErrInvalidInput)
	assert.NoError(t, inventory.ValidateMovement(entity.DirectionIN, 1))
}

func TestApply_EntradaSinTope(t *testing.T) {
	got, err := inventory.Apply(1<<40, entity.DirectionIN, 1<<40)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<41), got)
}

func TestApply_EntradaDesbordaSaldo(t *testing.T) {
	got, err := inventory.Apply(1, entity.DirectionIN, math.MaxInt64)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(1), got)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)

	got, err = inventory.Apply(1, entity.DirectionIN, math.MaxInt64-1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestApply_SalidaDentroDelSaldo(t *testing.T) {
	got, err := inventory.Apply(10, entity.DirectionOUT, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got)

	got, err = inventory.Apply(5, entity.DirectionOUT, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestApply_SalidaExcedeSaldo(t *testing.T) {
	got, err := inventory.Apply(5, entity.DirectionOUT, 8)
	require.Error(t, err)
	assert.Equal(t, int64(5), got)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(8), stockErr.Requested)
	assert.Equal(t, int64(5), stockErr.Current)
	assert.Equal(t, int64(-3), stockErr.Candidate)
	assert.Equal(t, int64(3), stockErr.Shortfall())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func movement(seq int64, dir entity.Direction, q, after int64) *entity.Movement {
	return &entity.Movement{
		ID: "m" + string(rune('0'+seq)), Sequence: seq, Direction: dir, Quantity: q,
		Delta: inventory.Delta(dir, q), BalanceAfter: after,
	}
}

func TestReplay_LibroConsistente(t *testing.T) {
	movs := []*entity.Movement{
		movement(1, entity.DirectionIN, 10, 10),
		movement(2, entity.DirectionOUT, 4, 6),
		movement(3, entity.DirectionIN, 1, 7),
	}
	res := inventory.Replay(0, movs, 7)
	assert.True(t, res.Consistent())
	assert.Equal(t, int64(7), res.ComputedTotal)
	assert.Equal(t, 3, res.Movements)
}

func TestReplay_DetectaSaldoDescuadrado(t *testing.T) {
	movs := []*entity.Movement{
		movement(1, entity.DirectionIN, 10, 10),
		movement(2, entity.DirectionOUT, 4, 5),
	}
	res := inventory.Replay(0, movs, 9)
	require.False(t, res.Consistent())
	assert.Len(t, res.Discrepancies, 2)
	assert.Equal(t, "m2", res.Discrepancies[0].MovementID)
	assert.Equal(t, "", res.Discrepancies[1].MovementID)
	assert.Equal(t, int64(6), res.Discrepancies[1].Expected)
	assert.Equal(t, int64(9), res.Discrepancies[1].Recorded)
}
