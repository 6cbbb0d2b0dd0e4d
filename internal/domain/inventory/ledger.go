// Package inventory contiene las reglas puras del kardex: cálculo del delta, guarda de
// saldo no negativo y reconstrucción del saldo a partir del libro de movimientos.
package inventory

import (
	"math"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Delta devuelve +quantity para IN y -quantity para OUT.
func Delta(direction entity.Direction, quantity int64) int64 {
	if direction == entity.DirectionOUT {
		return -quantity
	}
	return quantity
}

// ValidateMovement rechaza cantidades no positivas y direcciones desconocidas.
func ValidateMovement(direction entity.Direction, quantity int64) error {
	if !direction.Valid() {
		return domain.Invalid("direction", "debe ser IN u OUT")
	}
	if quantity <= 0 {
		return domain.Invalid("quantity", "debe ser un entero positivo")
	}
	return nil
}

// Apply calcula el saldo candidato. Una salida que dejaría el saldo negativo devuelve
// *domain.InsufficientStockError. Una entrada sólo se rechaza si el saldo no cabe en int64.
func Apply(current int64, direction entity.Direction, quantity int64) (int64, error) {
	if direction == entity.DirectionIN && quantity > math.MaxInt64-current {
		return current, domain.Invalid("quantity", "el saldo resultante excede el máximo representable")
	}
	candidate := current + Delta(direction, quantity)
	if direction == entity.DirectionOUT && candidate < 0 {
		return current, &domain.InsufficientStockError{
			Requested: quantity,
			Current:   current,
			Candidate: candidate,
		}
	}
	return candidate, nil
}

// Discrepancy inconsistencia detectada al reproducir el libro.
type Discrepancy struct {
	MovementID string
	Sequence   int64
	Expected   int64 // saldo según la suma de deltas
	Recorded   int64 // saldo registrado en el movimiento (o en el producto, si MovementID == "")
	Message    string
}

// ReplayResult resultado de reproducir el libro de un producto.
type ReplayResult struct {
	Movements     int
	ComputedTotal int64
	Discrepancies []Discrepancy
}

// Consistent indica si el libro y el saldo coinciden.
func (r ReplayResult) Consistent() bool { return len(r.Discrepancies) == 0 }

// Replay suma los deltas en orden de confirmación a partir de initial y compara cada
// BalanceAfter con el saldo acumulado. Los movimientos deben venir ordenados por Sequence.
func Replay(initial int64, movements []*entity.Movement, storedBalance int64) ReplayResult {
	res := ReplayResult{Movements: len(movements)}
	running := initial
	for _, m := range movements {
		if m.Delta != Delta(m.Direction, m.Quantity) {
			res.Discrepancies = append(res.Discrepancies, Discrepancy{
				MovementID: m.ID, Sequence: m.Sequence, Expected: Delta(m.Direction, m.Quantity), Recorded: m.Delta,
				Message: "delta no corresponde a dirección y cantidad",
			})
		}
		running += m.Delta
		if running < 0 {
			res.Discrepancies = append(res.Discrepancies, Discrepancy{
				MovementID: m.ID, Sequence: m.Sequence, Expected: running, Recorded: m.BalanceAfter,
				Message: "saldo acumulado negativo",
			})
		}
		if m.BalanceAfter != running {
			res.Discrepancies = append(res.Discrepancies, Discrepancy{
				MovementID: m.ID, Sequence: m.Sequence, Expected: running, Recorded: m.BalanceAfter,
				Message: "saldo posterior registrado no coincide con la suma de deltas",
			})
		}
	}
	res.ComputedTotal = running
	if running != storedBalance {
		res.Discrepancies = append(res.Discrepancies, Discrepancy{
			Expected: running, Recorded: storedBalance,
			Message: "saldo del producto no coincide con el libro",
		})
	}
	return res
}
