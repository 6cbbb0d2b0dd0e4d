package inventory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o ctx se cancela antes del Commit) no queda ningún efecto visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error
}

// Resultados de un intento de movimiento, usados como etiqueta de métricas.
const (
	OutcomeCommitted         = "committed"
	OutcomeInvalid           = "invalid"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeStorageFailure    = "storage_failure"
)

// MovementObserver recibe el resultado de cada intento de movimiento (métricas).
type MovementObserver interface {
	ObserveMovement(direction entity.Direction, outcome string)
}
