package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// MovementFilter filtros del kardex. Campos vacíos/nil no filtran.
type MovementFilter struct {
	ProductID string
	Direction entity.Direction
	From, To  *time.Time
	Limit     int
	Offset    int
}

// MovementRepository libro (ledger) append-only de movimientos.
// No expone actualización ni borrado de movimientos confirmados.
type MovementRepository interface {
	// Append persiste un movimiento nuevo; asigna ID si viene vacío y Sequence.
	Append(ctx context.Context, movement *entity.Movement) error
	// GetByID devuelve nil, nil si no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.MovementDetail, error)
	// List más recientes primero.
	List(ctx context.Context, tenantID string, filter MovementFilter) ([]*entity.MovementDetail, int, error)
	// ListForReplay todos los movimientos del producto en orden de confirmación.
	ListForReplay(ctx context.Context, tenantID, productID string) ([]*entity.Movement, error)
}
