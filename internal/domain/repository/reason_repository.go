package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ReasonRepository define el puerto de persistencia para motivos de movimiento.
type ReasonRepository interface {
	Create(ctx context.Context, reason *entity.Reason) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Reason, error)
	GetByName(ctx context.Context, tenantID, name string) (*entity.Reason, error)
	Update(ctx context.Context, reason *entity.Reason) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, filter ListFilter) ([]*entity.Reason, int, error)
}
