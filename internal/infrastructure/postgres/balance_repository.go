package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo saldo guardado en products.quantity. Sólo tiene sentido dentro de una tx.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldo. Pasar la tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// GetForUpdate lee el saldo y bloquea la fila del producto hasta el fin de la tx.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, tenantID, productID string) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx,
		`SELECT quantity FROM products WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		tenantID, productID,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("lock balance: %w", err)
	}
	return qty, nil
}

// Set escribe el nuevo saldo. El CHECK (quantity >= 0) de la tabla es la última barrera.
func (r *BalanceRepo) Set(ctx context.Context, tenantID, productID string, quantity int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
