package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// balanceRepo saldo por producto; sólo existe dentro de una tx.
type balanceRepo struct {
	t *tx
}

func (r *balanceRepo) GetForUpdate(ctx context.Context, tenantID, productID string) (int64, error) {
	key := productKey(tenantID, productID)
	if !r.t.held[key] {
		if err := r.t.s.locks.lock(ctx, key); err != nil {
			return 0, err
		}
		r.t.held[key] = true
	}
	p := r.t.product(tenantID, productID)
	if p == nil {
		return 0, domain.ErrNotFound
	}
	if qty, ok := r.t.balances[productID]; ok {
		return qty, nil
	}
	return p.Quantity, nil
}

func (r *balanceRepo) Set(_ context.Context, tenantID, productID string, quantity int64) error {
	if !r.t.held[productKey(tenantID, productID)] {
		return fmt.Errorf("memory: Set sin GetForUpdate previo para %s", productID)
	}
	if quantity < 0 {
		return fmt.Errorf("memory: saldo negativo %d para %s", quantity, productID)
	}
	r.t.balances[productID] = quantity
	return nil
}
