package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout acota la espera por el
// bloqueo de fila de un producto (0 = sin límite propio, sólo el del contexto).
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. El bloqueo lo toma Balances.GetForUpdate (SELECT ... FOR UPDATE).
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if r.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(ctx, TxReposFor(tx)); err != nil {
		if isLockTimeout(err) {
			return fmt.Errorf("producto bloqueado por otro movimiento: %w", err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// TxReposFor repositorios atados a q (una pgx.Tx en la práctica).
func TxReposFor(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Movements:  NewMovementRepository(q),
		Balances:   NewBalanceRepository(q),
		Products:   NewProductRepository(q),
		Reasons:    NewReasonRepository(q),
		Clients:    NewClientRepository(q),
		Suppliers:  NewSupplierRepository(q),
		Categories: NewCategoryRepository(q),
	}
}
