package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ReasonRepository = (*ReasonRepo)(nil)

const reasonColumns = `id, tenant_id, name, direction, requires_client, requires_supplier, created_at, updated_at`

// ReasonRepo motivos de movimiento sobre PostgreSQL (usable con pool o tx).
type ReasonRepo struct {
	q Querier
}

// NewReasonRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReasonRepository(q Querier) *ReasonRepo {
	return &ReasonRepo{q: q}
}

func (r *ReasonRepo) Create(ctx context.Context, x *entity.Reason) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO reasons (`+reasonColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		x.ID, x.TenantID, x.Name, string(x.Direction), x.RequiresClient, x.RequiresSupplier, x.CreatedAt, x.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert reason: %w", err)
	}
	return nil
}

func (r *ReasonRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Reason, error) {
	return r.getOne(ctx, `WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *ReasonRepo) GetByName(ctx context.Context, tenantID, name string) (*entity.Reason, error) {
	return r.getOne(ctx, `WHERE tenant_id = $1 AND lower(name) = lower($2)`, tenantID, name)
}

func (r *ReasonRepo) getOne(ctx context.Context, where string, args ...any) (*entity.Reason, error) {
	x, err := scanReason(r.q.QueryRow(ctx, `SELECT `+reasonColumns+` FROM reasons `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reason: %w", err)
	}
	return x, nil
}

func (r *ReasonRepo) Update(ctx context.Context, x *entity.Reason) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE reasons SET name = $3, direction = $4, requires_client = $5, requires_supplier = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`,
		x.TenantID, x.ID, x.Name, string(x.Direction), x.RequiresClient, x.RequiresSupplier, x.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update reason: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el motivo; los movimientos que lo usaban lo muestran como ausente.
func (r *ReasonRepo) Delete(ctx context.Context, tenantID, id string) error {
	return deleteScoped(ctx, r.q, "reasons", tenantID, id)
}

func (r *ReasonRepo) List(ctx context.Context, tenantID string, f repository.ListFilter) ([]*entity.Reason, int, error) {
	total, err := countByName(ctx, r.q, "reasons", tenantID, f.Search)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+reasonColumns+` FROM reasons
		WHERE tenant_id = $1 AND ($2 = '' OR name ILIKE $3)
		ORDER BY lower(name), id LIMIT $4 OFFSET $5`,
		tenantID, f.Search, likePattern(f.Search), limitOrAll(f.Limit), f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reasons: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Reason, error) {
		return scanReason(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan reasons: %w", err)
	}
	return list, total, nil
}

func scanReason(row pgx.Row) (*entity.Reason, error) {
	var (
		x         entity.Reason
		direction string
	)
	if err := row.Scan(&x.ID, &x.TenantID, &x.Name, &direction, &x.RequiresClient, &x.RequiresSupplier, &x.CreatedAt, &x.UpdatedAt); err != nil {
		return nil, err
	}
	x.Direction = entity.Direction(direction)
	return &x, nil
}
