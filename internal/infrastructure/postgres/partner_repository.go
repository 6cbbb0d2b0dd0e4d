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

var (
	_ repository.ClientRepository   = (*ClientRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// partnerTable columnas compartidas por clients y suppliers.
type partnerTable struct {
	q     Querier
	table string
}

const partnerColumns = `id, tenant_id, name, contact_name, phone, email, created_at, updated_at`

func (t partnerTable) insert(ctx context.Context, args ...any) error {
	_, err := t.q.Exec(ctx,
		`INSERT INTO `+t.table+` (`+partnerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", t.table, err)
	}
	return nil
}

func (t partnerTable) update(ctx context.Context, args ...any) error {
	cmd, err := t.q.Exec(ctx, `
		UPDATE `+t.table+` SET name = $3, contact_name = $4, phone = $5, email = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update %s: %w", t.table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t partnerTable) queryOne(ctx context.Context, where string, args []any, dest ...any) (bool, error) {
	err := t.q.QueryRow(ctx, `SELECT `+partnerColumns+` FROM `+t.table+` `+where, args...).Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get %s: %w", t.table, err)
	}
	return true, nil
}

func (t partnerTable) list(ctx context.Context, tenantID string, f repository.ListFilter) (pgx.Rows, int, error) {
	total, err := countByName(ctx, t.q, t.table, tenantID, f.Search)
	if err != nil {
		return nil, 0, err
	}
	rows, err := t.q.Query(ctx, `
		SELECT `+partnerColumns+` FROM `+t.table+`
		WHERE tenant_id = $1 AND ($2 = '' OR name ILIKE $3)
		ORDER BY lower(name), id LIMIT $4 OFFSET $5`,
		tenantID, f.Search, likePattern(f.Search), limitOrAll(f.Limit), f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", t.table, err)
	}
	return rows, total, nil
}

// ClientRepo clientes sobre PostgreSQL (usable con pool o tx).
type ClientRepo struct {
	t partnerTable
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{t: partnerTable{q: q, table: "clients"}}
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	return r.t.insert(ctx, c.ID, c.TenantID, c.Name, c.ContactName, c.Phone, c.Email, c.CreatedAt, c.UpdatedAt)
}

func (r *ClientRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Client, error) {
	return r.get(ctx, `WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *ClientRepo) GetByName(ctx context.Context, tenantID, name string) (*entity.Client, error) {
	return r.get(ctx, `WHERE tenant_id = $1 AND lower(name) = lower($2)`, tenantID, name)
}

func (r *ClientRepo) get(ctx context.Context, where string, args ...any) (*entity.Client, error) {
	var c entity.Client
	ok, err := r.t.queryOne(ctx, where, args, &c.ID, &c.TenantID, &c.Name, &c.ContactName, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	return r.t.update(ctx, c.TenantID, c.ID, c.Name, c.ContactName, c.Phone, c.Email, c.UpdatedAt)
}

// Delete borra el cliente; los movimientos conservan el id y lo muestran como ausente.
func (r *ClientRepo) Delete(ctx context.Context, tenantID, id string) error {
	return deleteScoped(ctx, r.t.q, r.t.table, tenantID, id)
}

func (r *ClientRepo) List(ctx context.Context, tenantID string, f repository.ListFilter) ([]*entity.Client, int, error) {
	rows, total, err := r.t.list(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Client, error) {
		var c entity.Client
		err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.ContactName, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt)
		return &c, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan clients: %w", err)
	}
	return list, total, nil
}

// SupplierRepo proveedores sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	t partnerTable
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{t: partnerTable{q: q, table: "suppliers"}}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	return r.t.insert(ctx, s.ID, s.TenantID, s.Name, s.ContactName, s.Phone, s.Email, s.CreatedAt, s.UpdatedAt)
}

func (r *SupplierRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Supplier, error) {
	return r.get(ctx, `WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *SupplierRepo) GetByName(ctx context.Context, tenantID, name string) (*entity.Supplier, error) {
	return r.get(ctx, `WHERE tenant_id = $1 AND lower(name) = lower($2)`, tenantID, name)
}

func (r *SupplierRepo) get(ctx context.Context, where string, args ...any) (*entity.Supplier, error) {
	var s entity.Supplier
	ok, err := r.t.queryOne(ctx, where, args, &s.ID, &s.TenantID, &s.Name, &s.ContactName, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	return r.t.update(ctx, s.TenantID, s.ID, s.Name, s.ContactName, s.Phone, s.Email, s.UpdatedAt)
}

// Delete borra el proveedor; products.supplier_id pasa a NULL (ON DELETE SET NULL).
func (r *SupplierRepo) Delete(ctx context.Context, tenantID, id string) error {
	return deleteScoped(ctx, r.t.q, r.t.table, tenantID, id)
}

func (r *SupplierRepo) List(ctx context.Context, tenantID string, f repository.ListFilter) ([]*entity.Supplier, int, error) {
	rows, total, err := r.t.list(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Supplier, error) {
		var s entity.Supplier
		err := row.Scan(&s.ID, &s.TenantID, &s.Name, &s.ContactName, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt)
		return &s, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan suppliers: %w", err)
	}
	return list, total, nil
}
