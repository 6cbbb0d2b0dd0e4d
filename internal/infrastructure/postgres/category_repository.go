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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categories (id, tenant_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.TenantID, c.Name, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Category, error) {
	return r.getOne(ctx, `WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *CategoryRepo) GetByName(ctx context.Context, tenantID, name string) (*entity.Category, error) {
	return r.getOne(ctx, `WHERE tenant_id = $1 AND lower(name) = lower($2)`, tenantID, name)
}

func (r *CategoryRepo) getOne(ctx context.Context, where string, args ...any) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, tenant_id, name, created_at, updated_at FROM categories `+where, args...).
		Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE categories SET name = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`,
		c.TenantID, c.ID, c.Name, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la categoría; products.category_id pasa a NULL por la FK ON DELETE SET NULL.
func (r *CategoryRepo) Delete(ctx context.Context, tenantID, id string) error {
	return deleteScoped(ctx, r.q, "categories", tenantID, id)
}

func (r *CategoryRepo) List(ctx context.Context, tenantID string, f repository.ListFilter) ([]*entity.Category, int, error) {
	total, err := countByName(ctx, r.q, "categories", tenantID, f.Search)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, tenant_id, name, created_at, updated_at FROM categories
		WHERE tenant_id = $1 AND ($2 = '' OR name ILIKE $3)
		ORDER BY lower(name), id LIMIT $4 OFFSET $5`,
		tenantID, f.Search, likePattern(f.Search), limitOrAll(f.Limit), f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Category, error) {
		var c entity.Category
		err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
		return &c, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan categories: %w", err)
	}
	return list, total, nil
}

// deleteScoped DELETE por (tenant, id) con ErrNotFound si no borró nada. table es una constante interna.
func deleteScoped(ctx context.Context, q Querier, table, tenantID, id string) error {
	cmd, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// countByName total para la paginación de datos maestros. table es una constante interna.
func countByName(ctx context.Context, q Querier, table, tenantID, search string) (int, error) {
	var total int
	err := q.QueryRow(ctx,
		`SELECT count(*) FROM `+table+` WHERE tenant_id = $1 AND ($2 = '' OR name ILIKE $3)`,
		tenantID, search, likePattern(search),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}
