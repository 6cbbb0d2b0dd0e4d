package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Append-only.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// detailSelect resuelve nombres con LEFT JOIN; una referencia cuyo registro ya no existe
// (o es de otro tenant) se devuelve como NULL.
const detailSelect = `
	SELECT m.id, m.seq, m.tenant_id, m.product_id, m.direction, m.quantity, m.delta, m.balance_after,
	       r.id, c.id, s.id, m.note, m.created_by, m.created_at,
	       COALESCE(p.name, ''), COALESCE(p.sku, ''), COALESCE(r.name, ''), COALESCE(c.name, ''), COALESCE(s.name, '')
	FROM movements m
	LEFT JOIN products  p ON p.id = m.product_id  AND p.tenant_id = m.tenant_id
	LEFT JOIN reasons   r ON r.id = m.reason_id   AND r.tenant_id = m.tenant_id
	LEFT JOIN clients   c ON c.id = m.client_id   AND c.tenant_id = m.tenant_id
	LEFT JOIN suppliers s ON s.id = m.supplier_id AND s.tenant_id = m.tenant_id`

// Append inserta el movimiento y asigna Sequence desde la secuencia de la tabla.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, tenant_id, product_id, direction, quantity, delta, balance_after,
		                       reason_id, client_id, supplier_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.TenantID, m.ProductID, string(m.Direction), m.Quantity, m.Delta, m.BalanceAfter,
		m.ReasonID.Ptr(), m.ClientID.Ptr(), m.SupplierID.Ptr(), m.Note, m.CreatedBy, m.CreatedAt,
	).Scan(&m.Sequence)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID nil, nil si no existe en el tenant.
func (r *MovementRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.MovementDetail, error) {
	row := r.q.QueryRow(ctx, detailSelect+` WHERE m.tenant_id = $1 AND m.id = $2`, tenantID, id)
	d, err := scanDetail(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return d, nil
}

// List kardex filtrado, más recientes primero, con total.
func (r *MovementRepo) List(ctx context.Context, tenantID string, f repository.MovementFilter) ([]*entity.MovementDetail, int, error) {
	conds := []string{"m.tenant_id = $1"}
	args := []any{tenantID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if f.ProductID != "" {
		add("m.product_id = ?", f.ProductID)
	}
	if f.Direction != "" {
		add("m.direction = ?", string(f.Direction))
	}
	if f.From != nil {
		add("m.created_at >= ?", *f.From)
	}
	if f.To != nil {
		add("m.created_at <= ?", *f.To)
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM movements m`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	n := len(args)
	query := detailSelect + where + fmt.Sprintf(` ORDER BY m.seq DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	rows, err := r.q.Query(ctx, query, append(args, limitOrAll(f.Limit), f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.MovementDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate movements: %w", err)
	}
	return list, total, nil
}

// ListForReplay movimientos del producto en orden de confirmación, sin resolver nombres.
func (r *MovementRepo) ListForReplay(ctx context.Context, tenantID, productID string) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, seq, tenant_id, product_id, direction, quantity, delta, balance_after,
		       reason_id, client_id, supplier_id, note, created_by, created_at
		FROM movements WHERE tenant_id = $1 AND product_id = $2 ORDER BY seq`, tenantID, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements for replay: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var (
			m                        entity.Movement
			direction                string
			reason, client, supplier *string
		)
		if err := rows.Scan(&m.ID, &m.Sequence, &m.TenantID, &m.ProductID, &direction, &m.Quantity, &m.Delta, &m.BalanceAfter,
			&reason, &client, &supplier, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Direction = entity.Direction(direction)
		m.ReasonID, m.ClientID, m.SupplierID = optionalID(reason), optionalID(client), optionalID(supplier)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return list, nil
}

func scanDetail(row pgx.Row) (*entity.MovementDetail, error) {
	var (
		d                        entity.MovementDetail
		direction                string
		reason, client, supplier *string
	)
	err := row.Scan(
		&d.ID, &d.Sequence, &d.TenantID, &d.ProductID, &direction, &d.Quantity, &d.Delta, &d.BalanceAfter,
		&reason, &client, &supplier, &d.Note, &d.CreatedBy, &d.CreatedAt,
		&d.ProductName, &d.ProductSKU, &d.ReasonName, &d.ClientName, &d.SupplierName,
	)
	if err != nil {
		return nil, err
	}
	d.Direction = entity.Direction(direction)
	d.ReasonID, d.ClientID, d.SupplierID = optionalID(reason), optionalID(client), optionalID(supplier)
	return &d, nil
}
