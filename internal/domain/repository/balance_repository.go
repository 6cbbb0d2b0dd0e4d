package repository

import "context"

// BalanceRepository saldo actual (cantidad disponible) por (tenant, producto).
// Sólo debe usarse dentro de la unidad de trabajo del motor de movimientos.
type BalanceRepository interface {
	// GetForUpdate lee el saldo y bloquea la fila hasta el Commit/Rollback.
	// Devuelve domain.ErrNotFound si el producto no existe o es de otro tenant.
	GetForUpdate(ctx context.Context, tenantID, productID string) (int64, error)
	// Set escribe el nuevo saldo (previamente leído con GetForUpdate).
	Set(ctx context.Context, tenantID, productID string, quantity int64) error
}
