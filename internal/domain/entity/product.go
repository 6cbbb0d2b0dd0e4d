package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario de un tenant.
// Quantity es el saldo actual (kardex); sólo lo modifica el motor de movimientos.
type Product struct {
	ID           string
	TenantID     string
	SKU          string // código único por tenant
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta
	Quantity     int64           // saldo, siempre >= 0
	CategoryID   OptionalID
	SupplierID   OptionalID
	ReorderPoint int64 // 0 = usar el umbral por defecto del tenant
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si el saldo está por debajo del punto de reorden (o del umbral por defecto).
func (p *Product) IsLowStock(defaultThreshold int64) bool {
	threshold := p.ReorderPoint
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	return p.Quantity < threshold
}
