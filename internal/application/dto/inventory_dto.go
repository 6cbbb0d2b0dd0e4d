package dto

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RecordMovementRequest body para POST /api/inventory/movements.
// reason_id, client_id y supplier_id aceptan "none" o vacío como "sin selección".
type RecordMovementRequest struct {
	ProductID  string `json:"product_id" validate:"required,max=64"`
	Type       string `json:"type" validate:"required,oneof=IN OUT in out"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
	ReasonID   string `json:"reason_id" validate:"max=64"`
	ClientID   string `json:"client_id" validate:"max=64"`
	SupplierID string `json:"supplier_id" validate:"max=64"`
	Notes      string `json:"notes" validate:"max=500"`
}

// MovementListRequest filtros de GET /api/inventory/movements.
type MovementListRequest struct {
	ProductID string `query:"product_id"`
	Type      string `query:"type" validate:"omitempty,oneof=IN OUT in out"`
	From      string `query:"from"` // RFC3339 o YYYY-MM-DD
	To        string `query:"to"`
	Limit     int    `query:"limit" validate:"min=0,max=200"`
	Offset    int    `query:"offset" validate:"min=0"`
}

// MovementResponse movimiento del kardex.
type MovementResponse struct {
	ID           string            `json:"id"`
	Sequence     int64             `json:"sequence"`
	ProductID    string            `json:"product_id"`
	ProductName  string            `json:"product_name,omitempty"`
	ProductSKU   string            `json:"product_sku,omitempty"`
	Type         entity.Direction  `json:"type"`
	Quantity     int64             `json:"quantity"`
	Delta        int64             `json:"delta"`
	BalanceAfter int64             `json:"balance_after"`
	ReasonID     entity.OptionalID `json:"reason_id"`
	ReasonName   string            `json:"reason_name,omitempty"`
	ClientID     entity.OptionalID `json:"client_id"`
	ClientName   string            `json:"client_name,omitempty"`
	SupplierID   entity.OptionalID `json:"supplier_id"`
	SupplierName string            `json:"supplier_name,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	CreatedBy    string            `json:"created_by,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// RecordMovementResponse salida de POST /api/inventory/movements.
type RecordMovementResponse struct {
	MovementID string           `json:"movement_id"`
	Timestamp  time.Time        `json:"timestamp"`
	NewBalance int64            `json:"new_balance"`
	Movement   MovementResponse `json:"movement"`
}

// MovementListResponse lista paginada del kardex.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un SKU bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	ProductName       string `json:"product_name"`
	CurrentStock      int64  `json:"current_stock"`
	ReorderPoint      int64  `json:"reorder_point"`       // propio o umbral por defecto
	IdealStock        int64  `json:"ideal_stock"`         // ReorderPoint * 1.5
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // IdealStock - CurrentStock
	Priority          int    `json:"priority"`            // 1 = más urgente
}

// AuditDiscrepancyDTO inconsistencia encontrada al reproducir el kardex.
type AuditDiscrepancyDTO struct {
	MovementID string `json:"movement_id,omitempty"`
	Sequence   int64  `json:"sequence,omitempty"`
	Expected   int64  `json:"expected"`
	Recorded   int64  `json:"recorded"`
	Message    string `json:"message"`
}

// AuditResponse resultado de GET /api/products/:id/audit.
type AuditResponse struct {
	ProductID     string                `json:"product_id"`
	StoredBalance int64                 `json:"stored_balance"`
	LedgerBalance int64                 `json:"ledger_balance"`
	Movements     int                   `json:"movements"`
	Consistent    bool                  `json:"consistent"`
	Discrepancies []AuditDiscrepancyDTO `json:"discrepancies"`
}

// KardexReportRequest rango del reporte PDF del kardex de un producto.
type KardexReportRequest struct {
	From string `query:"from"` // RFC3339 o YYYY-MM-DD
	To   string `query:"to"`
}
