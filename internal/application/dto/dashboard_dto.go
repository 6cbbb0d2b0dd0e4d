package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalValue      decimal.Decimal    `json:"total_value"` // Σ precio × cantidad
	TotalItems      int64              `json:"total_items"` // Σ cantidad
	TotalSKUs       int64              `json:"total_skus"`
	LowStock        []LowStockDTO      `json:"low_stock"`
	MovementsChart  []MovementChartDTO `json:"movements_chart"` // últimos 7 días
	RecentMovements []MovementResponse `json:"recent_movements"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// LowStockDTO producto bajo su umbral de stock.
type LowStockDTO struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Threshold int64  `json:"threshold"`
}

// MovementChartDTO entradas y salidas de un día.
type MovementChartDTO struct {
	Date string `json:"date"` // YYYY-MM-DD
	In   int64  `json:"in"`
	Out  int64  `json:"out"`
}
