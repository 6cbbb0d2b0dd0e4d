package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. InitialQuantity se registra como
// entrada de apertura en el kardex, nunca como escritura directa del saldo.
type CreateProductRequest struct {
	SKU             string          `json:"sku" validate:"required,min=1,max=100"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Description     string          `json:"description" validate:"max=2000"`
	Price           decimal.Decimal `json:"price"`
	InitialQuantity int64           `json:"initial_quantity" validate:"min=0"`
	CategoryID      string          `json:"category_id" validate:"max=64"`
	SupplierID      string          `json:"supplier_id" validate:"max=64"`
	ReorderPoint    int64           `json:"reorder_point" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin cantidad: se maneja vía movimientos).
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" validate:"omitempty,max=2000"`
	Price        *decimal.Decimal `json:"price"`
	CategoryID   *string          `json:"category_id" validate:"omitempty,max=64"`
	SupplierID   *string          `json:"supplier_id" validate:"omitempty,max=64"`
	ReorderPoint *int64           `json:"reorder_point" validate:"omitempty,min=0"`
}

// ProductListRequest filtros del listado de productos.
type ProductListRequest struct {
	PageRequest
	CategoryID string `query:"category_id"`
	SupplierID string `query:"supplier_id"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string            `json:"id"`
	SKU          string            `json:"sku"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Price        decimal.Decimal   `json:"price"`
	Quantity     int64             `json:"quantity"`
	CategoryID   entity.OptionalID `json:"category_id"`
	SupplierID   entity.OptionalID `json:"supplier_id"`
	ReorderPoint int64             `json:"reorder_point"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
