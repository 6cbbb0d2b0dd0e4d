package dto

import (
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CategoryRequest alta/edición de categoría.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartnerRequest alta/edición de cliente o proveedor.
type PartnerRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	ContactName string `json:"contact_name" validate:"max=200"`
	Phone       string `json:"phone" validate:"max=50"`
	Email       string `json:"email" validate:"omitempty,email,max=200"`
}

// PartnerResponse salida de un cliente o proveedor.
type PartnerResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReasonRequest alta/edición de motivo de movimiento.
type ReasonRequest struct {
	Name             string `json:"name" validate:"required,min=1,max=100"`
	Type             string `json:"type" validate:"required,oneof=IN OUT in out"`
	RequiresClient   bool   `json:"requires_client"`
	RequiresSupplier bool   `json:"requires_supplier"`
}

// ReasonResponse salida de un motivo.
type ReasonResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Type             entity.Direction `json:"type"`
	RequiresClient   bool             `json:"requires_client"`
	RequiresSupplier bool             `json:"requires_supplier"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ListResponse lista paginada genérica de datos maestros.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}
