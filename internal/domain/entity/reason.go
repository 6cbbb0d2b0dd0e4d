package entity

import "time"

// Reason motivo de movimiento (venta, compra, merma, ajuste...). Los flags RequiresClient
// y RequiresSupplier son explícitos; no se infieren del nombre.
type Reason struct {
	ID               string
	TenantID         string
	Name             string
	Direction        Direction
	RequiresClient   bool
	RequiresSupplier bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
