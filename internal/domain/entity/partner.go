package entity

import "time"

// Contact datos de contacto comunes a clientes y proveedores.
type Contact struct {
	ContactName string
	Phone       string
	Email       string
}

// Client cliente del tenant (destino de salidas tipo venta).
type Client struct {
	ID       string
	TenantID string
	Name     string
	Contact
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier proveedor del tenant (origen de entradas tipo compra).
type Supplier struct {
	ID       string
	TenantID string
	Name     string
	Contact
	CreatedAt time.Time
	UpdatedAt time.Time
}
