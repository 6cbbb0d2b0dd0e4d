package entity

import "time"

// Category categoría de productos de un tenant.
type Category struct {
	ID        string
	TenantID  string
	Name      string // único por tenant
	CreatedAt time.Time
	UpdatedAt time.Time
}
