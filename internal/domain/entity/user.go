package entity

import "time"

// User usuario del sistema. Cada usuario es su propio tenant: todos sus datos se
// particionan por su ID.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TenantID el tenant de un usuario es el propio usuario.
func (u *User) TenantID() string { return u.ID }
