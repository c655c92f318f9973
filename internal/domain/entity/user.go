package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleGerente   = "gerente"
	RoleConductor = "conductor"
)

// Estados de usuario.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // admin, gerente, conductor
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsManager indica si el rol puede administrar rutas y caja (admin o gerente).
func IsManager(role string) bool {
	return role == RoleAdmin || role == RoleGerente
}

// ValidRole indica si el rol es uno de los soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleGerente || role == RoleConductor
}

// IsDriver indica si el usuario es conductor.
func (u *User) IsDriver() bool { return u.Role == RoleConductor }
