package entity

import "time"

// Company representa una empresa/tenant del sistema. Todo lo demás (rutas, clientes, vehículos) cuelga de ella.
type Company struct {
	ID        string
	Name      string
	Slug      string // identificador corto único, usado en URLs y en el login
	NIT       string // NIT colombiano (con o sin dígito de verificación)
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
