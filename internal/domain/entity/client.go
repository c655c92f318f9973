package entity

import "time"

// Client es el cliente al que se le presta un servicio de acarreo. Nombre único por empresa.
type Client struct {
	ID        string
	CompanyID string
	Name      string
	Contact   string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
