package entity

import (
	"strings"
	"time"
)

// Vehicle vehículo de la flota. Placa única por empresa.
type Vehicle struct {
	ID        string
	CompanyID string
	Plate     string
	Brand     string
	Model     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizePlate deja la placa en mayúsculas y sin espacios ni guiones ("abc-123" -> "ABC123").
func NormalizePlate(p string) string {
	p = strings.ToUpper(strings.TrimSpace(p))
	return strings.NewReplacer(" ", "", "-", "").Replace(p)
}
