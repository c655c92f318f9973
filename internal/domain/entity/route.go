package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/shopspring/decimal"
)

// RouteState estado del ciclo de vida de una ruta. Solo existe la transición ACTIVE -> CLOSED.
type RouteState string

const (
	RouteActive RouteState = "ACTIVE"
	RouteClosed RouteState = "CLOSED"
)

// DefaultOpeningFloat base de efectivo por defecto al crear una ruta.
var DefaultOpeningFloat = decimal.NewFromInt(200000)

// Route recorrido de un día: un vehículo, un conductor, sus servicios y su caja.
type Route struct {
	ID            string
	CompanyID     string
	Name          string
	DepartureDate time.Time // solo fecha (00:00 UTC)
	VehicleID     string
	DriverID      string
	OpeningFloat  decimal.Decimal // base_efectivo
	State         RouteState
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// De solo lectura (JOIN): placa y nombre del conductor.
	VehiclePlate string
	DriverName   string
}

// IsClosed indica si la ruta ya fue cerrada.
func (r *Route) IsClosed() bool { return r.State == RouteClosed }

// EnsureOpen devuelve ErrRouteClosed si la ruta no admite más cambios.
func (r *Route) EnsureOpen() error {
	if r.IsClosed() {
		return domain.ErrRouteClosed
	}
	return nil
}

// BelongsTo verifica que la ruta sea de la empresa indicada.
func (r *Route) BelongsTo(companyID string) error {
	if r.CompanyID != companyID {
		return domain.ErrTenantMismatch
	}
	return nil
}

// Label nombre visible: el nombre si existe, si no "Ruta <id corto> (<fecha>)".
func (r *Route) Label() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	id := r.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("Ruta %s (%s)", id, r.DepartureDate.Format("2006-01-02"))
}

// Validate revisa los campos obligatorios de la ruta.
func (r *Route) Validate() error {
	if r.CompanyID == "" {
		return domain.NewValidationError("company_id", "es obligatorio")
	}
	if r.VehicleID == "" {
		return domain.NewValidationError("vehicle_id", "es obligatorio")
	}
	if r.DriverID == "" {
		return domain.NewValidationError("driver_id", "es obligatorio")
	}
	if r.DepartureDate.IsZero() {
		return domain.NewValidationError("departure_date", "es obligatoria")
	}
	if r.OpeningFloat.IsNegative() {
		return domain.NewValidationError("opening_float", "no puede ser negativa")
	}
	if r.State != RouteActive && r.State != RouteClosed {
		return domain.NewValidationError("state", "estado de ruta desconocido")
	}
	return nil
}
