package entity

import (
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain"
)

// MovementKind tipo de movimiento de caja.
type MovementKind string

const (
	MovementIncome  MovementKind = "INCOME"
	MovementExpense MovementKind = "EXPENSE"
)

// CashMovement asiento de la caja de una ruta. Inmutable una vez creado.
type CashMovement struct {
	ID        string
	RouteID   string
	ServiceID string // opcional: cobro de servicio que originó el ingreso
	Kind      MovementKind
	Amount    int64
	Memo      string
	ActorID   string
	CreatedAt time.Time
}

// Validate revisa tipo y monto.
func (m *CashMovement) Validate() error {
	if m.RouteID == "" {
		return domain.NewValidationError("route_id", "es obligatorio")
	}
	if m.Kind != MovementIncome && m.Kind != MovementExpense {
		return domain.NewValidationError("kind", "debe ser INCOME o EXPENSE")
	}
	if m.Amount <= 0 {
		return domain.FieldError("amount", domain.ErrInvalidPaymentAmount)
	}
	return nil
}
