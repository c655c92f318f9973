package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Rutas, servicios y cierre.
	ErrRouteClosed            = errors.New("la ruta está cerrada")
	ErrConcurrentModification = errors.New("la ruta fue modificada concurrentemente")
	ErrTenantMismatch         = errors.New("el recurso no pertenece a la empresa")
	ErrInvalidPaymentAmount   = errors.New("monto de pago inválido")
	ErrDriverHasActiveRoute   = errors.New("el conductor ya tiene una ruta activa")
	ErrServiceAlreadyPaid     = errors.New("el servicio ya está pagado")
	ErrInvalidPaymentState    = errors.New("estado de pago inconsistente")

	// ErrTransactionConflict la transacción chocó con otra (serialización, deadlock o
	// unicidad) y puede reintentarse completa.
	ErrTransactionConflict = errors.New("conflicto transitorio de transacción")
)

// ValidationError asocia un error de dominio a un campo concreto de la entrada.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Message == "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidInput
	}
	return e.Err
}

// NewValidationError construye un ValidationError sobre ErrInvalidInput.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message, Err: ErrInvalidInput}
}

// FieldError envuelve un sentinel en un ValidationError del campo indicado.
func FieldError(field string, err error) error {
	return &ValidationError{Field: field, Message: err.Error(), Err: err}
}
