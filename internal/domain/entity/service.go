package entity

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain"
)

// PaymentState estado de cobro de un servicio.
type PaymentState string

const (
	PaymentPending PaymentState = "PENDING"
	PaymentPartial PaymentState = "PARTIAL"
	PaymentPaid    PaymentState = "PAID"
)

// Service un acarreo (recogida + entrega) dentro de una ruta.
// Montos en pesos enteros.
type Service struct {
	ID           string
	RouteID      string
	ClientID     string
	Value        int64
	PaidAmount   int64
	PaymentState PaymentState
	Origin       string
	Destination  string
	Notes        string
	Sequence     int

	PickedUp    bool
	PickupAt    *time.Time
	PickupPos   *Coordinates
	Delivered   bool
	DeliveryAt  *time.Time
	DeliveryPos *Coordinates

	CreatedAt time.Time
	UpdatedAt time.Time

	// De solo lectura (JOIN).
	ClientName string
}

// Normalize ajusta paid/estado a la forma canónica antes de validar o persistir:
// PAID fuerza paid = value, PENDING fuerza paid = 0, PARTIAL con paid >= value pasa a PAID.
func (s *Service) Normalize() {
	switch s.PaymentState {
	case PaymentPaid:
		s.PaidAmount = s.Value
	case PaymentPending, "":
		s.PaymentState = PaymentPending
		s.PaidAmount = 0
	case PaymentPartial:
		if s.PaidAmount >= s.Value {
			s.PaymentState = PaymentPaid
			s.PaidAmount = s.Value
		}
	}
}

// Validate verifica los invariantes de monto y estado de pago.
func (s *Service) Validate() error {
	if s.RouteID == "" {
		return domain.NewValidationError("route_id", "es obligatorio")
	}
	if s.ClientID == "" {
		return domain.NewValidationError("client_id", "es obligatorio")
	}
	if s.Value < 0 {
		return domain.NewValidationError("value", "no puede ser negativo")
	}
	switch s.PaymentState {
	case PaymentPending:
		if s.PaidAmount != 0 {
			return domain.FieldError("paid_amount", domain.ErrInvalidPaymentState)
		}
	case PaymentPaid:
		if s.PaidAmount != s.Value {
			return domain.FieldError("paid_amount", domain.ErrInvalidPaymentState)
		}
	case PaymentPartial:
		if s.PaidAmount <= 0 || s.PaidAmount >= s.Value {
			return domain.FieldError("paid_amount", domain.ErrInvalidPaymentState)
		}
	default:
		return domain.NewValidationError("payment_state", "estado de pago desconocido")
	}
	return nil
}

// Outstanding saldo pendiente: 0 si está pagado, value si está pendiente, value - paid si es parcial.
func (s *Service) Outstanding() int64 {
	switch s.PaymentState {
	case PaymentPaid:
		return 0
	case PaymentPending:
		return s.Value
	default:
		if s.Value-s.PaidAmount < 0 {
			return 0
		}
		return s.Value - s.PaidAmount
	}
}

// ApplyPayment suma un abono. El monto aplicado se limita al saldo pendiente (clamped = true
// si se recortó). Nunca disminuye paid_amount.
func (s *Service) ApplyPayment(amount int64) (applied int64, clamped bool, err error) {
	if amount <= 0 {
		return 0, false, domain.FieldError("amount", domain.ErrInvalidPaymentAmount)
	}
	if s.PaymentState == PaymentPaid {
		return 0, false, domain.ErrServiceAlreadyPaid
	}
	outstanding := s.Outstanding()
	if outstanding == 0 {
		return 0, false, domain.ErrServiceAlreadyPaid
	}

	applied = amount
	if applied > outstanding {
		applied = outstanding
		clamped = true
	}
	base := s.PaidAmount
	if s.PaymentState == PaymentPending {
		base = 0
	}
	s.PaidAmount = base + applied
	if s.PaidAmount >= s.Value {
		s.PaidAmount = s.Value
		s.PaymentState = PaymentPaid
	} else {
		s.PaymentState = PaymentPartial
	}
	return applied, clamped, nil
}

// MarkPaid override administrativo: fuerza paid = value sin movimiento de caja.
func (s *Service) MarkPaid() {
	s.PaymentState = PaymentPaid
	s.PaidAmount = s.Value
}

// MarkPickedUp marca la recogida. La primera marca de tiempo se conserva; las coordenadas se sobrescriben si vienen.
func (s *Service) MarkPickedUp(at time.Time, pos *Coordinates) {
	s.PickedUp = true
	if s.PickupAt == nil {
		s.PickupAt = &at
	}
	if pos != nil {
		p := *pos
		s.PickupPos = &p
	}
}

// MarkDelivered marca la entrega con la misma regla que MarkPickedUp.
func (s *Service) MarkDelivered(at time.Time, pos *Coordinates) {
	s.Delivered = true
	if s.DeliveryAt == nil {
		s.DeliveryAt = &at
	}
	if pos != nil {
		p := *pos
		s.DeliveryPos = &p
	}
}

// Duration tiempo entre recogida y entrega; false si falta alguna marca o el orden es inválido.
func (s *Service) Duration() (time.Duration, bool) {
	if s.PickupAt == nil || s.DeliveryAt == nil || s.DeliveryAt.Before(*s.PickupAt) {
		return 0, false
	}
	return s.DeliveryAt.Sub(*s.PickupAt), true
}

// DistanceKm distancia en línea recta entre recogida y entrega, redondeada a 2 decimales.
func (s *Service) DistanceKm() (float64, bool) {
	if s.PickupPos == nil || s.DeliveryPos == nil {
		return 0, false
	}
	d := HaversineKm(*s.PickupPos, *s.DeliveryPos)
	return float64(int64(d*100+0.5)) / 100, true
}

// DirectionsURL enlace de Google Maps con la ruta recogida -> entrega.
func (s *Service) DirectionsURL() (string, bool) {
	if s.PickupPos == nil || s.DeliveryPos == nil {
		return "", false
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", s.PickupPos.String())
	q.Set("destination", s.DeliveryPos.String())
	return "https://www.google.com/maps/dir/?" + q.Encode(), true
}

// PaymentMemo texto del movimiento de caja generado por un cobro en ruta.
func (s *Service) PaymentMemo() string {
	return fmt.Sprintf("Pago servicio – %s (%s → %s)", s.ClientName, s.Origin, s.Destination)
}
