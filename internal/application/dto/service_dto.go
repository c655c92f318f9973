package dto

import "time"

// CreateServiceRequest alta de servicio en una ruta.
type CreateServiceRequest struct {
	ClientID     string `json:"client_id" validate:"required,uuid"`
	Value        int64  `json:"value" validate:"min=0"`
	PaidAmount   int64  `json:"paid_amount" validate:"min=0"`
	PaymentState string `json:"payment_state" validate:"omitempty,oneof=PENDING PARTIAL PAID"`
	Origin       string `json:"origin" validate:"max=300"`
	Destination  string `json:"destination" validate:"max=300"`
	Notes        string `json:"notes" validate:"max=1000"`
}

// UpdateServiceRequest edición de servicio (campos opcionales).
type UpdateServiceRequest struct {
	ClientID     *string `json:"client_id" validate:"omitempty,uuid"`
	Value        *int64  `json:"value" validate:"omitempty,min=0"`
	PaidAmount   *int64  `json:"paid_amount" validate:"omitempty,min=0"`
	PaymentState *string `json:"payment_state" validate:"omitempty,oneof=PENDING PARTIAL PAID"`
	Origin       *string `json:"origin" validate:"omitempty,max=300"`
	Destination  *string `json:"destination" validate:"omitempty,max=300"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

// ReorderRequest nuevo orden de los servicios de la ruta.
type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,unique,dive,uuid"`
}

// PaymentRequest abono en efectivo cobrado por el conductor.
type PaymentRequest struct {
	Amount int64 `json:"amount"`
}

// PaymentResponse resultado del abono. Clamped indica que se recortó al saldo pendiente.
type PaymentResponse struct {
	Service  ServiceResponse      `json:"service"`
	Applied  int64                `json:"applied"`
	Clamped  bool                 `json:"clamped"`
	Movement CashMovementResponse `json:"movement"`
}

// TrackRequest marca de recogida/entrega con coordenadas opcionales.
type TrackRequest struct {
	Lat *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon *float64 `json:"lon" validate:"omitempty,longitude"`
}

// ServiceResponse salida de un servicio.
type ServiceResponse struct {
	ID           string     `json:"id"`
	RouteID      string     `json:"route_id"`
	ClientID     string     `json:"client_id"`
	ClientName   string     `json:"client_name"`
	Value        int64      `json:"value"`
	PaidAmount   int64      `json:"paid_amount"`
	Outstanding  int64      `json:"outstanding"`
	PaymentState string     `json:"payment_state"`
	Origin       string     `json:"origin"`
	Destination  string     `json:"destination"`
	Notes        string     `json:"notes"`
	Sequence     int        `json:"sequence"`
	PickedUp     bool       `json:"picked_up"`
	PickupAt     *time.Time `json:"pickup_at,omitempty"`
	Delivered    bool       `json:"delivered"`
	DeliveryAt   *time.Time `json:"delivery_at,omitempty"`
}

// ServiceDetailResponse detalle con métricas de recorrido y comentarios.
type ServiceDetailResponse struct {
	ServiceResponse
	RouteLabel      string            `json:"route_label"`
	DurationMinutes *int              `json:"duration_minutes,omitempty"`
	DistanceKm      *float64          `json:"distance_km,omitempty"`
	DirectionsURL   string            `json:"directions_url,omitempty"`
	Comments        []CommentResponse `json:"comments"`
}

// MyServicesQuery filtros de "mis servicios".
type MyServicesQuery struct {
	Pending    bool `query:"pending"`
	ActiveOnly bool `query:"active"`
}

// CommentRequest nuevo comentario.
type CommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

// CommentResponse salida de un comentario.
type CommentResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
