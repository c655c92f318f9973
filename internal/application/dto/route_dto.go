package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRouteRequest alta de ruta. DepartureDate en formato YYYY-MM-DD; OpeningFloat opcional (default de config).
type CreateRouteRequest struct {
	Name          string           `json:"name" validate:"max=120"`
	DepartureDate string           `json:"departure_date" validate:"required,datetime=2006-01-02"`
	VehicleID     string           `json:"vehicle_id" validate:"required,uuid"`
	DriverID      string           `json:"driver_id" validate:"required,uuid"`
	OpeningFloat  *decimal.Decimal `json:"opening_float"`
}

// UpdateRouteRequest edición de una ruta activa (campos opcionales).
type UpdateRouteRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=120"`
	DepartureDate *string          `json:"departure_date" validate:"omitempty,datetime=2006-01-02"`
	VehicleID     *string          `json:"vehicle_id" validate:"omitempty,uuid"`
	DriverID      *string          `json:"driver_id" validate:"omitempty,uuid"`
	OpeningFloat  *decimal.Decimal `json:"opening_float"`
}

// RouteListQuery filtros del listado (querystring). Listas separadas por coma.
type RouteListQuery struct {
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Vehicles string `query:"vehicles"`
	Clients  string `query:"clients"`
	State    string `query:"state" validate:"omitempty,oneof=ACTIVE CLOSED"`
	Q        string `query:"q" validate:"max=100"`
	PageRequest
}

// RouteResponse salida de una ruta.
type RouteResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Label         string          `json:"label"`
	DepartureDate string          `json:"departure_date"`
	VehicleID     string          `json:"vehicle_id"`
	VehiclePlate  string          `json:"vehicle_plate"`
	DriverID      string          `json:"driver_id"`
	DriverName    string          `json:"driver_name"`
	OpeningFloat  decimal.Decimal `json:"opening_float"`
	State         string          `json:"state"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TotalsResponse totales agregados (en vivo o del cierre).
type TotalsResponse struct {
	TotalServices    int   `json:"total_services"`
	TotalCollected   int64 `json:"total_collected"`
	TotalOutstanding int64 `json:"total_outstanding"`
	TotalIncome      int64 `json:"total_income"`
	TotalExpenses    int64 `json:"total_expenses"`
	NetResult        int64 `json:"net_result"`
}

// RouteSheetResponse planilla de la ruta: servicios, movimientos y totales en vivo.
type RouteSheetResponse struct {
	Route     RouteResponse          `json:"route"`
	Services  []ServiceResponse      `json:"services"`
	Movements []CashMovementResponse `json:"movements"`
	Totals    TotalsResponse         `json:"totals"`
}

// CashMovementRequest movimiento manual de caja.
type CashMovementRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=INCOME EXPENSE"`
	Amount int64  `json:"amount"`
	Memo   string `json:"memo" validate:"max=300"`
}

// CashMovementResponse salida de un movimiento.
type CashMovementResponse struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id,omitempty"`
	Kind      string    `json:"kind"`
	Amount    int64     `json:"amount"`
	Memo      string    `json:"memo"`
	ActorID   string    `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ClosingResponse snapshot persistido del cierre.
type ClosingResponse struct {
	RouteID     string    `json:"route_id"`
	GeneratedBy string    `json:"generated_by"`
	GeneratedAt time.Time `json:"generated_at"`
	TotalsResponse
}

// ClosingSummaryResponse resumen del cierre con las cifras derivadas.
type ClosingSummaryResponse struct {
	RouteID           string    `json:"route_id"`
	RouteLabel        string    `json:"route_label"`
	DepartureDate     string    `json:"departure_date"`
	TotalServices     int       `json:"total_services"`
	TotalSale         int64     `json:"total_sale"`
	Collected         int64     `json:"collected"`
	PendingCollection int64     `json:"pending_collection"`
	Outstanding       int64     `json:"outstanding"`
	OpeningFloat      int64     `json:"opening_float"`
	Income            int64     `json:"income"`
	InRouteIncome     int64     `json:"in_route_income"`
	Expenses          int64     `json:"expenses"`
	DeliverableCash   int64     `json:"deliverable_cash"`
	OperatingProfit   int64     `json:"operating_profit"`
	NetResult         int64     `json:"net_result"`
	GeneratedBy       string    `json:"generated_by"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// TrailPoint punto del recorrido (recogida o entrega).
type TrailPoint struct {
	ServiceID  string    `json:"service_id"`
	ClientName string    `json:"client_name"`
	Kind       string    `json:"kind"` // pickup | delivery
	At         time.Time `json:"at"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
}
