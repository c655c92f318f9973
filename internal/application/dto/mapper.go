package dto

import (
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain/closing"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// RouteFromEntity mapea una ruta a su respuesta.
func RouteFromEntity(r *entity.Route) RouteResponse {
	return RouteResponse{
		ID:            r.ID,
		Name:          r.Name,
		Label:         r.Label(),
		DepartureDate: r.DepartureDate.Format(dateLayout),
		VehicleID:     r.VehicleID,
		VehiclePlate:  r.VehiclePlate,
		DriverID:      r.DriverID,
		DriverName:    r.DriverName,
		OpeningFloat:  r.OpeningFloat,
		State:         string(r.State),
		CreatedAt:     r.CreatedAt,
	}
}

// ServiceFromEntity mapea un servicio a su respuesta.
func ServiceFromEntity(s *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:           s.ID,
		RouteID:      s.RouteID,
		ClientID:     s.ClientID,
		ClientName:   s.ClientName,
		Value:        s.Value,
		PaidAmount:   s.PaidAmount,
		Outstanding:  s.Outstanding(),
		PaymentState: string(s.PaymentState),
		Origin:       s.Origin,
		Destination:  s.Destination,
		Notes:        s.Notes,
		Sequence:     s.Sequence,
		PickedUp:     s.PickedUp,
		PickupAt:     s.PickupAt,
		Delivered:    s.Delivered,
		DeliveryAt:   s.DeliveryAt,
	}
}

// ServicesFromEntities mapea una lista de servicios (nunca nil).
func ServicesFromEntities(list []*entity.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ServiceFromEntity(s))
	}
	return out
}

// MovementFromEntity mapea un movimiento de caja.
func MovementFromEntity(m *entity.CashMovement) CashMovementResponse {
	return CashMovementResponse{
		ID:        m.ID,
		ServiceID: m.ServiceID,
		Kind:      string(m.Kind),
		Amount:    m.Amount,
		Memo:      m.Memo,
		ActorID:   m.ActorID,
		CreatedAt: m.CreatedAt,
	}
}

// MovementsFromEntities mapea una lista de movimientos (nunca nil).
func MovementsFromEntities(list []*entity.CashMovement) []CashMovementResponse {
	out := make([]CashMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, MovementFromEntity(m))
	}
	return out
}

// TotalsFromClosing totales de un snapshot.
func TotalsFromClosing(c *entity.RouteClosing) TotalsResponse {
	return TotalsResponse{
		TotalServices:    c.TotalServices,
		TotalCollected:   c.TotalCollected,
		TotalOutstanding: c.TotalOutstanding,
		TotalIncome:      c.TotalIncome,
		TotalExpenses:    c.TotalExpenses,
		NetResult:        c.NetResult,
	}
}

// TotalsFromCompute totales calculados en vivo.
func TotalsFromCompute(t closing.Totals) TotalsResponse {
	return TotalsResponse{
		TotalServices:    t.Services,
		TotalCollected:   t.Collected,
		TotalOutstanding: t.Outstanding,
		TotalIncome:      t.Income,
		TotalExpenses:    t.Expenses,
		NetResult:        t.Net,
	}
}

// ClosingFromEntity mapea el snapshot persistido.
func ClosingFromEntity(c *entity.RouteClosing) ClosingResponse {
	return ClosingResponse{
		RouteID:        c.RouteID,
		GeneratedBy:    c.GeneratedBy,
		GeneratedAt:    c.GeneratedAt,
		TotalsResponse: TotalsFromClosing(c),
	}
}

// SummaryFromDomain mapea el resumen de cierre.
func SummaryFromDomain(s closing.Summary) ClosingSummaryResponse {
	return ClosingSummaryResponse{
		RouteID:           s.RouteID,
		RouteLabel:        s.RouteLabel,
		DepartureDate:     s.DepartureDate.Format(dateLayout),
		TotalServices:     s.TotalServices,
		TotalSale:         s.TotalSale,
		Collected:         s.Collected,
		PendingCollection: s.PendingCollection,
		Outstanding:       s.Outstanding,
		OpeningFloat:      s.OpeningFloat,
		Income:            s.Income,
		InRouteIncome:     s.InRouteIncome,
		Expenses:          s.Expenses,
		DeliverableCash:   s.DeliverableCash,
		OperatingProfit:   s.OperatingProfit,
		NetResult:         s.NetResult,
		GeneratedBy:       s.GeneratedBy,
		GeneratedAt:       s.GeneratedAt,
	}
}

// CommentFromEntity mapea un comentario.
func CommentFromEntity(c *entity.ServiceComment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}

// ClientFromEntity mapea un cliente.
func ClientFromEntity(c *entity.Client) ClientResponse {
	return ClientResponse{ID: c.ID, Name: c.Name, Contact: c.Contact, Phone: c.Phone, Address: c.Address, Active: c.Active}
}

// VehicleFromEntity mapea un vehículo.
func VehicleFromEntity(v *entity.Vehicle) VehicleResponse {
	return VehicleResponse{ID: v.ID, Plate: v.Plate, Brand: v.Brand, Model: v.Model, Active: v.Active}
}

// UserFromEntity mapea un usuario sin su hash.
func UserFromEntity(u *entity.User) UserResponse {
	return UserResponse{
		ID: u.ID, CompanyID: u.CompanyID, Email: u.Email, Name: u.Name,
		Role: u.Role, Status: u.Status, CreatedAt: u.CreatedAt,
	}
}

// ParseDate interpreta YYYY-MM-DD como fecha UTC.
func ParseDate(s string) (t time.Time, err error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
