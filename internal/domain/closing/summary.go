package closing

import (
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

// Summary cifras del resumen de cierre que se muestran y exportan.
type Summary struct {
	RouteID           string
	RouteLabel        string
	DepartureDate     time.Time
	TotalServices     int
	TotalSale         int64 // suma de valores
	Collected         int64
	PendingCollection int64 // max(venta - recaudo, 0)
	Outstanding       int64
	OpeningFloat      int64
	Income            int64
	InRouteIncome     int64
	Expenses          int64
	DeliverableCash   int64
	OperatingProfit   int64 // venta - gastos
	NetResult         int64
	GeneratedBy       string
	GeneratedAt       time.Time
}

// BuildSummary arma el resumen a partir del snapshot persistido y las filas de servicios.
func BuildSummary(route *entity.Route, c *entity.RouteClosing, services []*entity.Service) Summary {
	var sale int64
	for _, s := range services {
		sale += s.Value
	}
	float := RoundFloat(route.OpeningFloat)

	pending := sale - c.TotalCollected
	if pending < 0 {
		pending = 0
	}
	return Summary{
		RouteID:           route.ID,
		RouteLabel:        route.Label(),
		DepartureDate:     route.DepartureDate,
		TotalServices:     c.TotalServices,
		TotalSale:         sale,
		Collected:         c.TotalCollected,
		PendingCollection: pending,
		Outstanding:       c.TotalOutstanding,
		OpeningFloat:      float,
		Income:            c.TotalIncome,
		InRouteIncome:     InRouteIncome(float, c),
		Expenses:          c.TotalExpenses,
		DeliverableCash:   DeliverableCash(float, c),
		OperatingProfit:   sale - c.TotalExpenses,
		NetResult:         c.NetResult,
		GeneratedBy:       c.GeneratedBy,
		GeneratedAt:       c.GeneratedAt,
	}
}
