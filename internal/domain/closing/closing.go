// Package closing contiene la aritmética del cierre de ruta: funciones puras sobre
// servicios y movimientos de caja, sin acceso a persistencia.
package closing

import (
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Totals agregados de una ruta.
type Totals struct {
	Services    int
	Collected   int64 // suma de abonos de servicios PAID
	Outstanding int64
	Income      int64
	Expenses    int64
	Net         int64 // Collected - Expenses
}

// Compute agrega servicios y movimientos. Determinista: el orden de entrada no altera el resultado.
//
// Solo los servicios PAID cuentan como recaudo; los abonos parciales quedan reflejados
// en Outstanding y, si se cobraron en ruta, en los ingresos de caja.
func Compute(services []*entity.Service, movements []*entity.CashMovement) Totals {
	var t Totals
	for _, s := range services {
		t.Services++
		if s.PaymentState == entity.PaymentPaid {
			t.Collected += s.PaidAmount
		}
		t.Outstanding += s.Outstanding()
	}
	for _, m := range movements {
		switch m.Kind {
		case entity.MovementIncome:
			t.Income += m.Amount
		case entity.MovementExpense:
			t.Expenses += m.Amount
		}
	}
	t.Net = t.Collected - t.Expenses
	return t
}

// ApplyTo copia los totales en el snapshot.
func (t Totals) ApplyTo(c *entity.RouteClosing) {
	c.TotalServices = t.Services
	c.TotalCollected = t.Collected
	c.TotalOutstanding = t.Outstanding
	c.TotalIncome = t.Income
	c.TotalExpenses = t.Expenses
	c.NetResult = t.Net
}

// RoundFloat redondea la base de efectivo a pesos enteros (mitad hacia arriba).
func RoundFloat(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// InRouteIncome ingresos generados en ruta. Si el ingreso registrado supera la base se asume
// que la base quedó registrada como ingreso y se descuenta; si no, se usa el recaudo.
func InRouteIncome(openingFloat int64, c *entity.RouteClosing) int64 {
	if diff := c.TotalIncome - openingFloat; diff > 0 {
		return diff
	}
	return c.TotalCollected
}

// DeliverableCash efectivo que el conductor debe entregar al cerrar: base + ingresos en ruta - gastos.
func DeliverableCash(openingFloat int64, c *entity.RouteClosing) int64 {
	return openingFloat + InRouteIncome(openingFloat, c) - c.TotalExpenses
}
