// Package export renderiza el cierre de ruta en formatos tabulares.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jhoicas/Acarreo-api/internal/application/report"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

// utf8BOM hace que Excel abra el archivo con tildes correctas.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVRenderer implementa report.Renderer. Separador ';' y montos en pesos enteros sin formato.
type CSVRenderer struct {
	Comma rune
}

var _ report.Renderer = (*CSVRenderer)(nil)

func NewCSVRenderer() *CSVRenderer { return &CSVRenderer{Comma: ';'} }

func (r *CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }

// Render escribe tres bloques separados por una línea vacía: resumen, servicios y movimientos.
func (r *CSVRenderer) Render(_ context.Context, doc *report.ClosingDocument) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if r.Comma != 0 {
		w.Comma = r.Comma
	}

	s := doc.Summary
	rows := [][]string{
		{"Empresa", doc.CompanyName},
		{"NIT", doc.CompanyNIT},
		{"Ruta", s.RouteLabel},
		{"Fecha de salida", s.DepartureDate.Format("2006-01-02")},
		{"Vehículo", doc.Route.VehiclePlate},
		{"Conductor", doc.Route.DriverName},
		{"Servicios", strconv.Itoa(s.TotalServices)},
		{"Venta total", itoa(s.TotalSale)},
		{"Recaudado", itoa(s.Collected)},
		{"Pendiente de cobro", itoa(s.PendingCollection)},
		{"Saldo por cobrar", itoa(s.Outstanding)},
		{"Base de efectivo", itoa(s.OpeningFloat)},
		{"Ingresos", itoa(s.Income)},
		{"Ingresos en ruta", itoa(s.InRouteIncome)},
		{"Gastos", itoa(s.Expenses)},
		{"Utilidad operativa", itoa(s.OperatingProfit)},
		{"Resultado neto", itoa(s.NetResult)},
		{"Efectivo a entregar", itoa(s.DeliverableCash)},
		{"Generado por", doc.GeneratedByLabel()},
		{"Generado", s.GeneratedAt.Format("2006-01-02 15:04:05")},
		{},
		{"#", "Cliente", "Origen", "Destino", "Valor", "Pagado", "Estado", "Recogido", "Entregado"},
	}
	for _, svc := range doc.Services {
		rows = append(rows, []string{
			strconv.Itoa(svc.Sequence), svc.ClientName, svc.Origin, svc.Destination,
			itoa(svc.Value), itoa(svc.PaidAmount), string(svc.PaymentState),
			yesNo(svc.PickedUp), yesNo(svc.Delivered),
		})
	}
	rows = append(rows, []string{}, []string{"Tipo", "Concepto", "Monto", "Fecha"})
	for _, m := range doc.Movements {
		rows = append(rows, []string{
			movementLabel(m.Kind), m.Memo, itoa(m.Amount), m.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return buf.Bytes(), nil
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func yesNo(b bool) string {
	if b {
		return "SI"
	}
	return "NO"
}

func movementLabel(k entity.MovementKind) string {
	if k == entity.MovementExpense {
		return "GASTO"
	}
	return "INGRESO"
}
