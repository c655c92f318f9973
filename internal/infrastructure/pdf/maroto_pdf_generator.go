// Package pdf genera la planilla de cierre de ruta en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + NIT       │  Ruta + Fecha de salida      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VEHÍCULO / CONDUCTOR / ESTADO                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA SERVICIOS: # | Cliente | Origen → Destino | Valor ... │
//	│  TABLA CAJA: Tipo | Concepto | Monto                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: venta, recaudo, base, gastos, efectivo a entregar  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + auditoría del cierre           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Acarreo-api/internal/application/report"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// ClosingRenderer implementa report.Renderer usando Maroto v2.
type ClosingRenderer struct{}

var _ report.Renderer = (*ClosingRenderer)(nil)

// NewClosingRenderer construye el renderer.
func NewClosingRenderer() *ClosingRenderer { return &ClosingRenderer{} }

func (g *ClosingRenderer) ContentType() string { return "application/pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *ClosingRenderer) Render(_ context.Context, doc *report.ClosingDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cierre de ruta", true).
		WithAuthor(nonEmpty(doc.CompanyName, "AcarreApp"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(routeInfoRow(doc.Route))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("SERVICIOS"))
	m.AddRows(serviceHeaderRow())
	m.AddRows(serviceRows(doc.Services)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("MOVIMIENTOS DE CAJA"))
	m.AddRows(movementHeaderRow())
	m.AddRows(movementRows(doc.Movements)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + NIT (izq) y ruta + fecha (der).
func headerRow(doc *report.ClosingDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.CompanyName, "AcarreApp"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(doc.CompanyNIT, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CIERRE DE RUTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Summary.RouteLabel, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Salida: "+doc.Summary.DepartureDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func routeInfoRow(r *entity.Route) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Vehículo: %s   |   Conductor: %s   |   Estado: %s",
				nonEmpty(r.VehiclePlate, "—"),
				nonEmpty(r.DriverName, "—"),
				r.State,
			), props.Text{Size: 8, Top: 3, Color: colorGray}),
		),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func header(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(s string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
}

func serviceHeaderRow() core.Row {
	return row.New(6).Add(
		header("#", 1, align.Center),
		header("Cliente", 3, align.Left),
		header("Origen → Destino", 4, align.Left),
		header("Valor", 1, align.Right),
		header("Pagado", 1, align.Right),
		header("Estado", 2, align.Center),
	)
}

func serviceRows(services []*entity.Service) []core.Row {
	if len(services) == 0 {
		return []core.Row{row.New(6).Add(cell("Sin servicios", 12, align.Center))}
	}
	rows := make([]core.Row, 0, len(services))
	for _, s := range services {
		rows = append(rows, row.New(6).Add(
			cell(fmt.Sprintf("%d", s.Sequence), 1, align.Center),
			cell(s.ClientName, 3, align.Left),
			cell(fmt.Sprintf("%s → %s", s.Origin, s.Destination), 4, align.Left),
			cell(money.COP(s.Value), 1, align.Right),
			cell(money.COP(s.PaidAmount), 1, align.Right),
			cell(string(s.PaymentState), 2, align.Center),
		))
	}
	return rows
}

func movementHeaderRow() core.Row {
	return row.New(6).Add(
		header("Tipo", 2, align.Left),
		header("Concepto", 7, align.Left),
		header("Monto", 3, align.Right),
	)
}

func movementRows(movements []*entity.CashMovement) []core.Row {
	if len(movements) == 0 {
		return []core.Row{row.New(6).Add(cell("Sin movimientos", 12, align.Center))}
	}
	rows := make([]core.Row, 0, len(movements))
	for _, m := range movements {
		kind, amount := "Ingreso", money.COP(m.Amount)
		if m.Kind == entity.MovementExpense {
			kind, amount = "Gasto", money.COP(-m.Amount)
		}
		rows = append(rows, row.New(6).Add(
			cell(kind, 2, align.Left),
			cell(nonEmpty(m.Memo, "—"), 7, align.Left),
			cell(amount, 3, align.Right),
		))
	}
	return rows
}

// summaryRow: cifras del cierre alineadas a la derecha.
func summaryRow(doc *report.ClosingDocument) core.Row {
	s := doc.Summary
	lines := []struct {
		label string
		value int64
	}{
		{"Servicios:", int64(s.TotalServices)},
		{"Venta total:", s.TotalSale},
		{"Recaudado:", s.Collected},
		{"Pendiente de cobro:", s.PendingCollection},
		{"Base de efectivo:", s.OpeningFloat},
		{"Ingresos en ruta:", s.InRouteIncome},
		{"Gastos:", s.Expenses},
		{"Utilidad operativa:", s.OperatingProfit},
		{"Resultado neto:", s.NetResult},
	}

	labels := col.New(4)
	values := col.New(3)
	for i, l := range lines {
		top := float64(i) * 5
		labels.Add(text.New(l.label, props.Text{Style: fontstyle.Bold, Size: 8.5, Align: align.Right, Right: 2, Top: top}))
		v := money.COP(l.value)
		if i == 0 {
			v = fmt.Sprintf("%d", l.value)
		}
		values.Add(text.New(v, props.Text{Size: 8.5, Align: align.Right, Right: 1, Top: top}))
	}
	grandTop := float64(len(lines)) * 5
	labels.Add(text.New("EFECTIVO A ENTREGAR:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: grandTop + 1,
	}))
	deliverColor := colorPrimary
	if s.DeliverableCash < 0 {
		deliverColor = colorRed
	}
	values.Add(text.New(money.COP(s.DeliverableCash), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: deliverColor, Right: 1, Top: grandTop + 1,
	}))

	return row.New(grandTop+10).Add(col.New(5), labels, values)
}

// footerRow: QR con la huella del cierre + datos de auditoría.
func footerRow(doc *report.ClosingDocument) core.Row {
	s := doc.Summary
	fingerprint := fmt.Sprintf("ruta=%s;neto=%d;entregar=%d;generado=%s",
		s.RouteID, s.NetResult, s.DeliverableCash, s.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"))

	return row.New(36).Add(
		col.New(3).Add(code.NewQr(fingerprint, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Cierre generado por "+nonEmpty(doc.GeneratedByLabel(), "—"), props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Fecha del cierre: "+s.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 10, Left: 3, Color: colorGray,
			}),
			text.New("Impreso: "+doc.PrintedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 16, Left: 3, Color: colorGray,
			}),
			text.New("Firma conductor: ____________________", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 26, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
