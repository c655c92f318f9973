package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Acarreo-api/internal/application/report"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

// Hojas del libro de cierre.
const (
	SheetSummary   = "Resumen"
	SheetServices  = "Servicios"
	SheetMovements = "Movimientos"
	SheetNotes     = "Notas"
)

const (
	colorPrimary = "1F2A5A"
	colorLine    = "E6E8F0"
	colorOK      = "236A3B"
	colorWarn    = "8A1A1A"

	moneyFormat = `"$" #,##0`
	dateFormat  = "yyyy-mm-dd hh:mm"
)

// XLSXRenderer implementa report.Renderer con un libro de cuatro hojas:
// resumen y caja, servicios, movimientos y notas de auditoría.
type XLSXRenderer struct{}

var _ report.Renderer = (*XLSXRenderer)(nil)

func NewXLSXRenderer() *XLSXRenderer { return &XLSXRenderer{} }

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render arma el libro en memoria.
func (r *XLSXRenderer) Render(_ context.Context, doc *report.ClosingDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	b, err := newBook(f)
	if err != nil {
		return nil, err
	}
	b.summary(doc)
	b.services(doc.Services)
	b.movements(doc.Movements)
	b.notes(doc)
	if b.err != nil {
		return nil, fmt.Errorf("xlsx: %w", b.err)
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// book acumula el primer error de excelize para no cortar el armado en cada celda.
type book struct {
	f   *excelize.File
	err error

	title, header, label, subhead, money, moneyOK, moneyWarn, moneyBold, date int
}

func newBook(f *excelize.File) (*book, error) {
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	for _, name := range []string{SheetServices, SheetMovements, SheetNotes} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("xlsx: hoja %s: %w", name, err)
		}
	}

	b := &book{f: f}
	money, date := moneyFormat, dateFormat
	border := []excelize.Border{
		{Type: "left", Color: colorLine, Style: 1},
		{Type: "right", Color: colorLine, Style: 1},
		{Type: "top", Color: colorLine, Style: 1},
		{Type: "bottom", Color: colorLine, Style: 1},
	}
	b.title = b.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorPrimary}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	b.header = b.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorPrimary}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	b.label = b.style(&excelize.Style{Font: &excelize.Font{Bold: true}})
	b.subhead = b.style(&excelize.Style{Font: &excelize.Font{Bold: true, Color: colorPrimary}})
	b.money = b.style(&excelize.Style{CustomNumFmt: &money, Border: border, Alignment: &excelize.Alignment{Horizontal: "right"}})
	b.moneyOK = b.style(&excelize.Style{CustomNumFmt: &money, Border: border, Font: &excelize.Font{Bold: true, Color: colorOK}})
	b.moneyWarn = b.style(&excelize.Style{CustomNumFmt: &money, Border: border, Font: &excelize.Font{Bold: true, Color: colorWarn}})
	b.moneyBold = b.style(&excelize.Style{CustomNumFmt: &money, Border: border, Font: &excelize.Font{Bold: true}})
	b.date = b.style(&excelize.Style{CustomNumFmt: &date})
	return b, b.err
}

func (b *book) style(s *excelize.Style) int {
	if b.err != nil {
		return 0
	}
	id, err := b.f.NewStyle(s)
	b.err = err
	return id
}

func (b *book) set(sheet, cell string, v any, style int) {
	if b.err != nil {
		return
	}
	if b.err = b.f.SetCellValue(sheet, cell, v); b.err != nil {
		return
	}
	if style != 0 {
		b.err = b.f.SetCellStyle(sheet, cell, cell, style)
	}
}

func (b *book) row(sheet string, n int, values []any, styles map[int]int) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, n)
		if err != nil {
			b.err = err
			return
		}
		b.set(sheet, cell, v, styles[i])
	}
}

func (b *book) widths(sheet string, widths ...float64) {
	for i, w := range widths {
		if b.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			b.err = err
			return
		}
		b.err = b.f.SetColWidth(sheet, col, col, w)
	}
}

func (b *book) summary(doc *report.ClosingDocument) {
	s := doc.Summary
	sh := SheetSummary
	if b.err == nil {
		b.err = b.f.MergeCell(sh, "A1", "F1")
	}
	b.set(sh, "A1", "Cierre de ruta: "+s.RouteLabel, b.title)

	route := [][2]any{
		{"Estado", string(doc.Route.State)},
		{"Vehículo", doc.Route.VehiclePlate},
		{"Conductor", doc.Route.DriverName},
		{"Salida", s.DepartureDate.Format("2006-01-02")},
	}
	totals := [][2]any{
		{"Valor total de servicios (venta)", s.TotalSale},
		{"Cobrado (total)", s.Collected},
		{"Pendiente por cobrar", s.PendingCollection},
		{"Utilidad operativa", s.OperatingProfit},
	}
	for i := range route {
		n := 3 + i
		b.row(sh, n, []any{route[i][0], route[i][1], "", totals[i][0], totals[i][1]},
			map[int]int{0: b.label, 3: b.subhead, 4: b.money})
	}

	b.set(sh, "A8", "Caja de ruta", b.subhead)
	cash := []struct {
		label string
		value int64
		style int
	}{
		{"Base", s.OpeningFloat, b.moneyOK},
		{"Ingresos en ruta", s.InRouteIncome, b.moneyOK},
		{"Gastos", -s.Expenses, b.moneyWarn},
		{"Efectivo a entregar", s.DeliverableCash, b.moneyBold},
		{"Resultado neto", s.NetResult, b.moneyBold},
	}
	for i, c := range cash {
		b.row(sh, 9+i, []any{"", c.label, c.value}, map[int]int{1: b.label, 2: c.style})
	}
	b.widths(sh, 14, 22, 16, 34, 16)
}

func (b *book) services(list []*entity.Service) {
	sh := SheetServices
	headers := []any{"#", "Cliente", "Origen", "Destino", "Valor", "Pagado", "Saldo", "Estado pago", "Recogido", "Entregado"}
	headerStyles := make(map[int]int, len(headers))
	for i := range headers {
		headerStyles[i] = b.header
	}
	b.row(sh, 1, headers, headerStyles)

	for i, svc := range list {
		b.row(sh, i+2, []any{
			svc.Sequence, nonDash(svc.ClientName), nonDash(svc.Origin), nonDash(svc.Destination),
			svc.Value, svc.PaidAmount, svc.Outstanding(), string(svc.PaymentState),
			timeCell(svc.PickupAt), timeCell(svc.DeliveryAt),
		}, map[int]int{4: b.money, 5: b.money, 6: b.money, 8: b.date, 9: b.date})
	}
	if b.err == nil {
		b.err = b.f.SetPanes(sh, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}
	b.widths(sh, 6, 28, 22, 22, 14, 14, 14, 14, 18, 18)
}

func (b *book) movements(list []*entity.CashMovement) {
	sh := SheetMovements
	b.row(sh, 1, []any{"Tipo", "Concepto", "Monto", "Fecha"},
		map[int]int{0: b.header, 1: b.header, 2: b.header, 3: b.header})
	for i, m := range list {
		b.row(sh, i+2, []any{movementLabel(m.Kind), nonDash(m.Memo), m.Amount, at(m.CreatedAt)},
			map[int]int{2: b.money, 3: b.date})
	}
	b.widths(sh, 12, 36, 14, 18)
}

func (b *book) notes(doc *report.ClosingDocument) {
	sh := SheetNotes
	rows := [][]any{
		{"Generado por", doc.GeneratedByLabel()},
		{"Fecha cierre", at(doc.Summary.GeneratedAt)},
		{"Empresa", nonDash(doc.CompanyName)},
		{"NIT", nonDash(doc.CompanyNIT)},
	}
	for i, r := range rows {
		styles := map[int]int{0: b.label}
		if _, ok := r[1].(time.Time); ok {
			styles[1] = b.date
		}
		b.row(sh, i+1, r, styles)
	}
	b.widths(sh, 16, 32)
}

// timeCell celda vacía si no hay marca.
func timeCell(t *time.Time) any {
	if t == nil {
		return ""
	}
	return at(*t)
}

func at(t time.Time) any {
	if t.IsZero() {
		return ""
	}
	return t
}

func nonDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
