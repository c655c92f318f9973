package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openBook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err, "el libro debe poder abrirse")
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func raw(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

// ─── Render ───────────────────────────────────────────────────────────────────

func TestXLSXRenderer_Hojas(t *testing.T) {
	out, err := NewXLSXRenderer().Render(context.Background(), document())
	require.NoError(t, err)

	f := openBook(t, out)

	assert.Equal(t, []string{SheetSummary, SheetServices, SheetMovements, SheetNotes}, f.GetSheetList())
}

func TestXLSXRenderer_ResumenYCaja(t *testing.T) {
	out, err := NewXLSXRenderer().Render(context.Background(), document())
	require.NoError(t, err)

	f := openBook(t, out)

	assert.Contains(t, raw(t, f, SheetSummary, "A1"), "Ruta Norte")
	assert.Equal(t, "ABC123", raw(t, f, SheetSummary, "B4"))
	assert.Equal(t, "Pedro Conductor", raw(t, f, SheetSummary, "B5"))
	assert.Equal(t, "180000", raw(t, f, SheetSummary, "E3"), "venta total")
	assert.Equal(t, "100000", raw(t, f, SheetSummary, "E4"), "cobrado")
	assert.Equal(t, "80000", raw(t, f, SheetSummary, "E5"), "pendiente por cobrar")

	assert.Equal(t, "200000", raw(t, f, SheetSummary, "C9"), "base")
	assert.Equal(t, "-15000", raw(t, f, SheetSummary, "C11"), "los gastos se muestran en negativo")
	assert.Equal(t, "285000", raw(t, f, SheetSummary, "C12"), "efectivo a entregar")
	assert.Equal(t, "85000", raw(t, f, SheetSummary, "C13"), "resultado neto")
}

func TestXLSXRenderer_Servicios(t *testing.T) {
	out, err := NewXLSXRenderer().Render(context.Background(), document())
	require.NoError(t, err)

	rows, err := openBook(t, out).GetRows(SheetServices, excelize.Options{RawCellValue: true})
	require.NoError(t, err)

	require.Len(t, rows, 4, "encabezado + tres servicios")
	assert.Equal(t, "Cliente", rows[0][1])
	assert.Equal(t, "Ferretería; El Tornillo", rows[1][1])
	assert.Equal(t, "30000", rows[2][6], "saldo del servicio parcial")
	assert.Equal(t, "PENDING", rows[3][7])
}

func TestXLSXRenderer_MovimientosYNotas(t *testing.T) {
	out, err := NewXLSXRenderer().Render(context.Background(), document())
	require.NoError(t, err)

	f := openBook(t, out)
	rows, err := f.GetRows(SheetMovements, excelize.Options{RawCellValue: true})
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "GASTO", rows[2][0])
	assert.Equal(t, "15000", rows[2][2])
	assert.Equal(t, "Marta Gerente", raw(t, f, SheetNotes, "B1"))
	assert.Equal(t, "Acarreos del Valle", raw(t, f, SheetNotes, "B3"))
}

func TestXLSXRenderer_ContentType(t *testing.T) {
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", NewXLSXRenderer().ContentType())
}
