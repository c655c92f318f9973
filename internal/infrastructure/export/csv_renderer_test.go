package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Acarreo-api/internal/application/report"
	"github.com/jhoicas/Acarreo-api/internal/domain/closing"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

func document() *report.ClosingDocument {
	route := &entity.Route{
		ID: "r-1", Name: "Ruta Norte", State: entity.RouteClosed,
		DepartureDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		OpeningFloat:  decimal.NewFromInt(200000),
		VehiclePlate:  "ABC123", DriverName: "Pedro Conductor",
	}
	services := []*entity.Service{
		{Sequence: 1, ClientName: "Ferretería; El Tornillo", Origin: "Bodega", Destination: "Centro", Value: 100000, PaidAmount: 100000, PaymentState: entity.PaymentPaid, PickedUp: true, Delivered: true},
		{Sequence: 2, ClientName: "Ferretería; El Tornillo", Origin: "Centro", Destination: "Norte", Value: 50000, PaidAmount: 20000, PaymentState: entity.PaymentPartial},
		{Sequence: 3, ClientName: "Ferretería; El Tornillo", Origin: "Norte", Destination: "Sur", Value: 30000, PaymentState: entity.PaymentPending},
	}
	movements := []*entity.CashMovement{
		{Kind: entity.MovementIncome, Amount: 20000, Memo: "Abono servicio #2"},
		{Kind: entity.MovementExpense, Amount: 15000, Memo: "Peaje"},
	}
	snap := &entity.RouteClosing{RouteID: "r-1", GeneratedBy: "u-1", GeneratedAt: time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)}
	closing.Compute(services, movements).ApplyTo(snap)
	return &report.ClosingDocument{
		CompanyName: "Acarreos del Valle", CompanyNIT: "900123456-7",
		Route: route, Summary: closing.BuildSummary(route, snap, services),
		Services: services, Movements: movements, GeneratedByName: "Marta Gerente",
	}
}

func parse(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "el archivo debe iniciar con BOM")
	r := csv.NewReader(bytes.NewReader(data[len(utf8BOM):]))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func valueOf(records [][]string, label string) string {
	for _, rec := range records {
		if len(rec) == 2 && rec[0] == label {
			return rec[1]
		}
	}
	return ""
}

// ─── Render ───────────────────────────────────────────────────────────────────

func TestCSVRenderer_Resumen(t *testing.T) {
	out, err := NewCSVRenderer().Render(context.Background(), document())
	require.NoError(t, err)

	records := parse(t, out)

	assert.Equal(t, "Ruta Norte", valueOf(records, "Ruta"))
	assert.Equal(t, "100000", valueOf(records, "Recaudado"))
	assert.Equal(t, "60000", valueOf(records, "Saldo por cobrar"))
	assert.Equal(t, "85000", valueOf(records, "Resultado neto"))
	assert.Equal(t, "285000", valueOf(records, "Efectivo a entregar"))
	assert.Equal(t, "Marta Gerente", valueOf(records, "Generado por"))
}

func TestCSVRenderer_FilasDeServiciosYMovimientos(t *testing.T) {
	out, err := NewCSVRenderer().Render(context.Background(), document())
	require.NoError(t, err)

	records := parse(t, out)

	var services, movements [][]string
	for _, rec := range records {
		switch {
		case len(rec) == 9 && rec[0] != "#":
			services = append(services, rec)
		case len(rec) == 4 && rec[0] != "Tipo":
			movements = append(movements, rec)
		}
	}
	require.Len(t, services, 3)
	assert.Equal(t, "Ferretería; El Tornillo", services[0][1], "el separador dentro del campo debe quedar escapado")
	assert.Equal(t, "SI", services[0][7])
	assert.Equal(t, "PARTIAL", services[1][6])
	require.Len(t, movements, 2)
	assert.Equal(t, "GASTO", movements[1][0])
	assert.Equal(t, "15000", movements[1][2])
}

func TestCSVRenderer_ContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", NewCSVRenderer().ContentType())
}
