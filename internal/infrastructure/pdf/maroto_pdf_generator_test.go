package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Acarreo-api/internal/application/report"
	"github.com/jhoicas/Acarreo-api/internal/domain/closing"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

func sampleDocument() *report.ClosingDocument {
	at := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)
	route := &entity.Route{
		ID: "r-1", CompanyID: "c-1", Name: "Ruta Norte",
		DepartureDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		OpeningFloat:  decimal.NewFromInt(200000), State: entity.RouteClosed,
		VehiclePlate: "ABC123", DriverName: "Pedro Conductor",
	}
	services := []*entity.Service{
		{ID: "s1", Sequence: 1, ClientName: "Ferretería", Origin: "Bodega", Destination: "Centro", Value: 100000, PaidAmount: 100000, PaymentState: entity.PaymentPaid},
		{ID: "s2", Sequence: 2, ClientName: "Ferretería", Origin: "Centro", Destination: "Norte", Value: 50000, PaidAmount: 20000, PaymentState: entity.PaymentPartial},
	}
	movements := []*entity.CashMovement{
		{ID: "m1", Kind: entity.MovementIncome, Amount: 20000, Memo: "Abono"},
		{ID: "m2", Kind: entity.MovementExpense, Amount: 15000, Memo: "Peaje"},
	}
	snap := &entity.RouteClosing{RouteID: "r-1", GeneratedBy: "u-1", GeneratedAt: at}
	closing.Compute(services, movements).ApplyTo(snap)

	return &report.ClosingDocument{
		CompanyName: "Acarreos del Valle", CompanyNIT: "900123456-7",
		Route:     route,
		Summary:   closing.BuildSummary(route, snap, services),
		Services:  services,
		Movements: movements,
		PrintedAt: at,
	}
}

// ─── Render ───────────────────────────────────────────────────────────────────

func TestClosingRenderer_GeneraPDF(t *testing.T) {
	r := NewClosingRenderer()

	out, err := r.Render(context.Background(), sampleDocument())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe iniciar con la firma PDF")
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestClosingRenderer_RutaSinFilas(t *testing.T) {
	doc := sampleDocument()
	doc.Services, doc.Movements = nil, nil
	doc.CompanyName, doc.CompanyNIT = "", ""

	out, err := NewClosingRenderer().Render(context.Background(), doc)

	require.NoError(t, err)
	assert.NotEmpty(t, out, "una ruta vacía también produce planilla")
}
