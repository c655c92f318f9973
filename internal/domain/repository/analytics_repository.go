package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain/analytics"
)

// AnalyticsFilter servicios cuya ruta sale en [From, To]. DriverID vacío no filtra.
type AnalyticsFilter struct {
	From     time.Time
	To       time.Time
	DriverID string
}

// AnalyticsRepository consultas de solo lectura para el tablero de gerencia.
type AnalyticsRepository interface {
	ServiceFacts(ctx context.Context, companyID string, f AnalyticsFilter) ([]analytics.Fact, error)
	// OperationalCounts contadores del día: dayStart y dayEnd delimitan las entregas de hoy,
	// today es la fecha de salida de las rutas de hoy.
	OperationalCounts(ctx context.Context, companyID string, today, dayStart, dayEnd time.Time) (analytics.Counts, error)
}
