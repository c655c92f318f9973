package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain/analytics"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura del tablero de gerencia.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// ServiceFacts servicios de la empresa cuya ruta sale en el rango, con conductor y cliente.
func (r *AnalyticsRepo) ServiceFacts(ctx context.Context, companyID string, f repository.AnalyticsFilter) ([]analytics.Fact, error) {
	const query = `
	SELECT s.id, s.route_id, r.departure_date, r.driver_id, COALESCE(u.name, ''),
	       s.client_id, c.name, s.value, s.paid_amount, s.pickup_at, s.delivery_at
	FROM services s
	JOIN routes  r ON r.id = s.route_id
	JOIN clients c ON c.id = s.client_id
	LEFT JOIN users u ON u.id = r.driver_id
	WHERE r.company_id = $1
	  AND r.departure_date BETWEEN $2 AND $3
	  AND ($4 = '' OR r.driver_id::TEXT = $4)
	ORDER BY r.departure_date, s.sequence`

	rows, err := r.q.Query(ctx, query, companyID, f.From, f.To, f.DriverID)
	if err != nil {
		return nil, fmt.Errorf("analytics.ServiceFacts: %w", err)
	}
	defer rows.Close()

	var facts []analytics.Fact
	for rows.Next() {
		var ft analytics.Fact
		if err := rows.Scan(
			&ft.ServiceID,
			&ft.RouteID,
			&ft.DepartureDate,
			&ft.DriverID,
			&ft.DriverName,
			&ft.ClientID,
			&ft.ClientName,
			&ft.Value,
			&ft.Paid,
			&ft.PickupAt,
			&ft.DeliveryAt,
		); err != nil {
			return nil, fmt.Errorf("analytics.ServiceFacts scan: %w", err)
		}
		facts = append(facts, ft)
	}
	return facts, rows.Err()
}

// OperationalCounts contadores del día en una sola lectura.
func (r *AnalyticsRepo) OperationalCounts(ctx context.Context, companyID string, today, dayStart, dayEnd time.Time) (analytics.Counts, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM routes WHERE company_id = $1 AND state = 'ACTIVE')                    AS active_routes,
	    COUNT(*) FILTER (WHERE r.state = 'ACTIVE' AND NOT s.delivered)                              AS active_services,
	    COUNT(*) FILTER (WHERE r.departure_date = $2 AND NOT s.delivered)                           AS pending_today,
	    COUNT(*) FILTER (WHERE s.delivered AND s.delivery_at >= $3 AND s.delivery_at < $4)          AS delivered_today
	FROM services s
	JOIN routes r ON r.id = s.route_id
	WHERE r.company_id = $1`

	var c analytics.Counts
	err := r.q.QueryRow(ctx, query, companyID, today, dayStart, dayEnd).
		Scan(&c.ActiveRoutes, &c.ActiveServices, &c.PendingToday, &c.DeliveredToday)
	if err != nil {
		return c, fmt.Errorf("analytics.OperationalCounts: %w", err)
	}
	return c, nil
}
