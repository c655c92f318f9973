package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var _ repository.RouteClosingRepository = (*RouteClosingRepo)(nil)

// RouteClosingRepo snapshots de cierre (route_id UNIQUE).
type RouteClosingRepo struct {
	q Querier
}

// NewRouteClosingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRouteClosingRepository(q Querier) *RouteClosingRepo {
	return &RouteClosingRepo{q: q}
}

const closingColumns = `id, route_id, total_services, total_collected, total_outstanding, total_income,
	total_expenses, net_result, generated_by, generated_at`

func scanClosing(row pgx.Row) (*entity.RouteClosing, error) {
	var c entity.RouteClosing
	err := row.Scan(&c.ID, &c.RouteID, &c.TotalServices, &c.TotalCollected, &c.TotalOutstanding,
		&c.TotalIncome, &c.TotalExpenses, &c.NetResult, &c.GeneratedBy, &c.GeneratedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert inserta el cierre o, si la ruta ya tiene uno, sobrescribe totales y auditoría.
// El id de la fila existente se conserva.
func (r *RouteClosingRepo) Upsert(ctx context.Context, c *entity.RouteClosing) (*entity.RouteClosing, error) {
	saved, err := scanClosing(r.q.QueryRow(ctx, `
		INSERT INTO route_closings (`+closingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (route_id) DO UPDATE SET
			total_services    = EXCLUDED.total_services,
			total_collected   = EXCLUDED.total_collected,
			total_outstanding = EXCLUDED.total_outstanding,
			total_income      = EXCLUDED.total_income,
			total_expenses    = EXCLUDED.total_expenses,
			net_result        = EXCLUDED.net_result,
			generated_by      = EXCLUDED.generated_by,
			generated_at      = EXCLUDED.generated_at
		RETURNING `+closingColumns,
		c.ID, c.RouteID, c.TotalServices, c.TotalCollected, c.TotalOutstanding, c.TotalIncome,
		c.TotalExpenses, c.NetResult, c.GeneratedBy, c.GeneratedAt))
	if err != nil {
		return nil, fmt.Errorf("upsert route closing: %w", err)
	}
	return saved, nil
}

// GetByRoute devuelve el cierre de la ruta o domain.ErrNotFound.
func (r *RouteClosingRepo) GetByRoute(ctx context.Context, routeID string) (*entity.RouteClosing, error) {
	c, err := scanClosing(r.q.QueryRow(ctx, `SELECT `+closingColumns+` FROM route_closings WHERE route_id = $1`, routeID))
	if err != nil {
		return nil, notFound("get route closing", err)
	}
	return c, nil
}
