package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo movimientos de caja. Sin Update ni Delete: los asientos son inmutables.
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

// Create registra un movimiento.
func (r *CashMovementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_movements (id, route_id, service_id, kind, amount, memo, actor_id, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8)`,
		m.ID, m.RouteID, m.ServiceID, string(m.Kind), m.Amount, m.Memo, m.ActorID, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}

// ListByRoute movimientos de la ruta en orden cronológico.
func (r *CashMovementRepo) ListByRoute(ctx context.Context, routeID string) ([]*entity.CashMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, route_id, COALESCE(service_id::text, ''), kind, amount, memo, actor_id, created_at
		FROM cash_movements WHERE route_id = $1
		ORDER BY created_at, id`, routeID)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		var kind string
		if err := rows.Scan(&m.ID, &m.RouteID, &m.ServiceID, &kind, &m.Amount, &m.Memo, &m.ActorID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		list = append(list, &m)
	}
	return list, rows.Err()
}
