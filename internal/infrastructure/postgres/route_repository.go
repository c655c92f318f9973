package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var _ repository.RouteRepository = (*RouteRepo)(nil)

// RouteRepo rutas sobre PostgreSQL (usable con pool o tx).
type RouteRepo struct {
	q Querier
}

// NewRouteRepository construye el adaptador de rutas. Pasar pool o tx (Querier).
func NewRouteRepository(q Querier) *RouteRepo {
	return &RouteRepo{q: q}
}

const routeSelect = `
	SELECT r.id, r.company_id, r.name, r.departure_date, r.vehicle_id, r.driver_id, r.opening_float,
	       r.state, COALESCE(r.created_by::text, ''), r.created_at, r.updated_at, v.plate, u.name
	FROM routes r
	JOIN vehicles v ON v.id = r.vehicle_id
	JOIN users u ON u.id = r.driver_id`

func scanRoute(row pgx.Row) (*entity.Route, error) {
	var rt entity.Route
	var state string
	err := row.Scan(&rt.ID, &rt.CompanyID, &rt.Name, &rt.DepartureDate, &rt.VehicleID, &rt.DriverID,
		&rt.OpeningFloat, &state, &rt.CreatedBy, &rt.CreatedAt, &rt.UpdatedAt, &rt.VehiclePlate, &rt.DriverName)
	if err != nil {
		return nil, err
	}
	rt.State = entity.RouteState(state)
	return &rt, nil
}

// activeDriverError traduce la violación del índice parcial de conductor activo.
func activeDriverError(err error, op string) error {
	if isUniqueViolation(err) {
		return domain.FieldError("driver_id", domain.ErrDriverHasActiveRoute)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Create persiste una ruta.
func (r *RouteRepo) Create(ctx context.Context, rt *entity.Route) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO routes (id, company_id, name, departure_date, vehicle_id, driver_id, opening_float,
		                    state, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, $10, $11)`,
		rt.ID, rt.CompanyID, rt.Name, rt.DepartureDate, rt.VehicleID, rt.DriverID, rt.OpeningFloat,
		string(rt.State), rt.CreatedBy, rt.CreatedAt, rt.UpdatedAt)
	if err != nil {
		return activeDriverError(err, "insert route")
	}
	return nil
}

// Update actualiza los datos editables de una ruta ACTIVE.
func (r *RouteRepo) Update(ctx context.Context, rt *entity.Route) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE routes SET name = $2, departure_date = $3, vehicle_id = $4, driver_id = $5,
		       opening_float = $6, updated_at = $7
		WHERE id = $1 AND state = 'ACTIVE'`,
		rt.ID, rt.Name, rt.DepartureDate, rt.VehicleID, rt.DriverID, rt.OpeningFloat, rt.UpdatedAt)
	if err != nil {
		return activeDriverError(err, "update route")
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRouteClosed
	}
	return nil
}

// Delete elimina una ruta ACTIVE (servicios y movimientos caen en cascada).
func (r *RouteRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM routes WHERE id = $1 AND state = 'ACTIVE'`, id)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRouteClosed
	}
	return nil
}

// GetByID obtiene una ruta con placa y nombre del conductor.
func (r *RouteRepo) GetByID(ctx context.Context, id string) (*entity.Route, error) {
	rt, err := scanRoute(r.q.QueryRow(ctx, routeSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, notFound("get route", err)
	}
	return rt, nil
}

// GetForUpdate obtiene la ruta y bloquea su fila (SELECT ... FOR UPDATE OF r).
func (r *RouteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Route, error) {
	rt, err := scanRoute(r.q.QueryRow(ctx, routeSelect+` WHERE r.id = $1 FOR UPDATE OF r`, id))
	if err != nil {
		return nil, notFound("get route for update", err)
	}
	return rt, nil
}

// SetState cambia el estado de la ruta.
func (r *RouteRepo) SetState(ctx context.Context, id string, state entity.RouteState) error {
	cmd, err := r.q.Exec(ctx, `UPDATE routes SET state = $2, updated_at = now() WHERE id = $1`, id, string(state))
	if err != nil {
		return fmt.Errorf("set route state: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HasActiveForDriver informa si el conductor ya tiene otra ruta ACTIVE en la empresa.
func (r *RouteRepo) HasActiveForDriver(ctx context.Context, companyID, driverID, excludeRouteID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM routes
			 WHERE company_id = $1 AND driver_id = $2 AND state = 'ACTIVE'
			   AND ($3 = '' OR id::text <> $3)
		)`, companyID, driverID, excludeRouteID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active route for driver: %w", err)
	}
	return exists, nil
}

// List lista las rutas de la empresa aplicando los filtros; más recientes primero.
func (r *RouteRepo) List(ctx context.Context, companyID string, f repository.RouteFilter) ([]*entity.Route, error) {
	where := []string{"r.company_id = $1"}
	args := []any{companyID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.From != nil {
		add("r.departure_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("r.departure_date <= $%d", *f.To)
	}
	if len(f.VehicleIDs) > 0 {
		add("r.vehicle_id::text = ANY($%d::text[])", f.VehicleIDs)
	}
	if len(f.ClientIDs) > 0 {
		add("EXISTS (SELECT 1 FROM services s WHERE s.route_id = r.id AND s.client_id::text = ANY($%d::text[]))", f.ClientIDs)
	}
	if f.DriverID != "" {
		add("r.driver_id::text = $%d", f.DriverID)
	}
	if f.State != "" {
		add("r.state = $%d", string(f.State))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(r.name ILIKE $%d OR v.plate ILIKE $%d OR u.name ILIKE $%d)", n, n, n))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit, f.Offset)
	query := routeSelect + " WHERE " + strings.Join(where, " AND ") +
		fmt.Sprintf(" ORDER BY r.departure_date DESC, r.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		list = append(list, rt)
	}
	return list, rows.Err()
}
