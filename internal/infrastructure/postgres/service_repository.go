package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/receivables"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo servicios sobre PostgreSQL (usable con pool o tx).
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador de servicios. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceSelect = `
	SELECT s.id, s.route_id, s.client_id, s.value, s.paid_amount, s.payment_state, s.origin, s.destination,
	       s.notes, s.sequence, s.picked_up, s.pickup_at, s.pickup_lat, s.pickup_lon,
	       s.delivered, s.delivery_at, s.delivery_lat, s.delivery_lon, s.created_at, s.updated_at, c.name
	FROM services s
	JOIN clients c ON c.id = s.client_id`

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	var state string
	var pLat, pLon, dLat, dLon *float64
	err := row.Scan(&s.ID, &s.RouteID, &s.ClientID, &s.Value, &s.PaidAmount, &state, &s.Origin, &s.Destination,
		&s.Notes, &s.Sequence, &s.PickedUp, &s.PickupAt, &pLat, &pLon,
		&s.Delivered, &s.DeliveryAt, &dLat, &dLon, &s.CreatedAt, &s.UpdatedAt, &s.ClientName)
	if err != nil {
		return nil, err
	}
	s.PaymentState = entity.PaymentState(state)
	if pLat != nil && pLon != nil {
		s.PickupPos = &entity.Coordinates{Lat: *pLat, Lon: *pLon}
	}
	if dLat != nil && dLon != nil {
		s.DeliveryPos = &entity.Coordinates{Lat: *dLat, Lon: *dLon}
	}
	return &s, nil
}

func coords(c *entity.Coordinates) (lat, lon *float64) {
	if c == nil {
		return nil, nil
	}
	return &c.Lat, &c.Lon
}

func collectServices(rows pgx.Rows) ([]*entity.Service, error) {
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Create persiste un servicio.
func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	pLat, pLon := coords(s.PickupPos)
	dLat, dLon := coords(s.DeliveryPos)
	_, err := r.q.Exec(ctx, `
		INSERT INTO services (id, route_id, client_id, value, paid_amount, payment_state, origin, destination,
		                      notes, sequence, picked_up, pickup_at, pickup_lat, pickup_lon,
		                      delivered, delivery_at, delivery_lat, delivery_lon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		s.ID, s.RouteID, s.ClientID, s.Value, s.PaidAmount, string(s.PaymentState), s.Origin, s.Destination,
		s.Notes, s.Sequence, s.PickedUp, s.PickupAt, pLat, pLon,
		s.Delivered, s.DeliveryAt, dLat, dLon, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("client_id", "cliente inexistente")
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// Update persiste todos los campos mutables del servicio.
func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	pLat, pLon := coords(s.PickupPos)
	dLat, dLon := coords(s.DeliveryPos)
	cmd, err := r.q.Exec(ctx, `
		UPDATE services SET client_id = $2, value = $3, paid_amount = $4, payment_state = $5, origin = $6,
		       destination = $7, notes = $8, sequence = $9, picked_up = $10, pickup_at = $11, pickup_lat = $12,
		       pickup_lon = $13, delivered = $14, delivery_at = $15, delivery_lat = $16, delivery_lon = $17,
		       updated_at = $18
		WHERE id = $1`,
		s.ID, s.ClientID, s.Value, s.PaidAmount, string(s.PaymentState), s.Origin,
		s.Destination, s.Notes, s.Sequence, s.PickedUp, s.PickupAt, pLat,
		pLon, s.Delivered, s.DeliveryAt, dLat, dLon, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un servicio.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un servicio con el nombre del cliente.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	s, err := scanService(r.q.QueryRow(ctx, serviceSelect+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, notFound("get service", err)
	}
	return s, nil
}

// GetForUpdate obtiene el servicio bloqueando su fila.
func (r *ServiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Service, error) {
	s, err := scanService(r.q.QueryRow(ctx, serviceSelect+` WHERE s.id = $1 FOR UPDATE OF s`, id))
	if err != nil {
		return nil, notFound("get service for update", err)
	}
	return s, nil
}

// ListByRoute servicios de la ruta en orden de recorrido.
func (r *ServiceRepo) ListByRoute(ctx context.Context, routeID string) ([]*entity.Service, error) {
	rows, err := r.q.Query(ctx, serviceSelect+` WHERE s.route_id = $1 ORDER BY s.sequence, s.created_at`, routeID)
	if err != nil {
		return nil, fmt.Errorf("list services by route: %w", err)
	}
	return collectServices(rows)
}

// NextSequence siguiente posición al final de la ruta.
func (r *ServiceRepo) NextSequence(ctx context.Context, routeID string) (int, error) {
	var next int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(sequence), 0) + 1 FROM services WHERE route_id = $1`,
		routeID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next service sequence: %w", err)
	}
	return next, nil
}

// Reorder asigna la posición según el orden de ids. Ids ajenos a la ruta = domain.ErrInvalidInput.
func (r *ServiceRepo) Reorder(ctx context.Context, routeID string, ids []string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE services s SET sequence = o.pos, updated_at = now()
		FROM unnest($2::text[]) WITH ORDINALITY AS o(id, pos)
		WHERE s.id::text = o.id AND s.route_id = $1`, routeID, ids)
	if err != nil {
		return fmt.Errorf("reorder services: %w", err)
	}
	if int(cmd.RowsAffected()) != len(ids) {
		return domain.NewValidationError("ids", "hay servicios que no pertenecen a la ruta")
	}
	return nil
}

// ListByDriver servicios de las rutas asignadas al conductor.
func (r *ServiceRepo) ListByDriver(ctx context.Context, companyID, driverID string, f repository.DriverServiceFilter) ([]*entity.Service, error) {
	query := serviceSelect + `
		JOIN routes r ON r.id = s.route_id
		WHERE r.company_id = $1 AND r.driver_id = $2`
	if f.OnlyUndelivered {
		query += ` AND NOT s.delivered`
	}
	if f.OnlyActiveRoutes {
		query += ` AND r.state = 'ACTIVE'`
	}
	query += ` ORDER BY r.departure_date DESC, s.sequence`

	rows, err := r.q.Query(ctx, query, companyID, driverID)
	if err != nil {
		return nil, fmt.Errorf("list services by driver: %w", err)
	}
	return collectServices(rows)
}

// ListOutstanding servicios con saldo pendiente de la empresa (cartera).
func (r *ServiceRepo) ListOutstanding(ctx context.Context, companyID string, f repository.ReceivablesFilter) ([]receivables.Item, error) {
	where := []string{"r.company_id = $1", "s.payment_state <> 'PAID'"}
	args := []any{companyID}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("r.departure_date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("r.departure_date <= $%d", len(args)))
	}
	if f.ClientID != "" {
		args = append(args, f.ClientID)
		where = append(where, fmt.Sprintf("s.client_id::text = $%d", len(args)))
	}

	rows, err := r.q.Query(ctx, `
		SELECT s.id, s.client_id, c.name, s.route_id, r.departure_date, s.origin, s.destination,
		       s.value, s.paid_amount, s.payment_state
		FROM services s
		JOIN routes r ON r.id = s.route_id
		JOIN clients c ON c.id = s.client_id
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY r.departure_date, c.name`, args...)
	if err != nil {
		return nil, fmt.Errorf("list outstanding services: %w", err)
	}
	defer rows.Close()

	var items []receivables.Item
	for rows.Next() {
		var it receivables.Item
		var state string
		var departure time.Time
		if err := rows.Scan(&it.ServiceID, &it.ClientID, &it.ClientName, &it.RouteID, &departure,
			&it.Origin, &it.Destination, &it.Value, &it.Paid, &state); err != nil {
			return nil, fmt.Errorf("scan outstanding service: %w", err)
		}
		it.DepartureDate = departure
		svc := entity.Service{Value: it.Value, PaidAmount: it.Paid, PaymentState: entity.PaymentState(state)}
		it.Outstanding = svc.Outstanding()
		items = append(items, it)
	}
	return items, rows.Err()
}
