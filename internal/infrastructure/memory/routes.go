package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var (
	_ repository.RouteRepository        = (*RouteRepo)(nil)
	_ repository.CashMovementRepository = (*CashMovementRepo)(nil)
	_ repository.RouteClosingRepository = (*RouteClosingRepo)(nil)
)

// RouteRepo rutas en memoria. Emula el índice único parcial de conductor activo.
type RouteRepo struct{ s *Store }

func NewRouteRepository(s *Store) *RouteRepo { return &RouteRepo{s: s} }

// withJoins completa placa y conductor; requiere s.mu tomado.
func (r *RouteRepo) withJoins(rt entity.Route) *entity.Route {
	rt.VehiclePlate = r.s.vehicles[rt.VehicleID].Plate
	rt.DriverName = r.s.users[rt.DriverID].Name
	return &rt
}

func (r *RouteRepo) activeConflict(rt *entity.Route) bool {
	if rt.State != entity.RouteActive {
		return false
	}
	for _, e := range r.s.routes {
		if e.ID != rt.ID && e.CompanyID == rt.CompanyID && e.DriverID == rt.DriverID && e.State == entity.RouteActive {
			return true
		}
	}
	return false
}

func (r *RouteRepo) Create(_ context.Context, rt *entity.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.activeConflict(rt) {
		return domain.FieldError("driver_id", domain.ErrDriverHasActiveRoute)
	}
	r.s.routes[rt.ID] = *rt
	return nil
}

func (r *RouteRepo) Update(_ context.Context, rt *entity.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.routes[rt.ID]
	if !ok || e.State != entity.RouteActive {
		return domain.ErrRouteClosed
	}
	upd := *rt
	upd.State = e.State
	if r.activeConflict(&upd) {
		return domain.FieldError("driver_id", domain.ErrDriverHasActiveRoute)
	}
	r.s.routes[rt.ID] = upd
	return nil
}

func (r *RouteRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.routes[id]
	if !ok || e.State != entity.RouteActive {
		return domain.ErrRouteClosed
	}
	delete(r.s.routes, id)
	for sid, svc := range r.s.services {
		if svc.RouteID == id {
			delete(r.s.services, sid)
		}
	}
	kept := r.s.movements[:0]
	for _, m := range r.s.movements {
		if m.RouteID != id {
			kept = append(kept, m)
		}
	}
	r.s.movements = kept
	delete(r.s.closings, id)
	return nil
}

func (r *RouteRepo) GetByID(_ context.Context, id string) (*entity.Route, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, ok := r.s.routes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.withJoins(rt), nil
}

// GetForUpdate igual que GetByID: las transacciones en memoria ya están serializadas.
func (r *RouteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Route, error) {
	return r.GetByID(ctx, id)
}

func (r *RouteRepo) SetState(_ context.Context, id string, state entity.RouteState) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, ok := r.s.routes[id]
	if !ok {
		return domain.ErrNotFound
	}
	rt.State = state
	rt.UpdatedAt = time.Now()
	r.s.routes[id] = rt
	return nil
}

func (r *RouteRepo) HasActiveForDriver(_ context.Context, companyID, driverID, excludeRouteID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.routes {
		if e.ID != excludeRouteID && e.CompanyID == companyID && e.DriverID == driverID && e.State == entity.RouteActive {
			return true, nil
		}
	}
	return false, nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (r *RouteRepo) List(_ context.Context, companyID string, f repository.RouteFilter) ([]*entity.Route, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var list []*entity.Route
	for _, e := range r.s.routes {
		if e.CompanyID != companyID {
			continue
		}
		if f.From != nil && e.DepartureDate.Before(*f.From) {
			continue
		}
		if f.To != nil && e.DepartureDate.After(*f.To) {
			continue
		}
		if len(f.VehicleIDs) > 0 && !contains(f.VehicleIDs, e.VehicleID) {
			continue
		}
		if f.DriverID != "" && e.DriverID != f.DriverID {
			continue
		}
		if f.State != "" && e.State != f.State {
			continue
		}
		if len(f.ClientIDs) > 0 {
			found := false
			for _, svc := range r.s.services {
				if svc.RouteID == e.ID && contains(f.ClientIDs, svc.ClientID) {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		rt := r.withJoins(e)
		if search != "" &&
			!strings.Contains(strings.ToLower(rt.Name), search) &&
			!strings.Contains(strings.ToLower(rt.VehiclePlate), search) &&
			!strings.Contains(strings.ToLower(rt.DriverName), search) {
			continue
		}
		list = append(list, rt)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DepartureDate.Equal(list[j].DepartureDate) {
			return list[i].DepartureDate.After(list[j].DepartureDate)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	return page(list, limit, f.Offset), nil
}

// CashMovementRepo movimientos en memoria (solo alta y lectura).
type CashMovementRepo struct{ s *Store }

func NewCashMovementRepository(s *Store) *CashMovementRepo { return &CashMovementRepo{s: s} }

func (r *CashMovementRepo) Create(_ context.Context, m *entity.CashMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *CashMovementRepo) ListByRoute(_ context.Context, routeID string) ([]*entity.CashMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.CashMovement
	for _, m := range r.s.movements {
		if m.RouteID == routeID {
			m := m
			list = append(list, &m)
		}
	}
	return list, nil
}

// RouteClosingRepo cierres en memoria, uno por ruta.
type RouteClosingRepo struct{ s *Store }

func NewRouteClosingRepository(s *Store) *RouteClosingRepo { return &RouteClosingRepo{s: s} }

func (r *RouteClosingRepo) Upsert(_ context.Context, c *entity.RouteClosing) (*entity.RouteClosing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.upsertCalls++
	if len(r.s.upsertErrs) > 0 {
		err := r.s.upsertErrs[0]
		r.s.upsertErrs = r.s.upsertErrs[1:]
		return nil, err
	}
	saved := *c
	if prev, ok := r.s.closings[c.RouteID]; ok {
		saved.ID = prev.ID
	}
	r.s.closings[c.RouteID] = saved
	return &saved, nil
}

func (r *RouteClosingRepo) GetByRoute(_ context.Context, routeID string) (*entity.RouteClosing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.closings[routeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}
