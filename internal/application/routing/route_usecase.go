package routing

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/closing"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/event"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// RouteDeps dependencias de RouteUseCase.
type RouteDeps struct {
	Tx           repository.TxRunner
	Routes       repository.RouteRepository
	Services     repository.ServiceRepository
	Movements    repository.CashMovementRepository
	Vehicles     repository.VehicleRepository
	Users        repository.UserRepository
	Engine       *ClosingEngine
	DefaultFloat decimal.Decimal
}

// RouteUseCase ciclo de vida de rutas, caja y cierre.
type RouteUseCase struct {
	d   RouteDeps
	now func() time.Time
}

// NewRouteUseCase construye el caso de uso. DefaultFloat cero = entity.DefaultOpeningFloat.
func NewRouteUseCase(d RouteDeps) *RouteUseCase {
	if d.DefaultFloat.IsZero() {
		d.DefaultFloat = entity.DefaultOpeningFloat
	}
	return &RouteUseCase{d: d, now: time.Now}
}

// authorize verifica tenant y, para conductores, que la ruta sea suya.
func authorize(actor dto.Actor, route *entity.Route) error {
	if err := route.BelongsTo(actor.CompanyID); err != nil {
		return err
	}
	if actor.IsDriver() && route.DriverID != actor.UserID {
		return domain.ErrForbidden
	}
	return nil
}

func (uc *RouteUseCase) load(ctx context.Context, actor dto.Actor, id string) (*entity.Route, error) {
	route, err := uc.d.Routes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, route); err != nil {
		return nil, err
	}
	return route, nil
}

// checkVehicle el vehículo debe existir en la empresa y estar activo.
func (uc *RouteUseCase) checkVehicle(ctx context.Context, companyID, vehicleID string) (*entity.Vehicle, error) {
	v, err := uc.d.Vehicles.GetByID(ctx, companyID, vehicleID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !v.Active) {
		return nil, domain.NewValidationError("vehicle_id", "vehículo inexistente o inactivo")
	}
	return v, err
}

// checkDriver el conductor debe ser un usuario activo de la empresa con rol conductor
// y no tener otra ruta ACTIVE.
func (uc *RouteUseCase) checkDriver(ctx context.Context, companyID, driverID, excludeRouteID string) (*entity.User, error) {
	u, err := uc.d.Users.GetByID(ctx, driverID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewValidationError("driver_id", "conductor inexistente")
	}
	if err != nil {
		return nil, err
	}
	if u.CompanyID != companyID || !u.IsDriver() || u.Status != entity.UserActive {
		return nil, domain.NewValidationError("driver_id", "el usuario no es un conductor activo de la empresa")
	}
	busy, err := uc.d.Routes.HasActiveForDriver(ctx, companyID, driverID, excludeRouteID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, domain.FieldError("driver_id", domain.ErrDriverHasActiveRoute)
	}
	return u, nil
}

// Create crea una ruta ACTIVE. Solo gerentes. Devuelve el evento RouteCreated para que el llamador lo despache.
func (uc *RouteUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateRouteRequest) (*dto.RouteResponse, *event.RouteCreated, error) {
	if !actor.IsManager() {
		return nil, nil, domain.ErrForbidden
	}
	date, err := dto.ParseDate(in.DepartureDate)
	if err != nil {
		return nil, nil, domain.NewValidationError("departure_date", "fecha inválida")
	}
	vehicle, err := uc.checkVehicle(ctx, actor.CompanyID, in.VehicleID)
	if err != nil {
		return nil, nil, err
	}
	driver, err := uc.checkDriver(ctx, actor.CompanyID, in.DriverID, "")
	if err != nil {
		return nil, nil, err
	}

	now := uc.now()
	route := &entity.Route{
		ID:            uuid.New().String(),
		CompanyID:     actor.CompanyID,
		Name:          strings.TrimSpace(in.Name),
		DepartureDate: date,
		VehicleID:     vehicle.ID,
		DriverID:      driver.ID,
		OpeningFloat:  uc.d.DefaultFloat,
		State:         entity.RouteActive,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
		VehiclePlate:  vehicle.Plate,
		DriverName:    driver.Name,
	}
	if in.OpeningFloat != nil {
		route.OpeningFloat = *in.OpeningFloat
	}
	if err := route.Validate(); err != nil {
		return nil, nil, err
	}
	if err := uc.d.Routes.Create(ctx, route); err != nil {
		return nil, nil, err
	}

	ev := &event.RouteCreated{
		CompanyID:     route.CompanyID,
		RouteID:       route.ID,
		RouteLabel:    route.Label(),
		DepartureDate: route.DepartureDate,
		DriverID:      route.DriverID,
		ActorID:       actor.UserID,
		At:            now,
	}
	resp := dto.RouteFromEntity(route)
	return &resp, ev, nil
}

// Update edita una ruta ACTIVE. Solo gerentes.
func (uc *RouteUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateRouteRequest) (*dto.RouteResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	var out *entity.Route
	err := uc.d.Tx.Run(ctx, func(tx repository.TxRepos) error {
		route, err := tx.Routes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := route.BelongsTo(actor.CompanyID); err != nil {
			return err
		}
		if err := route.EnsureOpen(); err != nil {
			return err
		}

		if in.Name != nil {
			route.Name = strings.TrimSpace(*in.Name)
		}
		if in.DepartureDate != nil {
			d, err := dto.ParseDate(*in.DepartureDate)
			if err != nil {
				return domain.NewValidationError("departure_date", "fecha inválida")
			}
			route.DepartureDate = d
		}
		if in.VehicleID != nil && *in.VehicleID != route.VehicleID {
			v, err := uc.checkVehicle(ctx, actor.CompanyID, *in.VehicleID)
			if err != nil {
				return err
			}
			route.VehicleID, route.VehiclePlate = v.ID, v.Plate
		}
		if in.DriverID != nil && *in.DriverID != route.DriverID {
			u, err := uc.checkDriver(ctx, actor.CompanyID, *in.DriverID, route.ID)
			if err != nil {
				return err
			}
			route.DriverID, route.DriverName = u.ID, u.Name
		}
		if in.OpeningFloat != nil {
			route.OpeningFloat = *in.OpeningFloat
		}
		route.UpdatedAt = uc.now()
		if err := route.Validate(); err != nil {
			return err
		}
		if err := tx.Routes.Update(ctx, route); err != nil {
			return err
		}
		out = route
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.RouteFromEntity(out)
	return &resp, nil
}

// Delete elimina una ruta ACTIVE con sus servicios. Solo gerentes.
func (uc *RouteUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	if !actor.IsManager() {
		return domain.ErrForbidden
	}
	return uc.d.Tx.Run(ctx, func(tx repository.TxRepos) error {
		route, err := tx.Routes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := route.BelongsTo(actor.CompanyID); err != nil {
			return err
		}
		if err := route.EnsureOpen(); err != nil {
			return err
		}
		return tx.Routes.Delete(ctx, id)
	})
}

// Get obtiene una ruta. Un conductor solo ve las suyas.
func (uc *RouteUseCase) Get(ctx context.Context, actor dto.Actor, id string) (*dto.RouteResponse, error) {
	route, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := dto.RouteFromEntity(route)
	return &resp, nil
}

// List lista rutas de la empresa. Para conductores: solo sus rutas ACTIVE.
func (uc *RouteUseCase) List(ctx context.Context, actor dto.Actor, q dto.RouteListQuery) ([]dto.RouteResponse, error) {
	q.DefaultPage()
	f := repository.RouteFilter{
		VehicleIDs: splitList(q.Vehicles),
		ClientIDs:  splitList(q.Clients),
		State:      entity.RouteState(q.State),
		Search:     q.Q,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if q.From != "" {
		d, err := dto.ParseDate(q.From)
		if err != nil {
			return nil, domain.NewValidationError("from", "fecha inválida")
		}
		f.From = &d
	}
	if q.To != "" {
		d, err := dto.ParseDate(q.To)
		if err != nil {
			return nil, domain.NewValidationError("to", "fecha inválida")
		}
		f.To = &d
	}
	if actor.IsDriver() {
		f.DriverID = actor.UserID
		f.State = entity.RouteActive
	}

	list, err := uc.d.Routes.List(ctx, actor.CompanyID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RouteResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.RouteFromEntity(r))
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Sheet planilla de la ruta con totales en vivo (sin persistir cierre).
func (uc *RouteUseCase) Sheet(ctx context.Context, actor dto.Actor, id string) (*dto.RouteSheetResponse, error) {
	route, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	services, err := uc.d.Services.ListByRoute(ctx, id)
	if err != nil {
		return nil, err
	}
	movements, err := uc.d.Movements.ListByRoute(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.RouteSheetResponse{
		Route:     dto.RouteFromEntity(route),
		Services:  dto.ServicesFromEntities(services),
		Movements: dto.MovementsFromEntities(movements),
		Totals:    dto.TotalsFromCompute(closing.Compute(services, movements)),
	}, nil
}

// AddMovement registra un ingreso o gasto manual. La ruta se bloquea y debe seguir ACTIVE.
func (uc *RouteUseCase) AddMovement(ctx context.Context, actor dto.Actor, routeID string, in dto.CashMovementRequest) (*dto.CashMovementResponse, error) {
	if in.Amount <= 0 {
		return nil, domain.FieldError("amount", domain.ErrInvalidPaymentAmount)
	}
	m := &entity.CashMovement{
		ID:        uuid.New().String(),
		RouteID:   routeID,
		Kind:      entity.MovementKind(in.Kind),
		Amount:    in.Amount,
		Memo:      strings.TrimSpace(in.Memo),
		ActorID:   actor.UserID,
		CreatedAt: uc.now(),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	err := uc.d.Tx.Run(ctx, func(tx repository.TxRepos) error {
		route, err := tx.Routes.GetForUpdate(ctx, routeID)
		if err != nil {
			return err
		}
		if err := authorize(actor, route); err != nil {
			return err
		}
		if err := route.EnsureOpen(); err != nil {
			return err
		}
		return tx.Movements.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	resp := dto.MovementFromEntity(m)
	return &resp, nil
}

// Trail puntos de recogida y entrega ordenados por hora.
func (uc *RouteUseCase) Trail(ctx context.Context, actor dto.Actor, routeID string) ([]dto.TrailPoint, error) {
	if _, err := uc.load(ctx, actor, routeID); err != nil {
		return nil, err
	}
	services, err := uc.d.Services.ListByRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}
	points := make([]dto.TrailPoint, 0, len(services)*2)
	for _, s := range services {
		if s.PickupAt != nil && s.PickupPos != nil {
			points = append(points, dto.TrailPoint{
				ServiceID: s.ID, ClientName: s.ClientName, Kind: "pickup",
				At: *s.PickupAt, Lat: s.PickupPos.Lat, Lon: s.PickupPos.Lon,
			})
		}
		if s.DeliveryAt != nil && s.DeliveryPos != nil {
			points = append(points, dto.TrailPoint{
				ServiceID: s.ID, ClientName: s.ClientName, Kind: "delivery",
				At: *s.DeliveryAt, Lat: s.DeliveryPos.Lat, Lon: s.DeliveryPos.Lon,
			})
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })
	return points, nil
}

// Close cierra la ruta. Gerentes, o el conductor dueño de la ruta.
func (uc *RouteUseCase) Close(ctx context.Context, actor dto.Actor, routeID string) (*dto.ClosingResponse, error) {
	if _, err := uc.load(ctx, actor, routeID); err != nil {
		return nil, err
	}
	c, err := uc.d.Engine.Close(ctx, actor.CompanyID, routeID, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := dto.ClosingFromEntity(c)
	return &resp, nil
}

// Summary resumen del cierre; se recalcula en cada consulta.
func (uc *RouteUseCase) Summary(ctx context.Context, actor dto.Actor, routeID string) (*dto.ClosingSummaryResponse, error) {
	if _, err := uc.load(ctx, actor, routeID); err != nil {
		return nil, err
	}
	s, err := uc.d.Engine.Summary(ctx, actor.CompanyID, routeID, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := dto.SummaryFromDomain(s)
	return &resp, nil
}
