package routing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fixture empresa con un gerente, un conductor, un cliente y un vehículo.
type fixture struct {
	store   *memory.Store
	engine  *ClosingEngine
	routes  *RouteUseCase
	company string
	manager dto.Actor
	driver  dto.Actor
	client  *entity.Client
	vehicle *entity.Vehicle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	f := &fixture{store: store, company: uuid.NewString()}
	require.NoError(t, memory.NewCompanyRepository(store).Create(ctx, &entity.Company{ID: f.company, Name: "Acarreos Norte", Slug: "norte", Active: true}))

	f.manager = f.addUser(t, "Gerente", entity.RoleGerente)
	f.driver = f.addUser(t, "Pedro Conductor", entity.RoleConductor)

	f.client = &entity.Client{ID: uuid.NewString(), CompanyID: f.company, Name: "Ferretería El Tornillo", Active: true}
	require.NoError(t, memory.NewClientRepository(store).Create(ctx, f.client))
	f.vehicle = &entity.Vehicle{ID: uuid.NewString(), CompanyID: f.company, Plate: "ABC123", Active: true}
	require.NoError(t, memory.NewVehicleRepository(store).Create(ctx, f.vehicle))

	tx := memory.NewTxRunner(store)
	f.engine = NewClosingEngine(tx, 2, zerolog.Nop())
	f.routes = NewRouteUseCase(RouteDeps{
		Tx:        tx,
		Routes:    memory.NewRouteRepository(store),
		Services:  memory.NewServiceRepository(store),
		Movements: memory.NewCashMovementRepository(store),
		Vehicles:  memory.NewVehicleRepository(store),
		Users:     memory.NewUserRepository(store),
		Engine:    f.engine,
	})
	return f
}

func (f *fixture) addUser(t *testing.T, name, role string) dto.Actor {
	t.Helper()
	u := &entity.User{
		ID: uuid.NewString(), CompanyID: f.company, Email: uuid.NewString() + "@acarreo.co",
		Name: name, Role: role, Status: entity.UserActive,
	}
	require.NoError(t, memory.NewUserRepository(f.store).Create(context.Background(), u))
	return dto.Actor{UserID: u.ID, CompanyID: f.company, Role: role}
}

// seedRoute crea una ruta ACTIVE directamente en el store.
func (f *fixture) seedRoute(t *testing.T, driver dto.Actor) *entity.Route {
	t.Helper()
	r := &entity.Route{
		ID:            uuid.NewString(),
		CompanyID:     f.company,
		Name:          "Ruta Norte",
		DepartureDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		VehicleID:     f.vehicle.ID,
		DriverID:      driver.UserID,
		OpeningFloat:  entity.DefaultOpeningFloat,
		State:         entity.RouteActive,
		CreatedBy:     f.manager.UserID,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, memory.NewRouteRepository(f.store).Create(context.Background(), r))
	return r
}

// seedScenario S1 pagado 100.000, S2 parcial 20.000/50.000, S3 pendiente 30.000,
// un ingreso de 20.000 y un gasto de 15.000.
func (f *fixture) seedScenario(t *testing.T, routeID string) {
	t.Helper()
	ctx := context.Background()
	services := memory.NewServiceRepository(f.store)
	for i, s := range []struct {
		value, paid int64
		state       entity.PaymentState
	}{
		{100000, 100000, entity.PaymentPaid},
		{50000, 20000, entity.PaymentPartial},
		{30000, 0, entity.PaymentPending},
	} {
		require.NoError(t, services.Create(ctx, &entity.Service{
			ID: uuid.NewString(), RouteID: routeID, ClientID: f.client.ID,
			Value: s.value, PaidAmount: s.paid, PaymentState: s.state,
			Origin: "Bodega", Destination: "Obra", Sequence: i + 1, CreatedAt: time.Now(),
		}))
	}
	movements := memory.NewCashMovementRepository(f.store)
	require.NoError(t, movements.Create(ctx, &entity.CashMovement{ID: uuid.NewString(), RouteID: routeID, Kind: entity.MovementIncome, Amount: 20000}))
	require.NoError(t, movements.Create(ctx, &entity.CashMovement{ID: uuid.NewString(), RouteID: routeID, Kind: entity.MovementExpense, Amount: 15000}))
}
