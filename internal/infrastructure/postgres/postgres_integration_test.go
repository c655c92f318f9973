//go:build integration

package postgres_test

// Pruebas contra PostgreSQL real vía testcontainers.
// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/... -v

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/Acarreo-api/internal/application/routing"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/analytics"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
	"github.com/jhoicas/Acarreo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Acarreo-api/pkg/config"
)

// ── Setup ────────────────────────────────────────────────────────────────────

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("acarreo_test"),
		tcPostgres.WithUsername("acarreo"),
		tcPostgres.WithPassword("acarreo"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool, zerolog.Nop()))
	return pool
}

type seed struct {
	company string
	manager *entity.User
	driver  *entity.User
	client  *entity.Client
	vehicle *entity.Vehicle
}

func seedCompany(t *testing.T, pool *pgxpool.Pool, slug string) *seed {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	s := &seed{company: uuid.NewString()}

	require.NoError(t, postgres.NewCompanyRepository(pool).Create(ctx, &entity.Company{
		ID: s.company, Name: "Acarreos " + slug, Slug: slug, Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	users := postgres.NewUserRepository(pool)
	for _, u := range []**entity.User{&s.manager, &s.driver} {
		role := entity.RoleGerente
		if u == &s.driver {
			role = entity.RoleConductor
		}
		*u = &entity.User{
			ID: uuid.NewString(), CompanyID: s.company, Email: uuid.NewString() + "@acarreo.co",
			PasswordHash: "x", Name: role, Role: role, Status: entity.UserActive, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, users.Create(ctx, *u))
	}
	s.client = &entity.Client{ID: uuid.NewString(), CompanyID: s.company, Name: "Ferretería El Tornillo", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewClientRepository(pool).Create(ctx, s.client))
	s.vehicle = &entity.Vehicle{ID: uuid.NewString(), CompanyID: s.company, Plate: "ABC123", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewVehicleRepository(pool).Create(ctx, s.vehicle))
	return s
}

func (s *seed) route(t *testing.T, pool *pgxpool.Pool) *entity.Route {
	t.Helper()
	now := time.Now().UTC()
	r := &entity.Route{
		ID: uuid.NewString(), CompanyID: s.company, Name: "Ruta Norte",
		DepartureDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		VehicleID:     s.vehicle.ID, DriverID: s.driver.ID,
		OpeningFloat: entity.DefaultOpeningFloat, State: entity.RouteActive,
		CreatedBy: s.manager.ID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewRouteRepository(pool).Create(context.Background(), r))
	return r
}

// scenario S1 pagado, S2 parcial, S3 pendiente; ingreso 20.000 y gasto 15.000.
func (s *seed) scenario(t *testing.T, pool *pgxpool.Pool, routeID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	services := postgres.NewServiceRepository(pool)
	for i, sv := range []struct {
		value, paid int64
		state       entity.PaymentState
	}{
		{100000, 100000, entity.PaymentPaid},
		{50000, 20000, entity.PaymentPartial},
		{30000, 0, entity.PaymentPending},
	} {
		require.NoError(t, services.Create(ctx, &entity.Service{
			ID: uuid.NewString(), RouteID: routeID, ClientID: s.client.ID,
			Value: sv.value, PaidAmount: sv.paid, PaymentState: sv.state,
			Origin: "Bodega", Destination: "Obra", Sequence: i + 1, CreatedAt: now, UpdatedAt: now,
		}))
	}
	movements := postgres.NewCashMovementRepository(pool)
	require.NoError(t, movements.Create(ctx, &entity.CashMovement{ID: uuid.NewString(), RouteID: routeID, Kind: entity.MovementIncome, Amount: 20000, CreatedAt: now}))
	require.NoError(t, movements.Create(ctx, &entity.CashMovement{ID: uuid.NewString(), RouteID: routeID, Kind: entity.MovementExpense, Amount: 15000, CreatedAt: now}))
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestPostgres(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	engine := routing.NewClosingEngine(postgres.NewTxRunner(pool), 3, zerolog.Nop())

	t.Run("migraciones idempotentes", func(t *testing.T) {
		require.NoError(t, postgres.Migrate(ctx, pool, zerolog.Nop()))
	})

	t.Run("cierre del escenario", func(t *testing.T) {
		s := seedCompany(t, pool, "escenario")
		r := s.route(t, pool)
		s.scenario(t, pool, r.ID)

		first, err := engine.Close(ctx, s.company, r.ID, s.manager.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, first.TotalServices)
		assert.Equal(t, int64(100000), first.TotalCollected)
		assert.Equal(t, int64(60000), first.TotalOutstanding)
		assert.Equal(t, int64(85000), first.NetResult)

		stored, err := postgres.NewRouteRepository(pool).GetByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RouteClosed, stored.State)

		second, err := engine.Close(ctx, s.company, r.ID, s.manager.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID, "volver a cerrar sobrescribe la misma fila")
		assert.True(t, first.SameTotals(second))

		summary, err := engine.Summary(ctx, s.company, r.ID, s.manager.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(285000), summary.DeliverableCash)
	})

	t.Run("cierres concurrentes dejan un solo snapshot", func(t *testing.T) {
		s := seedCompany(t, pool, "concurrente")
		r := s.route(t, pool)
		s.scenario(t, pool, r.ID)

		var wg sync.WaitGroup
		errs := make([]error, 6)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = engine.Close(ctx, s.company, r.ID, s.manager.ID)
			}(i)
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.True(t, errors.Is(err, domain.ErrConcurrentModification), "error inesperado: %v", err)
		}
		assert.GreaterOrEqual(t, ok, 1)

		var rows int
		require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM route_closings WHERE route_id = $1`, r.ID).Scan(&rows))
		assert.Equal(t, 1, rows)
	})

	t.Run("analítica del escenario", func(t *testing.T) {
		s := seedCompany(t, pool, "analitica")
		r := s.route(t, pool)
		s.scenario(t, pool, r.ID)
		repo := postgres.NewAnalyticsRepository(pool)
		march := repository.AnalyticsFilter{From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)}

		facts, err := repo.ServiceFacts(ctx, s.company, march)
		require.NoError(t, err)
		require.Len(t, facts, 3)
		assert.Equal(t, r.DepartureDate, facts[0].DepartureDate.UTC())
		assert.Equal(t, s.driver.Name, facts[0].DriverName)
		assert.Equal(t, "Ferretería El Tornillo", facts[0].ClientName)
		assert.Equal(t, int64(100000), facts[0].Paid)

		march.DriverID = uuid.NewString()
		facts, err = repo.ServiceFacts(ctx, s.company, march)
		require.NoError(t, err)
		assert.Empty(t, facts, "filtro por otro conductor")

		day := r.DepartureDate
		counts, err := repo.OperationalCounts(ctx, s.company, day, day, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, analytics.Counts{ActiveRoutes: 1, ActiveServices: 3, PendingToday: 3}, counts)
	})

	t.Run("otra empresa no puede cerrar la ruta", func(t *testing.T) {
		s := seedCompany(t, pool, "propia")
		other := seedCompany(t, pool, "ajena")
		r := s.route(t, pool)

		_, err := engine.Close(ctx, other.company, r.ID, other.manager.ID)
		assert.ErrorIs(t, err, domain.ErrTenantMismatch)

		var rows int
		require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM route_closings WHERE route_id = $1`, r.ID).Scan(&rows))
		assert.Zero(t, rows, "un intento rechazado no deja cierre")
	})

	t.Run("un conductor solo tiene una ruta activa", func(t *testing.T) {
		s := seedCompany(t, pool, "conductor")
		s.route(t, pool)

		dup := &entity.Route{
			ID: uuid.NewString(), CompanyID: s.company, DepartureDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
			VehicleID: s.vehicle.ID, DriverID: s.driver.ID, OpeningFloat: entity.DefaultOpeningFloat,
			State: entity.RouteActive, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
		}
		err := postgres.NewRouteRepository(pool).Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrDriverHasActiveRoute)
	})
}
