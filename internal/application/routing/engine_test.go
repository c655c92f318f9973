package routing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Cierre ───────────────────────────────────────────────────────────────────

func TestClose_Escenario(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)
	f.seedScenario(t, route.ID)

	c, err := f.engine.Close(context.Background(), f.company, route.ID, f.manager.UserID)

	require.NoError(t, err)
	assert.Equal(t, 3, c.TotalServices)
	assert.Equal(t, int64(100000), c.TotalCollected)
	assert.Equal(t, int64(60000), c.TotalOutstanding)
	assert.Equal(t, int64(20000), c.TotalIncome)
	assert.Equal(t, int64(15000), c.TotalExpenses)
	assert.Equal(t, int64(85000), c.NetResult)
	assert.Equal(t, f.manager.UserID, c.GeneratedBy)

	got, err := memory.NewRouteRepository(f.store).GetByID(context.Background(), route.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RouteClosed, got.State, "la ruta debe quedar CLOSED")
}

func TestClose_Idempotente(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)
	f.seedScenario(t, route.ID)
	ctx := context.Background()

	first, err := f.engine.Close(ctx, f.company, route.ID, f.manager.UserID)
	require.NoError(t, err)
	second, err := f.engine.Close(ctx, f.company, route.ID, f.driver.UserID)
	require.NoError(t, err)

	assert.True(t, first.SameTotals(second), "cerrar dos veces debe dar los mismos totales")
	assert.Equal(t, first.ID, second.ID, "el cierre se sobrescribe, no se duplica")
	assert.Equal(t, f.driver.UserID, second.GeneratedBy)
	assert.Equal(t, 1, f.store.ClosingCount(route.ID))
}

func TestClose_RutaVacia(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)

	c, err := f.engine.Close(context.Background(), f.company, route.ID, f.manager.UserID)

	require.NoError(t, err)
	assert.Equal(t, 0, c.TotalServices)
	assert.Zero(t, c.NetResult)
}

func TestClose_Concurrente(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)
	f.seedScenario(t, route.ID)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.Close(context.Background(), f.company, route.ID, f.manager.UserID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, f.store.ClosingCount(route.ID), "un solo cierre por ruta")
}

// ─── Reintentos ───────────────────────────────────────────────────────────────

func TestClose_ReintentaConflictoTransitorio(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)
	f.seedScenario(t, route.ID)
	f.store.FailUpserts(fmt.Errorf("%w: serialization failure", domain.ErrTransactionConflict))

	c, err := f.engine.Close(context.Background(), f.company, route.ID, f.manager.UserID)

	require.NoError(t, err)
	assert.Equal(t, int64(85000), c.NetResult)
	assert.Equal(t, 2, f.store.UpsertCalls(), "un intento fallido y uno exitoso")
}

func TestClose_AgotaReintentos(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)
	conflict := fmt.Errorf("%w: deadlock", domain.ErrTransactionConflict)
	f.store.FailUpserts(conflict, conflict)

	_, err := f.engine.Close(context.Background(), f.company, route.ID, f.manager.UserID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConcurrentModification))
	assert.Equal(t, 0, f.store.ClosingCount(route.ID), "sin escritura parcial")

	got, err := memory.NewRouteRepository(f.store).GetByID(context.Background(), route.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RouteActive, got.State, "la ruta sigue ACTIVE tras el rollback")
}

func TestClose_ErrorNoTransitorioNoReintenta(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)
	boom := errors.New("disco lleno")
	f.store.FailUpserts(boom)

	_, err := f.engine.Close(context.Background(), f.company, route.ID, f.manager.UserID)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.store.UpsertCalls())
}

// ─── Tenant y existencia ──────────────────────────────────────────────────────

func TestClose_OtraEmpresa(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)

	_, err := f.engine.Close(context.Background(), uuid.NewString(), route.ID, f.manager.UserID)

	assert.ErrorIs(t, err, domain.ErrTenantMismatch)
	assert.Equal(t, 0, f.store.ClosingCount(route.ID))
}

func TestClose_RutaInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Close(context.Background(), f.company, uuid.NewString(), f.manager.UserID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Resumen y snapshot ───────────────────────────────────────────────────────

func TestSummary_Escenario(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)
	f.seedScenario(t, route.ID)

	s, err := f.engine.Summary(context.Background(), f.company, route.ID, f.manager.UserID)

	require.NoError(t, err)
	assert.Equal(t, "Ruta Norte", s.RouteLabel)
	assert.Equal(t, int64(200000), s.OpeningFloat)
	assert.Equal(t, int64(285000), s.DeliverableCash)
	assert.Equal(t, int64(85000), s.NetResult)
}

func TestSnapshot_RutaCerradaNoRecalcula(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)
	f.seedScenario(t, route.ID)
	ctx := context.Background()

	_, err := f.engine.Close(ctx, f.company, route.ID, f.manager.UserID)
	require.NoError(t, err)
	calls := f.store.UpsertCalls()

	snap, err := f.engine.Snapshot(ctx, f.company, route.ID, f.driver.UserID)

	require.NoError(t, err)
	assert.Equal(t, calls, f.store.UpsertCalls(), "el snapshot de una ruta cerrada no vuelve a escribir")
	assert.Equal(t, f.manager.UserID, snap.Closing.GeneratedBy)
	assert.Len(t, snap.Services, 3)
	assert.Len(t, snap.Movements, 2)
}

func TestSnapshot_RutaActivaCierra(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t, f.driver)

	snap, err := f.engine.Snapshot(context.Background(), f.company, route.ID, f.manager.UserID)

	require.NoError(t, err)
	assert.True(t, snap.Route.IsClosed())
	assert.Equal(t, 1, f.store.ClosingCount(route.ID))
}
