package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/closing"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// ClosingEngine calcula y persiste el snapshot de cierre de una ruta y la pasa a CLOSED.
// Cada cierre es una sola transacción: bloqueo de la ruta, lectura de servicios y movimientos,
// upsert del cierre por route_id y cambio de estado.
type ClosingEngine struct {
	tx          repository.TxRunner
	maxAttempts int
	log         zerolog.Logger
	now         func() time.Time
}

// NewClosingEngine construye el motor. maxAttempts < 1 se trata como 1.
func NewClosingEngine(tx repository.TxRunner, maxAttempts int, log zerolog.Logger) *ClosingEngine {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &ClosingEngine{tx: tx, maxAttempts: maxAttempts, log: log, now: time.Now}
}

// Snapshot cierre persistido con las filas que lo originaron.
type Snapshot struct {
	Route     *entity.Route
	Closing   *entity.RouteClosing
	Services  []*entity.Service
	Movements []*entity.CashMovement
}

// Close cierra la ruta (o refresca el cierre si ya estaba cerrada) y devuelve el snapshot persistido.
// La ruta debe ser de companyID: si no, domain.ErrTenantMismatch.
func (e *ClosingEngine) Close(ctx context.Context, companyID, routeID, actorID string) (*entity.RouteClosing, error) {
	snap, err := e.close(ctx, companyID, routeID, actorID)
	if err != nil {
		return nil, err
	}
	return snap.Closing, nil
}

// Summary recalcula el cierre y arma el resumen con las cifras derivadas.
func (e *ClosingEngine) Summary(ctx context.Context, companyID, routeID, actorID string) (closing.Summary, error) {
	snap, err := e.close(ctx, companyID, routeID, actorID)
	if err != nil {
		return closing.Summary{}, err
	}
	return closing.BuildSummary(snap.Route, snap.Closing, snap.Services), nil
}

// Snapshot devuelve el cierre existente de una ruta cerrada o cierra bajo demanda.
func (e *ClosingEngine) Snapshot(ctx context.Context, companyID, routeID, actorID string) (*Snapshot, error) {
	var snap *Snapshot
	err := e.tx.Run(ctx, func(tx repository.TxRepos) error {
		route, err := tx.Routes.GetByID(ctx, routeID)
		if err != nil {
			return err
		}
		if err := route.BelongsTo(companyID); err != nil {
			return err
		}
		if !route.IsClosed() {
			return nil
		}
		c, err := tx.Closings.GetByRoute(ctx, routeID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		services, err := tx.Services.ListByRoute(ctx, routeID)
		if err != nil {
			return err
		}
		movements, err := tx.Movements.ListByRoute(ctx, routeID)
		if err != nil {
			return err
		}
		snap = &Snapshot{Route: route, Closing: c, Services: services, Movements: movements}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if snap != nil {
		return snap, nil
	}
	return e.close(ctx, companyID, routeID, actorID)
}

// close ejecuta la transacción de cierre reintentando ante conflictos transitorios.
func (e *ClosingEngine) close(ctx context.Context, companyID, routeID, actorID string) (*Snapshot, error) {
	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		snap, err := e.closeOnce(ctx, companyID, routeID, actorID)
		if err == nil {
			e.log.Info().
				Str("route_id", routeID).
				Str("company_id", companyID).
				Int("attempt", attempt).
				Int("total_services", snap.Closing.TotalServices).
				Int64("total_collected", snap.Closing.TotalCollected).
				Int64("net_result", snap.Closing.NetResult).
				Dur("duration", time.Since(start)).
				Msg("ruta cerrada")
			return snap, nil
		}
		if !errors.Is(err, domain.ErrTransactionConflict) {
			return nil, err
		}
		lastErr = err
		e.log.Warn().Err(err).Str("route_id", routeID).Int("attempt", attempt).Msg("conflicto al cerrar ruta, reintentando")
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrConcurrentModification, lastErr)
}

func (e *ClosingEngine) closeOnce(ctx context.Context, companyID, routeID, actorID string) (*Snapshot, error) {
	var snap Snapshot
	err := e.tx.Run(ctx, func(tx repository.TxRepos) error {
		route, err := tx.Routes.GetForUpdate(ctx, routeID)
		if err != nil {
			return err
		}
		if err := route.BelongsTo(companyID); err != nil {
			return err
		}

		services, err := tx.Services.ListByRoute(ctx, routeID)
		if err != nil {
			return err
		}
		movements, err := tx.Movements.ListByRoute(ctx, routeID)
		if err != nil {
			return err
		}

		c := &entity.RouteClosing{
			ID:          uuid.New().String(),
			RouteID:     routeID,
			GeneratedBy: actorID,
			GeneratedAt: e.now(),
		}
		closing.Compute(services, movements).ApplyTo(c)

		saved, err := tx.Closings.Upsert(ctx, c)
		if err != nil {
			return err
		}
		if !route.IsClosed() {
			if err := tx.Routes.SetState(ctx, routeID, entity.RouteClosed); err != nil {
				return err
			}
			route.State = entity.RouteClosed
		}
		snap = Snapshot{Route: route, Closing: saved, Services: services, Movements: movements}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
