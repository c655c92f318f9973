package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

// RouteFilter filtros del listado de rutas. Campos vacíos no filtran.
type RouteFilter struct {
	From       *time.Time
	To         *time.Time
	VehicleIDs []string
	ClientIDs  []string // rutas con al menos un servicio de estos clientes
	DriverID   string
	State      entity.RouteState
	Search     string // nombre de ruta, placa o conductor
	Limit      int
	Offset     int
}

// RouteRepository puerto de persistencia de rutas. Usable con pool o dentro de una tx.
type RouteRepository interface {
	Create(ctx context.Context, r *entity.Route) error
	Update(ctx context.Context, r *entity.Route) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Route, error)
	// GetForUpdate bloquea la fila de la ruta hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Route, error)
	SetState(ctx context.Context, id string, state entity.RouteState) error
	// HasActiveForDriver informa si el conductor tiene otra ruta ACTIVE en la empresa (excludeRouteID se ignora).
	HasActiveForDriver(ctx context.Context, companyID, driverID, excludeRouteID string) (bool, error)
	List(ctx context.Context, companyID string, f RouteFilter) ([]*entity.Route, error)
}

// CashMovementRepository solo permite crear y leer: los movimientos son inmutables.
type CashMovementRepository interface {
	Create(ctx context.Context, m *entity.CashMovement) error
	ListByRoute(ctx context.Context, routeID string) ([]*entity.CashMovement, error)
}

// RouteClosingRepository snapshot de cierre, uno por ruta.
type RouteClosingRepository interface {
	// Upsert inserta o sobrescribe el cierre de la ruta y devuelve la fila persistida.
	Upsert(ctx context.Context, c *entity.RouteClosing) (*entity.RouteClosing, error)
	GetByRoute(ctx context.Context, routeID string) (*entity.RouteClosing, error)
}
