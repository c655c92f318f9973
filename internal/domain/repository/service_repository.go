package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/receivables"
)

// DriverServiceFilter filtros de "mis servicios" del conductor.
type DriverServiceFilter struct {
	OnlyUndelivered  bool
	OnlyActiveRoutes bool
}

// ReceivablesFilter rango de fechas de salida de ruta para la cartera.
type ReceivablesFilter struct {
	From     *time.Time
	To       *time.Time
	ClientID string
}

// ServiceRepository puerto de persistencia de servicios.
type ServiceRepository interface {
	Create(ctx context.Context, s *entity.Service) error
	Update(ctx context.Context, s *entity.Service) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Service, error)
	ListByRoute(ctx context.Context, routeID string) ([]*entity.Service, error)
	// NextSequence siguiente posición libre al final de la ruta.
	NextSequence(ctx context.Context, routeID string) (int, error)
	// Reorder asigna sequence = posición+1 según el orden de ids.
	Reorder(ctx context.Context, routeID string, ids []string) error
	ListByDriver(ctx context.Context, companyID, driverID string, f DriverServiceFilter) ([]*entity.Service, error)
	ListOutstanding(ctx context.Context, companyID string, f ReceivablesFilter) ([]receivables.Item, error)
}

// CommentRepository comentarios de servicios.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.ServiceComment) error
	ListByService(ctx context.Context, serviceID string) ([]*entity.ServiceComment, error)
}
