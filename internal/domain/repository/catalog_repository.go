package repository

import (
	"context"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

// ClientRepository catálogo de clientes por empresa.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	Update(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Client, error)
	List(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Client, error)
}

// VehicleRepository catálogo de vehículos por empresa.
type VehicleRepository interface {
	Create(ctx context.Context, v *entity.Vehicle) error
	Update(ctx context.Context, v *entity.Vehicle) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Vehicle, error)
	List(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Vehicle, error)
}
