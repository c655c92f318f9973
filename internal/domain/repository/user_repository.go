package repository

import (
	"context"

	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListByCompany lista usuarios activos de la empresa; role vacío = todos los roles.
	ListByCompany(ctx context.Context, companyID, role string) ([]*entity.User, error)
}
