package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

// ClientUseCase catálogo de clientes de la empresa.
type ClientUseCase struct {
	repo repository.ClientRepository
}

func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create alta de cliente. Solo gerentes.
func (uc *ClientUseCase) Create(ctx context.Context, actor dto.Actor, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyClient(c, in)
	if c.Name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := dto.ClientFromEntity(c)
	return &resp, nil
}

// Update edición (incluye activar/desactivar). Solo gerentes.
func (uc *ClientUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	c, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	applyClient(c, in)
	if c.Name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := dto.ClientFromEntity(c)
	return &resp, nil
}

func applyClient(c *entity.Client, in dto.ClientRequest) {
	c.Name = strings.TrimSpace(in.Name)
	c.Contact = strings.TrimSpace(in.Contact)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	if in.Active != nil {
		c.Active = *in.Active
	}
}

// Get cliente de la empresa.
func (uc *ClientUseCase) Get(ctx context.Context, actor dto.Actor, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ClientFromEntity(c)
	return &resp, nil
}

// List clientes ordenados por nombre.
func (uc *ClientUseCase) List(ctx context.Context, actor dto.Actor, onlyActive bool) ([]dto.ClientResponse, error) {
	list, err := uc.repo.List(ctx, actor.CompanyID, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ClientFromEntity(c))
	}
	return out, nil
}

// VehicleUseCase flota de la empresa.
type VehicleUseCase struct {
	repo repository.VehicleRepository
}

func NewVehicleUseCase(repo repository.VehicleRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo}
}

// Create alta de vehículo; la placa se normaliza. Solo gerentes.
func (uc *VehicleUseCase) Create(ctx context.Context, actor dto.Actor, in dto.VehicleRequest) (*dto.VehicleResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	v := &entity.Vehicle{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyVehicle(v, in)
	if len(v.Plate) < 3 {
		return nil, domain.NewValidationError("plate", "placa inválida")
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	resp := dto.VehicleFromEntity(v)
	return &resp, nil
}

// Update edición (incluye activar/desactivar). Solo gerentes.
func (uc *VehicleUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.VehicleRequest) (*dto.VehicleResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	v, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	applyVehicle(v, in)
	if len(v.Plate) < 3 {
		return nil, domain.NewValidationError("plate", "placa inválida")
	}
	v.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	resp := dto.VehicleFromEntity(v)
	return &resp, nil
}

func applyVehicle(v *entity.Vehicle, in dto.VehicleRequest) {
	v.Plate = entity.NormalizePlate(in.Plate)
	v.Brand = strings.TrimSpace(in.Brand)
	v.Model = strings.TrimSpace(in.Model)
	if in.Active != nil {
		v.Active = *in.Active
	}
}

// List vehículos de la empresa.
func (uc *VehicleUseCase) List(ctx context.Context, actor dto.Actor, onlyActive bool) ([]dto.VehicleResponse, error) {
	list, err := uc.repo.List(ctx, actor.CompanyID, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		out = append(out, dto.VehicleFromEntity(v))
	}
	return out, nil
}
