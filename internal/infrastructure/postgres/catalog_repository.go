package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository  = (*ClientRepo)(nil)
	_ repository.VehicleRepository = (*VehicleRepo)(nil)
)

// ClientRepo clientes sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador de clientes.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, company_id, name, contact, phone, address, active, created_at, updated_at`

// Create persiste un cliente; nombre repetido en la empresa = domain.ErrDuplicate.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.CompanyID, c.Name, c.Contact, c.Phone, c.Address, c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.FieldError("name", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update actualiza datos y estado del cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE clients SET name = $3, contact = $4, phone = $5, address = $6, active = $7, updated_at = $8
		WHERE id = $1 AND company_id = $2`,
		c.ID, c.CompanyID, c.Name, c.Contact, c.Phone, c.Address, c.Active, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.FieldError("name", domain.ErrDuplicate)
		}
		return fmt.Errorf("update client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un cliente de la empresa.
func (r *ClientRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1 AND company_id = $2`,
		id, companyID).Scan(&c.ID, &c.CompanyID, &c.Name, &c.Contact, &c.Phone, &c.Address, &c.Active,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound("get client", err)
	}
	return &c, nil
}

// List lista los clientes de la empresa por nombre.
func (r *ClientRepo) List(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE company_id = $1 AND (NOT $2 OR active)
		ORDER BY name`, companyID, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Contact, &c.Phone, &c.Address, &c.Active,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// VehicleRepo vehículos sobre PostgreSQL.
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador de vehículos.
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

const vehicleColumns = `id, company_id, plate, brand, model, active, created_at, updated_at`

// Create persiste un vehículo; placa repetida en la empresa = domain.ErrDuplicate.
func (r *VehicleRepo) Create(ctx context.Context, v *entity.Vehicle) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.CompanyID, v.Plate, v.Brand, v.Model, v.Active, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.FieldError("plate", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// Update actualiza datos y estado del vehículo.
func (r *VehicleRepo) Update(ctx context.Context, v *entity.Vehicle) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE vehicles SET plate = $3, brand = $4, model = $5, active = $6, updated_at = $7
		WHERE id = $1 AND company_id = $2`,
		v.ID, v.CompanyID, v.Plate, v.Brand, v.Model, v.Active, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.FieldError("plate", domain.ErrDuplicate)
		}
		return fmt.Errorf("update vehicle: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un vehículo de la empresa.
func (r *VehicleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Vehicle, error) {
	var v entity.Vehicle
	err := r.q.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1 AND company_id = $2`,
		id, companyID).Scan(&v.ID, &v.CompanyID, &v.Plate, &v.Brand, &v.Model, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, notFound("get vehicle", err)
	}
	return &v, nil
}

// List lista los vehículos de la empresa por placa.
func (r *VehicleRepo) List(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Vehicle, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+vehicleColumns+` FROM vehicles
		WHERE company_id = $1 AND (NOT $2 OR active)
		ORDER BY plate`, companyID, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var list []*entity.Vehicle
	for rows.Next() {
		var v entity.Vehicle
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Plate, &v.Brand, &v.Model, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
