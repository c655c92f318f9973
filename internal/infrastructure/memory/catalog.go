package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.ClientRepository  = (*ClientRepo)(nil)
	_ repository.VehicleRepository = (*VehicleRepo)(nil)
)

// CompanyRepo empresas en memoria.
type CompanyRepo struct{ s *Store }

func NewCompanyRepository(s *Store) *CompanyRepo { return &CompanyRepo{s: s} }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.companies {
		if e.Slug == c.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *CompanyRepo) GetBySlug(_ context.Context, slug string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func NewUserRepository(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.users {
		if strings.EqualFold(e.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepo) ListByCompany(_ context.Context, companyID, role string) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.User
	for _, u := range r.s.users {
		if u.CompanyID != companyID || u.Status != entity.UserActive || (role != "" && u.Role != role) {
			continue
		}
		u := u
		list = append(list, &u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ClientRepo clientes en memoria.
type ClientRepo struct{ s *Store }

func NewClientRepository(s *Store) *ClientRepo { return &ClientRepo{s: s} }

func (r *ClientRepo) duplicate(c *entity.Client) bool {
	for _, e := range r.s.clients {
		if e.ID != c.ID && e.CompanyID == c.CompanyID && e.Name == c.Name {
			return true
		}
	}
	return false
}

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.duplicate(c) {
		return domain.FieldError("name", domain.ErrDuplicate)
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.clients[c.ID]
	if !ok || e.CompanyID != c.CompanyID {
		return domain.ErrNotFound
	}
	if r.duplicate(c) {
		return domain.FieldError("name", domain.ErrDuplicate)
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, companyID, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok || c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *ClientRepo) List(_ context.Context, companyID string, onlyActive bool) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Client
	for _, c := range r.s.clients {
		if c.CompanyID != companyID || (onlyActive && !c.Active) {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// VehicleRepo vehículos en memoria.
type VehicleRepo struct{ s *Store }

func NewVehicleRepository(s *Store) *VehicleRepo { return &VehicleRepo{s: s} }

func (r *VehicleRepo) duplicate(v *entity.Vehicle) bool {
	for _, e := range r.s.vehicles {
		if e.ID != v.ID && e.CompanyID == v.CompanyID && e.Plate == v.Plate {
			return true
		}
	}
	return false
}

func (r *VehicleRepo) Create(_ context.Context, v *entity.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.duplicate(v) {
		return domain.FieldError("plate", domain.ErrDuplicate)
	}
	r.s.vehicles[v.ID] = *v
	return nil
}

func (r *VehicleRepo) Update(_ context.Context, v *entity.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.vehicles[v.ID]
	if !ok || e.CompanyID != v.CompanyID {
		return domain.ErrNotFound
	}
	if r.duplicate(v) {
		return domain.FieldError("plate", domain.ErrDuplicate)
	}
	r.s.vehicles[v.ID] = *v
	return nil
}

func (r *VehicleRepo) GetByID(_ context.Context, companyID, id string) (*entity.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vehicles[id]
	if !ok || v.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (r *VehicleRepo) List(_ context.Context, companyID string, onlyActive bool) ([]*entity.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Vehicle
	for _, v := range r.s.vehicles {
		if v.CompanyID != companyID || (onlyActive && !v.Active) {
			continue
		}
		v := v
		list = append(list, &v)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Plate < list[j].Plate })
	return list, nil
}
