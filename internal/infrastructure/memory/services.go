package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/receivables"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var (
	_ repository.ServiceRepository = (*ServiceRepo)(nil)
	_ repository.CommentRepository = (*CommentRepo)(nil)
)

// ServiceRepo servicios en memoria.
type ServiceRepo struct{ s *Store }

func NewServiceRepository(s *Store) *ServiceRepo { return &ServiceRepo{s: s} }

func (r *ServiceRepo) withClient(svc entity.Service) *entity.Service {
	svc.ClientName = r.s.clients[svc.ClientID].Name
	if svc.PickupAt != nil {
		t := *svc.PickupAt
		svc.PickupAt = &t
	}
	if svc.DeliveryAt != nil {
		t := *svc.DeliveryAt
		svc.DeliveryAt = &t
	}
	return &svc
}

func sortServices(list []*entity.Service) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Sequence != list[j].Sequence {
			return list[i].Sequence < list[j].Sequence
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

func (r *ServiceRepo) Create(_ context.Context, svc *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[svc.ClientID]; !ok {
		return domain.NewValidationError("client_id", "cliente inexistente")
	}
	r.s.services[svc.ID] = *svc
	return nil
}

func (r *ServiceRepo) Update(_ context.Context, svc *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[svc.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.services[svc.ID] = *svc
	return nil
}

func (r *ServiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.services, id)
	return nil
}

func (r *ServiceRepo) GetByID(_ context.Context, id string) (*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.withClient(svc), nil
}

func (r *ServiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Service, error) {
	return r.GetByID(ctx, id)
}

func (r *ServiceRepo) ListByRoute(_ context.Context, routeID string) ([]*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Service
	for _, svc := range r.s.services {
		if svc.RouteID == routeID {
			list = append(list, r.withClient(svc))
		}
	}
	sortServices(list)
	return list, nil
}

func (r *ServiceRepo) NextSequence(_ context.Context, routeID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	max := 0
	for _, svc := range r.s.services {
		if svc.RouteID == routeID && svc.Sequence > max {
			max = svc.Sequence
		}
	}
	return max + 1, nil
}

func (r *ServiceRepo) Reorder(_ context.Context, routeID string, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		svc, ok := r.s.services[id]
		if !ok || svc.RouteID != routeID {
			return domain.NewValidationError("ids", "hay servicios que no pertenecen a la ruta")
		}
	}
	for i, id := range ids {
		svc := r.s.services[id]
		svc.Sequence = i + 1
		r.s.services[id] = svc
	}
	return nil
}

func (r *ServiceRepo) ListByDriver(_ context.Context, companyID, driverID string, f repository.DriverServiceFilter) ([]*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Service
	for _, svc := range r.s.services {
		rt, ok := r.s.routes[svc.RouteID]
		if !ok || rt.CompanyID != companyID || rt.DriverID != driverID {
			continue
		}
		if f.OnlyUndelivered && svc.Delivered {
			continue
		}
		if f.OnlyActiveRoutes && rt.State != entity.RouteActive {
			continue
		}
		list = append(list, r.withClient(svc))
	}
	sortServices(list)
	return list, nil
}

func (r *ServiceRepo) ListOutstanding(_ context.Context, companyID string, f repository.ReceivablesFilter) ([]receivables.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []receivables.Item
	for _, svc := range r.s.services {
		rt, ok := r.s.routes[svc.RouteID]
		if !ok || rt.CompanyID != companyID || svc.PaymentState == entity.PaymentPaid {
			continue
		}
		if f.From != nil && rt.DepartureDate.Before(*f.From) {
			continue
		}
		if f.To != nil && rt.DepartureDate.After(*f.To) {
			continue
		}
		if f.ClientID != "" && svc.ClientID != f.ClientID {
			continue
		}
		svc := svc
		items = append(items, receivables.Item{
			ServiceID: svc.ID, ClientID: svc.ClientID, ClientName: r.s.clients[svc.ClientID].Name,
			RouteID: rt.ID, DepartureDate: rt.DepartureDate, Origin: svc.Origin, Destination: svc.Destination,
			Value: svc.Value, Paid: svc.PaidAmount, Outstanding: svc.Outstanding(),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].DepartureDate.Equal(items[j].DepartureDate) {
			return items[i].DepartureDate.Before(items[j].DepartureDate)
		}
		return items[i].ServiceID < items[j].ServiceID
	})
	return items, nil
}

// CommentRepo comentarios en memoria.
type CommentRepo struct{ s *Store }

func NewCommentRepository(s *Store) *CommentRepo { return &CommentRepo{s: s} }

func (r *CommentRepo) Create(_ context.Context, c *entity.ServiceComment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.comments = append(r.s.comments, *c)
	return nil
}

func (r *CommentRepo) ListByService(_ context.Context, serviceID string) ([]*entity.ServiceComment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.ServiceComment
	for _, c := range r.s.comments {
		if c.ServiceID == serviceID {
			c := c
			c.AuthorName = r.s.users[c.AuthorID].Name
			list = append(list, &c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}
