package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/domain/analytics"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas del tablero sobre el store en memoria.
type AnalyticsRepo struct{ s *Store }

func NewAnalyticsRepository(s *Store) *AnalyticsRepo { return &AnalyticsRepo{s: s} }

func (r *AnalyticsRepo) ServiceFacts(_ context.Context, companyID string, f repository.AnalyticsFilter) ([]analytics.Fact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var facts []analytics.Fact
	for _, svc := range r.s.services {
		rt, ok := r.s.routes[svc.RouteID]
		if !ok || rt.CompanyID != companyID {
			continue
		}
		if rt.DepartureDate.Before(f.From) || rt.DepartureDate.After(f.To) {
			continue
		}
		if f.DriverID != "" && rt.DriverID != f.DriverID {
			continue
		}
		facts = append(facts, analytics.Fact{
			ServiceID:     svc.ID,
			RouteID:       rt.ID,
			DepartureDate: rt.DepartureDate,
			DriverID:      rt.DriverID,
			DriverName:    r.s.users[rt.DriverID].Name,
			ClientID:      svc.ClientID,
			ClientName:    r.s.clients[svc.ClientID].Name,
			Value:         svc.Value,
			Paid:          svc.PaidAmount,
			PickupAt:      svc.PickupAt,
			DeliveryAt:    svc.DeliveryAt,
		})
	}
	sort.Slice(facts, func(i, j int) bool {
		if !facts[i].DepartureDate.Equal(facts[j].DepartureDate) {
			return facts[i].DepartureDate.Before(facts[j].DepartureDate)
		}
		return facts[i].ServiceID < facts[j].ServiceID
	})
	return facts, nil
}

func (r *AnalyticsRepo) OperationalCounts(_ context.Context, companyID string, today, dayStart, dayEnd time.Time) (analytics.Counts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var c analytics.Counts
	for _, rt := range r.s.routes {
		if rt.CompanyID == companyID && rt.State == entity.RouteActive {
			c.ActiveRoutes++
		}
	}
	for _, svc := range r.s.services {
		rt, ok := r.s.routes[svc.RouteID]
		if !ok || rt.CompanyID != companyID {
			continue
		}
		if rt.State == entity.RouteActive && !svc.Delivered {
			c.ActiveServices++
		}
		if rt.DepartureDate.Equal(today) && !svc.Delivered {
			c.PendingToday++
		}
		if svc.Delivered && svc.DeliveryAt != nil && !svc.DeliveryAt.Before(dayStart) && svc.DeliveryAt.Before(dayEnd) {
			c.DeliveredToday++
		}
	}
	return c, nil
}
