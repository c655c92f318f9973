// Package analytics arma el tablero de gerencia: totales del mes, contadores del día
// y los indicadores del periodo elegido.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	domana "github.com/jhoicas/Acarreo-api/internal/domain/analytics"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

const (
	dateLayout = "2006-01-02"

	// activeRouteCards rutas activas que se muestran como tarjetas.
	activeRouteCards = 6
)

// DashboardUseCase resumen de gerencia.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) y las rutas activas.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	routes        repository.RouteRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, routes repository.RouteRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, routes: routes, now: time.Now}
}

// GetSummary construye el tablero. Solo gerentes.
//
// Tres consultas en paralelo:
//  1. ServiceFacts(mes en curso)      → totales del mes
//  2. ServiceFacts(periodo, conductor) → indicadores, serie diaria y rankings
//  3. OperationalCounts(hoy)          → contadores del día
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor dto.Actor, q dto.DashboardQuery) (*dto.DashboardSummaryResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	now := uc.now()
	period, err := domana.ParsePeriod(q.Range, q.From, q.To, now)
	if err != nil {
		return nil, err
	}
	month := domana.MonthToDate(now)
	today := domana.DayOf(now)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	type factsResult struct {
		facts []domana.Fact
		err   error
	}
	type countsResult struct {
		counts domana.Counts
		err    error
	}

	monthCh := make(chan factsResult, 1)
	periodCh := make(chan factsResult, 1)
	countsCh := make(chan countsResult, 1)

	go func() {
		facts, err := uc.analyticsRepo.ServiceFacts(ctx, actor.CompanyID, repository.AnalyticsFilter{From: month.From, To: month.To})
		monthCh <- factsResult{facts, err}
	}()
	go func() {
		facts, err := uc.analyticsRepo.ServiceFacts(ctx, actor.CompanyID, repository.AnalyticsFilter{
			From:     period.From,
			To:       period.To,
			DriverID: q.DriverID,
		})
		periodCh <- factsResult{facts, err}
	}()
	go func() {
		c, err := uc.analyticsRepo.OperationalCounts(ctx, actor.CompanyID, today, dayStart, dayEnd)
		countsCh <- countsResult{c, err}
	}()

	m := <-monthCh
	p := <-periodCh
	c := <-countsCh

	if m.err != nil {
		return nil, fmt.Errorf("dashboard: servicios del mes: %w", m.err)
	}
	if p.err != nil {
		return nil, fmt.Errorf("dashboard: servicios del periodo: %w", p.err)
	}
	if c.err != nil {
		return nil, fmt.Errorf("dashboard: contadores: %w", c.err)
	}

	cards, err := uc.routes.List(ctx, actor.CompanyID, repository.RouteFilter{State: entity.RouteActive, Limit: activeRouteCards})
	if err != nil {
		return nil, fmt.Errorf("dashboard: rutas activas: %w", err)
	}

	monthRep := domana.Build(m.facts, month)
	periodRep := domana.Build(p.facts, period)

	resp := &dto.DashboardSummaryResponse{
		DateLabel: monthLabel(now),
		Month: dto.DashboardMonthResponse{
			Billed:     monthRep.Billed,
			Collected:  monthRep.Collected,
			Receivable: monthRep.Receivable,
			Services:   monthRep.Services,
		},
		Counts: dto.DashboardCountsResponse{
			ActiveRoutes:   c.counts.ActiveRoutes,
			ActiveServices: c.counts.ActiveServices,
			PendingToday:   c.counts.PendingToday,
			DeliveredToday: c.counts.DeliveredToday,
		},
		Period:       periodResponse(period, periodRep),
		ActiveRoutes: make([]dto.RouteResponse, 0, len(cards)),
	}
	for _, rt := range cards {
		resp.ActiveRoutes = append(resp.ActiveRoutes, dto.RouteFromEntity(rt))
	}
	return resp, nil
}

func periodResponse(p domana.Period, rep domana.Report) dto.DashboardPeriodResponse {
	out := dto.DashboardPeriodResponse{
		Range:            p.Range,
		From:             p.From.Format(dateLayout),
		To:               p.To.Format(dateLayout),
		Billed:           rep.Billed,
		Collected:        rep.Collected,
		Receivable:       rep.Receivable,
		Services:         rep.Services,
		AverageTicket:    rep.AverageTicket,
		CollectedPercent: rep.CollectedPercent,
		LeadTimeHours:    rep.LeadTimeHours,
		Daily:            make([]dto.DailyBilledResponse, 0, len(rep.Daily)),
		TopDrivers:       ranked(rep.TopDrivers),
		TopClients:       ranked(rep.TopClients),
	}
	for _, d := range rep.Daily {
		out.Daily = append(out.Daily, dto.DailyBilledResponse{Date: d.Date.Format(dateLayout), Billed: d.Billed})
	}
	return out
}

func ranked(list []domana.Ranked) []dto.RankedResponse {
	out := make([]dto.RankedResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.RankedResponse{ID: r.ID, Name: r.Name, Total: r.Total})
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Marzo 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
