// Package receivables expone la cartera pendiente de la empresa.
package receivables

import (
	"context"
	"time"

	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	domrec "github.com/jhoicas/Acarreo-api/internal/domain/receivables"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// UseCase cartera por cliente y por antigüedad. Solo gerentes.
type UseCase struct {
	services repository.ServiceRepository
	clients  repository.ClientRepository
	now      func() time.Time
}

func NewUseCase(services repository.ServiceRepository, clients repository.ClientRepository) *UseCase {
	return &UseCase{services: services, clients: clients, now: time.Now}
}

func parseRange(q dto.ReceivablesQuery) (repository.ReceivablesFilter, error) {
	var f repository.ReceivablesFilter
	if q.From != "" {
		d, err := dto.ParseDate(q.From)
		if err != nil {
			return f, domain.NewValidationError("from", "fecha inválida")
		}
		f.From = &d
	}
	if q.To != "" {
		d, err := dto.ParseDate(q.To)
		if err != nil {
			return f, domain.NewValidationError("to", "fecha inválida")
		}
		f.To = &d
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, domain.NewValidationError("to", "debe ser posterior a from")
	}
	return f, nil
}

// Summary saldos por cliente, mayores deudores y tramos de antigüedad.
func (uc *UseCase) Summary(ctx context.Context, actor dto.Actor, q dto.ReceivablesQuery) (*dto.ReceivablesSummaryResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	f, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	items, err := uc.services.ListOutstanding(ctx, actor.CompanyID, f)
	if err != nil {
		return nil, err
	}

	asOf := uc.now()
	rep := domrec.Build(items, asOf)
	resp := &dto.ReceivablesSummaryResponse{
		AsOf:       asOf,
		Total:      rep.Total,
		Clients:    balances(rep.Clients),
		TopDebtors: balances(rep.TopDebtors),
		Aging:      make([]dto.AgingBucketResponse, 0, len(rep.Buckets)),
	}
	for _, b := range rep.Buckets {
		resp.Aging = append(resp.Aging, dto.AgingBucketResponse{Label: b.Label, Amount: b.Amount, Count: b.Count, Percent: b.Percent})
	}
	return resp, nil
}

func balances(list []domrec.ClientBalance) []dto.ClientBalanceResponse {
	out := make([]dto.ClientBalanceResponse, 0, len(list))
	for _, cb := range list {
		out = append(out, dto.ClientBalanceResponse{
			ClientID:    cb.ClientID,
			ClientName:  cb.ClientName,
			Services:    cb.Services,
			Outstanding: cb.Outstanding,
			OldestDate:  cb.Oldest.Format(dateLayout),
		})
	}
	return out
}

// ClientDetail servicios pendientes de un cliente de la empresa.
func (uc *UseCase) ClientDetail(ctx context.Context, actor dto.Actor, clientID string, q dto.ReceivablesQuery) (*dto.ClientReceivablesResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	client, err := uc.clients.GetByID(ctx, actor.CompanyID, clientID)
	if err != nil {
		return nil, err
	}
	f, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	f.ClientID = client.ID
	items, err := uc.services.ListOutstanding(ctx, actor.CompanyID, f)
	if err != nil {
		return nil, err
	}

	asOf := uc.now()
	resp := &dto.ClientReceivablesResponse{
		Client: dto.ClientFromEntity(client),
		Items:  make([]dto.ReceivableItemResponse, 0, len(items)),
	}
	for _, it := range items {
		if it.Outstanding <= 0 {
			continue
		}
		resp.Outstanding += it.Outstanding
		resp.Items = append(resp.Items, dto.ReceivableItemResponse{
			ServiceID:     it.ServiceID,
			RouteID:       it.RouteID,
			DepartureDate: it.DepartureDate.Format(dateLayout),
			Origin:        it.Origin,
			Destination:   it.Destination,
			Value:         it.Value,
			Paid:          it.Paid,
			Outstanding:   it.Outstanding,
			AgeDays:       domrec.AgeDays(it.DepartureDate, asOf),
		})
	}
	return resp, nil
}
