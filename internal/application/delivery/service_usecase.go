package delivery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/event"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
)

// Deps dependencias de ServiceUseCase.
type Deps struct {
	Tx       repository.TxRunner
	Routes   repository.RouteRepository
	Services repository.ServiceRepository
	Comments repository.CommentRepository
	Clients  repository.ClientRepository
	Users    repository.UserRepository
}

// ServiceUseCase servicios de una ruta: alta, orden, cobros, seguimiento y comentarios.
type ServiceUseCase struct {
	d   Deps
	now func() time.Time
}

func NewServiceUseCase(d Deps) *ServiceUseCase {
	return &ServiceUseCase{d: d, now: time.Now}
}

// canOperate gerentes de la empresa, o el conductor asignado a la ruta.
func canOperate(actor dto.Actor, route *entity.Route) error {
	if err := route.BelongsTo(actor.CompanyID); err != nil {
		return err
	}
	if actor.IsDriver() && route.DriverID != actor.UserID {
		return domain.ErrForbidden
	}
	return nil
}

// deriveState estado de pago implícito cuando la entrada solo trae el monto pagado.
func deriveState(value, paid int64) entity.PaymentState {
	switch {
	case paid <= 0:
		return entity.PaymentPending
	case paid >= value:
		return entity.PaymentPaid
	default:
		return entity.PaymentPartial
	}
}

func (uc *ServiceUseCase) checkClient(ctx context.Context, companyID, clientID string) (*entity.Client, error) {
	c, err := uc.d.Clients.GetByID(ctx, companyID, clientID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !c.Active) {
		return nil, domain.NewValidationError("client_id", "cliente inexistente o inactivo")
	}
	return c, err
}

// openRoute bloquea la ruta y verifica tenant, permisos y estado ACTIVE.
func openRoute(ctx context.Context, tx repository.TxRepos, actor dto.Actor, routeID string) (*entity.Route, error) {
	route, err := tx.Routes.GetForUpdate(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if err := canOperate(actor, route); err != nil {
		return nil, err
	}
	if err := route.EnsureOpen(); err != nil {
		return nil, err
	}
	return route, nil
}

// mutate ejecuta fn con la ruta y el servicio bloqueados, en ese orden.
func (uc *ServiceUseCase) mutate(ctx context.Context, actor dto.Actor, serviceID string, fn func(tx repository.TxRepos, route *entity.Route, svc *entity.Service) error) error {
	current, err := uc.d.Services.GetByID(ctx, serviceID)
	if err != nil {
		return err
	}
	return uc.d.Tx.Run(ctx, func(tx repository.TxRepos) error {
		route, err := openRoute(ctx, tx, actor, current.RouteID)
		if err != nil {
			return err
		}
		svc, err := tx.Services.GetForUpdate(ctx, serviceID)
		if err != nil {
			return err
		}
		if svc.RouteID != route.ID {
			return domain.ErrConcurrentModification
		}
		return fn(tx, route, svc)
	})
}

// Create agrega un servicio al final de la ruta. Devuelve el evento ServiceCreated.
func (uc *ServiceUseCase) Create(ctx context.Context, actor dto.Actor, routeID string, in dto.CreateServiceRequest) (*dto.ServiceResponse, *event.ServiceCreated, error) {
	client, err := uc.checkClient(ctx, actor.CompanyID, in.ClientID)
	if err != nil {
		return nil, nil, err
	}

	now := uc.now()
	svc := &entity.Service{
		ID:           uuid.New().String(),
		RouteID:      routeID,
		ClientID:     client.ID,
		Value:        in.Value,
		PaidAmount:   in.PaidAmount,
		PaymentState: entity.PaymentState(in.PaymentState),
		Origin:       strings.TrimSpace(in.Origin),
		Destination:  strings.TrimSpace(in.Destination),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
		ClientName:   client.Name,
	}
	if svc.PaymentState == "" {
		svc.PaymentState = deriveState(svc.Value, svc.PaidAmount)
	}
	svc.Normalize()
	if err := svc.Validate(); err != nil {
		return nil, nil, err
	}

	var route *entity.Route
	err = uc.d.Tx.Run(ctx, func(tx repository.TxRepos) error {
		r, err := openRoute(ctx, tx, actor, routeID)
		if err != nil {
			return err
		}
		seq, err := tx.Services.NextSequence(ctx, routeID)
		if err != nil {
			return err
		}
		svc.Sequence = seq
		route = r
		return tx.Services.Create(ctx, svc)
	})
	if err != nil {
		return nil, nil, err
	}

	ev := &event.ServiceCreated{
		CompanyID:   route.CompanyID,
		ServiceID:   svc.ID,
		RouteID:     route.ID,
		DriverID:    route.DriverID,
		ClientName:  svc.ClientName,
		Origin:      svc.Origin,
		Destination: svc.Destination,
		ActorID:     actor.UserID,
		At:          now,
	}
	resp := dto.ServiceFromEntity(svc)
	return &resp, ev, nil
}

// Update edita un servicio de una ruta abierta.
func (uc *ServiceUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	var out *entity.Service
	err := uc.mutate(ctx, actor, id, func(tx repository.TxRepos, route *entity.Route, svc *entity.Service) error {
		if in.ClientID != nil && *in.ClientID != svc.ClientID {
			c, err := uc.checkClient(ctx, route.CompanyID, *in.ClientID)
			if err != nil {
				return err
			}
			svc.ClientID, svc.ClientName = c.ID, c.Name
		}
		if in.Value != nil {
			svc.Value = *in.Value
		}
		if in.PaidAmount != nil {
			svc.PaidAmount = *in.PaidAmount
		}
		switch {
		case in.PaymentState != nil:
			svc.PaymentState = entity.PaymentState(*in.PaymentState)
		case in.PaidAmount != nil || in.Value != nil:
			svc.PaymentState = deriveState(svc.Value, svc.PaidAmount)
		}
		if in.Origin != nil {
			svc.Origin = strings.TrimSpace(*in.Origin)
		}
		if in.Destination != nil {
			svc.Destination = strings.TrimSpace(*in.Destination)
		}
		if in.Notes != nil {
			svc.Notes = strings.TrimSpace(*in.Notes)
		}
		svc.Normalize()
		if err := svc.Validate(); err != nil {
			return err
		}
		svc.UpdatedAt = uc.now()
		if err := tx.Services.Update(ctx, svc); err != nil {
			return err
		}
		out = svc
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ServiceFromEntity(out)
	return &resp, nil
}

// Delete elimina un servicio. Solo gerentes.
func (uc *ServiceUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	if !actor.IsManager() {
		return domain.ErrForbidden
	}
	return uc.mutate(ctx, actor, id, func(tx repository.TxRepos, _ *entity.Route, svc *entity.Service) error {
		return tx.Services.Delete(ctx, svc.ID)
	})
}

// Reorder fija el orden de visita. ids debe contener exactamente los servicios de la ruta.
func (uc *ServiceUseCase) Reorder(ctx context.Context, actor dto.Actor, routeID string, ids []string) ([]dto.ServiceResponse, error) {
	var out []*entity.Service
	err := uc.d.Tx.Run(ctx, func(tx repository.TxRepos) error {
		if _, err := openRoute(ctx, tx, actor, routeID); err != nil {
			return err
		}
		current, err := tx.Services.ListByRoute(ctx, routeID)
		if err != nil {
			return err
		}
		if len(current) != len(ids) {
			return domain.NewValidationError("ids", "el orden debe incluir todos los servicios de la ruta")
		}
		seen := make(map[string]bool, len(ids))
		for _, s := range current {
			seen[s.ID] = true
		}
		for _, id := range ids {
			if !seen[id] {
				return domain.NewValidationError("ids", "hay servicios que no pertenecen a la ruta")
			}
			delete(seen, id)
		}
		if err := tx.Services.Reorder(ctx, routeID, ids); err != nil {
			return err
		}
		out, err = tx.Services.ListByRoute(ctx, routeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.ServicesFromEntities(out), nil
}

// RecordPayment abono en efectivo: se recorta al saldo, actualiza el estado y deja un INCOME en la caja.
func (uc *ServiceUseCase) RecordPayment(ctx context.Context, actor dto.Actor, id string, amount int64) (*dto.PaymentResponse, error) {
	if amount <= 0 {
		return nil, domain.FieldError("amount", domain.ErrInvalidPaymentAmount)
	}
	var (
		out      *entity.Service
		movement *entity.CashMovement
		applied  int64
		clamped  bool
	)
	err := uc.mutate(ctx, actor, id, func(tx repository.TxRepos, route *entity.Route, svc *entity.Service) error {
		var err error
		applied, clamped, err = svc.ApplyPayment(amount)
		if err != nil {
			return err
		}
		now := uc.now()
		svc.UpdatedAt = now
		if err := tx.Services.Update(ctx, svc); err != nil {
			return err
		}
		movement = &entity.CashMovement{
			ID:        uuid.New().String(),
			RouteID:   route.ID,
			ServiceID: svc.ID,
			Kind:      entity.MovementIncome,
			Amount:    applied,
			Memo:      svc.PaymentMemo(),
			ActorID:   actor.UserID,
			CreatedAt: now,
		}
		if err := tx.Movements.Create(ctx, movement); err != nil {
			return err
		}
		out = svc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.PaymentResponse{
		Service:  dto.ServiceFromEntity(out),
		Applied:  applied,
		Clamped:  clamped,
		Movement: dto.MovementFromEntity(movement),
	}, nil
}

// MarkPaid override de gerente: paid = value, sin movimiento de caja.
func (uc *ServiceUseCase) MarkPaid(ctx context.Context, actor dto.Actor, id string) (*dto.ServiceResponse, error) {
	if !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	return uc.update(ctx, actor, id, func(svc *entity.Service) { svc.MarkPaid() })
}

// MarkPickedUp marca la recogida con coordenadas opcionales.
func (uc *ServiceUseCase) MarkPickedUp(ctx context.Context, actor dto.Actor, id string, in dto.TrackRequest) (*dto.ServiceResponse, error) {
	pos, err := position(in)
	if err != nil {
		return nil, err
	}
	at := uc.now()
	return uc.update(ctx, actor, id, func(svc *entity.Service) { svc.MarkPickedUp(at, pos) })
}

// MarkDelivered marca la entrega con coordenadas opcionales.
func (uc *ServiceUseCase) MarkDelivered(ctx context.Context, actor dto.Actor, id string, in dto.TrackRequest) (*dto.ServiceResponse, error) {
	pos, err := position(in)
	if err != nil {
		return nil, err
	}
	at := uc.now()
	return uc.update(ctx, actor, id, func(svc *entity.Service) { svc.MarkDelivered(at, pos) })
}

func (uc *ServiceUseCase) update(ctx context.Context, actor dto.Actor, id string, change func(*entity.Service)) (*dto.ServiceResponse, error) {
	var out *entity.Service
	err := uc.mutate(ctx, actor, id, func(tx repository.TxRepos, _ *entity.Route, svc *entity.Service) error {
		change(svc)
		svc.UpdatedAt = uc.now()
		if err := tx.Services.Update(ctx, svc); err != nil {
			return err
		}
		out = svc
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := dto.ServiceFromEntity(out)
	return &resp, nil
}

// position coordenadas de la marca: ambas o ninguna.
func position(in dto.TrackRequest) (*entity.Coordinates, error) {
	if in.Lat == nil && in.Lon == nil {
		return nil, nil
	}
	if in.Lat == nil || in.Lon == nil {
		return nil, domain.NewValidationError("lat", "latitud y longitud van juntas")
	}
	c := entity.Coordinates{Lat: *in.Lat, Lon: *in.Lon}
	if !c.Valid() {
		return nil, domain.NewValidationError("lat", "coordenadas fuera de rango")
	}
	return &c, nil
}

// loadReadable servicio y ruta para lectura (sin exigir ruta abierta).
func (uc *ServiceUseCase) loadReadable(ctx context.Context, actor dto.Actor, id string) (*entity.Service, *entity.Route, error) {
	svc, err := uc.d.Services.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	route, err := uc.d.Routes.GetByID(ctx, svc.RouteID)
	if err != nil {
		return nil, nil, err
	}
	if err := canOperate(actor, route); err != nil {
		return nil, nil, err
	}
	return svc, route, nil
}

// AddComment deja una nota en el servicio. Se permite también en rutas cerradas.
func (uc *ServiceUseCase) AddComment(ctx context.Context, actor dto.Actor, id, text string) (*dto.CommentResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("text", "el comentario está vacío")
	}
	if _, _, err := uc.loadReadable(ctx, actor, id); err != nil {
		return nil, err
	}
	c := &entity.ServiceComment{
		ID:        uuid.New().String(),
		ServiceID: id,
		AuthorID:  actor.UserID,
		Text:      text,
		CreatedAt: uc.now(),
	}
	if u, err := uc.d.Users.GetByID(ctx, actor.UserID); err == nil {
		c.AuthorName = u.Name
	}
	if err := uc.d.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := dto.CommentFromEntity(c)
	return &resp, nil
}

// ListComments comentarios del servicio, más recientes primero.
func (uc *ServiceUseCase) ListComments(ctx context.Context, actor dto.Actor, id string) ([]dto.CommentResponse, error) {
	if _, _, err := uc.loadReadable(ctx, actor, id); err != nil {
		return nil, err
	}
	list, err := uc.d.Comments.ListByService(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CommentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CommentFromEntity(c))
	}
	return out, nil
}

// Detail servicio con duración, distancia, enlace de direcciones y comentarios.
func (uc *ServiceUseCase) Detail(ctx context.Context, actor dto.Actor, id string) (*dto.ServiceDetailResponse, error) {
	svc, route, err := uc.loadReadable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	comments, err := uc.d.Comments.ListByService(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.ServiceDetailResponse{
		ServiceResponse: dto.ServiceFromEntity(svc),
		RouteLabel:      route.Label(),
		Comments:        make([]dto.CommentResponse, 0, len(comments)),
	}
	if d, ok := svc.Duration(); ok {
		m := int(d.Minutes())
		resp.DurationMinutes = &m
	}
	if km, ok := svc.DistanceKm(); ok {
		resp.DistanceKm = &km
	}
	if u, ok := svc.DirectionsURL(); ok {
		resp.DirectionsURL = u
	}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, dto.CommentFromEntity(c))
	}
	return resp, nil
}

// ListMine servicios del conductor autenticado.
func (uc *ServiceUseCase) ListMine(ctx context.Context, actor dto.Actor, q dto.MyServicesQuery) ([]dto.ServiceResponse, error) {
	if !actor.IsDriver() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.d.Services.ListByDriver(ctx, actor.CompanyID, actor.UserID, repository.DriverServiceFilter{
		OnlyUndelivered:  q.Pending,
		OnlyActiveRoutes: q.ActiveOnly,
	})
	if err != nil {
		return nil, err
	}
	return dto.ServicesFromEntities(list), nil
}
