package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Acarreo-api/internal/application/dto"
	"github.com/jhoicas/Acarreo-api/internal/domain"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
	"github.com/jhoicas/Acarreo-api/internal/domain/event"
	"github.com/jhoicas/Acarreo-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Service suscripciones del usuario y reparto de eventos.
type Service struct {
	subs      repository.PushSubscriptionRepository
	users     repository.UserRepository
	sender    Sender // nil = push deshabilitado
	publicKey string
	log       zerolog.Logger
}

// NewService construye el servicio. sender nil deja las notificaciones deshabilitadas
// (las suscripciones se siguen guardando).
func NewService(subs repository.PushSubscriptionRepository, users repository.UserRepository, sender Sender, publicKey string, log zerolog.Logger) *Service {
	return &Service{subs: subs, users: users, sender: sender, publicKey: publicKey, log: log}
}

// Subscribe registra o reasigna la suscripción del navegador al usuario.
func (s *Service) Subscribe(ctx context.Context, actor dto.Actor, in dto.PushSubscribeRequest, userAgent string) error {
	if strings.TrimSpace(in.Endpoint) == "" || in.Keys.P256dh == "" || in.Keys.Auth == "" {
		return domain.NewValidationError("endpoint", "suscripción inválida")
	}
	return s.subs.Upsert(ctx, &entity.PushSubscription{
		ID:        uuid.New().String(),
		UserID:    actor.UserID,
		Endpoint:  in.Endpoint,
		P256dh:    in.Keys.P256dh,
		Auth:      in.Keys.Auth,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	})
}

// UnsubscribeAll borra todas las suscripciones del usuario.
func (s *Service) UnsubscribeAll(ctx context.Context, actor dto.Actor) (int64, error) {
	return s.subs.DeleteByUser(ctx, actor.UserID)
}

// Status cantidad de suscripciones del usuario y clave pública VAPID.
func (s *Service) Status(ctx context.Context, actor dto.Actor) (*dto.PushStatusResponse, error) {
	n, err := s.subs.CountByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.PushStatusResponse{Enabled: s.sender != nil, Subscriptions: n, PublicKey: s.publicKey}, nil
}

// SendTest envía una notificación de prueba a los dispositivos del usuario.
func (s *Service) SendTest(ctx context.Context, actor dto.Actor) (*dto.PushTestResponse, error) {
	if s.sender == nil {
		return nil, fmt.Errorf("%w: push deshabilitado", domain.ErrConflict)
	}
	msg := newMessage("Ping AcarreApp", "Notificación de prueba", "/", UrgencyHigh)
	msg.RequireInteraction = true
	msg.Tag = "acarreapp-event"
	msg.Actions = []Action{{Action: "ver", Title: "Ver detalle"}}

	sent, failed, err := s.deliver(ctx, []string{actor.UserID}, msg)
	if err != nil {
		return nil, err
	}
	return &dto.PushTestResponse{Sent: sent, Failed: failed}, nil
}

// Handle reparte un evento: los conductores de la empresa reciben el enlace a sus rutas y el
// resto el detalle. Quien originó el evento no recibe notificación.
func (s *Service) Handle(ctx context.Context, ev event.Event) error {
	if s.sender == nil {
		return nil
	}
	var (
		companyID, actorID string
		toDrivers, toRest  Message
	)
	switch e := ev.(type) {
	case event.RouteCreated:
		companyID, actorID = e.CompanyID, e.ActorID
		body := fmt.Sprintf("%s creada para %s.", e.RouteLabel, e.DepartureDate.Format("2006-01-02"))
		toDrivers = newMessage("🧭 Nueva ruta asignada", body, "/rutas/mias/", UrgencyHigh)
		toRest = newMessage("🧭 Nueva ruta creada", body, fmt.Sprintf("/rutas/%s/detalle/", e.RouteID), UrgencyNormal)
	case *event.RouteCreated:
		return s.Handle(ctx, *e)
	case event.ServiceCreated:
		companyID, actorID = e.CompanyID, e.ActorID
		body := fmt.Sprintf("%s: %s → %s", e.ClientName, e.Origin, e.Destination)
		toDrivers = newMessage("📦 Nuevo servicio en tu ruta", body, "/rutas/mias/", UrgencyNormal)
		toRest = newMessage("📦 Nuevo servicio creado", body, fmt.Sprintf("/servicios/%s/", e.ServiceID), UrgencyNormal)
	case *event.ServiceCreated:
		return s.Handle(ctx, *e)
	default:
		return fmt.Errorf("evento no soportado: %s", ev.Name())
	}

	users, err := s.users.ListByCompany(ctx, companyID, "")
	if err != nil {
		return err
	}
	var drivers, rest []string
	for _, u := range users {
		if u.ID == actorID {
			continue
		}
		if u.IsDriver() {
			drivers = append(drivers, u.ID)
		} else {
			rest = append(rest, u.ID)
		}
	}

	var errs []error
	for _, group := range []struct {
		ids []string
		msg Message
	}{{drivers, toDrivers}, {rest, toRest}} {
		if len(group.ids) == 0 {
			continue
		}
		sent, failed, err := s.deliver(ctx, group.ids, group.msg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.log.Debug().Str("event", ev.Name()).Int("sent", sent).Int("failed", failed).Msg("push enviado")
	}
	return errors.Join(errs...)
}

// deliver envía a todas las suscripciones de los usuarios. Los fallos individuales se registran
// y cuentan; las suscripciones expiradas se eliminan.
func (s *Service) deliver(ctx context.Context, userIDs []string, msg Message) (sent, failed int, err error) {
	subs, err := s.subs.ListByUsers(ctx, userIDs)
	if err != nil {
		return 0, 0, err
	}
	for _, sub := range subs {
		err := s.sender.Send(ctx, sub, msg)
		switch {
		case err == nil:
			sent++
		case errors.Is(err, ErrSubscriptionGone):
			failed++
			if derr := s.subs.DeleteByEndpoint(ctx, sub.Endpoint); derr != nil {
				s.log.Error().Err(derr).Str("user_id", sub.UserID).Msg("no se pudo borrar la suscripción expirada")
			}
		default:
			failed++
			s.log.Error().Err(err).Str("user_id", sub.UserID).Str("endpoint", truncate(sub.Endpoint, 60)).Msg("error enviando push")
		}
	}
	return sent, failed, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
