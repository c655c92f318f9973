// Package webpush entrega notificaciones Web Push firmadas con VAPID.
package webpush

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/jhoicas/Acarreo-api/internal/application/notification"
	"github.com/jhoicas/Acarreo-api/internal/domain/entity"
)

// Config claves VAPID y parámetros de envío.
type Config struct {
	PublicKey  string
	PrivateKey string
	Subject    string // mailto:... o https://...
	TTL        int    // segundos
}

// Sender implementa notification.Sender.
type Sender struct {
	cfg    Config
	client webpush.HTTPClient
}

var _ notification.Sender = (*Sender)(nil)

// NewSender client nil usa el http.Client por defecto de la librería.
func NewSender(cfg Config, client webpush.HTTPClient) *Sender {
	if cfg.TTL <= 0 {
		cfg.TTL = 60
	}
	// la librería antepone "mailto:" a todo lo que no sea https
	cfg.Subject = strings.TrimPrefix(cfg.Subject, "mailto:")
	return &Sender{cfg: cfg, client: client}
}

// Send cifra y envía el mensaje. 404/410 se reporta como notification.ErrSubscriptionGone.
func (s *Sender) Send(ctx context.Context, sub *entity.PushSubscription, msg notification.Message) error {
	payload, err := msg.Payload()
	if err != nil {
		return fmt.Errorf("webpush: payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.cfg.Subject,
		VAPIDPublicKey:  s.cfg.PublicKey,
		VAPIDPrivateKey: s.cfg.PrivateKey,
		TTL:             s.cfg.TTL,
		Urgency:         urgency(msg.Urgency),
	})
	if err != nil {
		return fmt.Errorf("webpush: enviar: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return notification.ErrSubscriptionGone
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webpush: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

func urgency(u string) webpush.Urgency {
	switch webpush.Urgency(u) {
	case webpush.UrgencyVeryLow, webpush.UrgencyLow, webpush.UrgencyHigh:
		return webpush.Urgency(u)
	default:
		return webpush.UrgencyNormal
	}
}
